package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/loaders"
	"github.com/df07/go-distribution-raytracer/pkg/renderer"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// Request limits
const (
	MinImageSize    = 16
	MaxImageSize    = 2000
	MaxSampleLevel  = 16
	MaxReflectDepth = 20
)

// Server handles web requests for the distribution raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string `json:"scene"`        // Built-in scene ID or "json:<name>"
	Width        int    `json:"width"`        // Output image width
	Height       int    `json:"height"`       // Output image height
	ScreenWidth  int    `json:"screenWidth"`  // Logical render width
	ScreenHeight int    `json:"screenHeight"` // Logical render height
	Samples      *int   `json:"samples"`      // Samples per axis, nil keeps the scene's
	Jitter       *bool  `json:"jitter"`
	Reflections  *bool  `json:"reflections"`
	MaxDepth     *int   `json:"maxDepth"`
	RowsPerPass  int    `json:"rowsPerPass"`
}

// Viewport returns the logical and physical resolution of the request
func (req *RenderRequest) Viewport() geometry.Viewport {
	return geometry.Viewport{
		ScreenWidth:  req.ScreenWidth,
		ScreenHeight: req.ScreenHeight,
		Width:        req.Width,
		Height:       req.Height,
	}
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes grouped for display
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleSceneConfig returns the render configuration of a scene and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.Config
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"samples":      config.Samples,
			"jitter":       config.Jitter,
			"reflections":  config.Reflections,
			"blur":         config.Blur,
			"depthOfField": config.DepthOfField,
			"maxDepth":     config.MaxDepth,
			"fov":          sceneObj.CameraConfig.VFov,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":   map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"samples":  map[string]int{"min": 1, "max": MaxSampleLevel},
			"maxDepth": map[string]int{"min": 0, "max": MaxReflectDepth},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleImage renders a full frame and returns it as a PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj, err := s.createConfiguredScene(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.RowsPerPass = req.RowsPerPass
	raytracer := renderer.NewProgressiveRaytracer(sceneObj, req.Viewport(), config, renderer.NewDefaultLogger())

	img, _, err := raytracer.Render(r.Context())
	if err != nil {
		log.Printf("Render of %s aborted: %v", req.Scene, err)
		http.Error(w, fmt.Sprintf("Render failed: %v", err), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseCommonSceneParams parses the scene name and resolution shared by every endpoint
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 300, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.ScreenWidth, err = parseIntParam(query, "screenWidth", req.Width, 1, req.Width); err != nil {
		return err
	}
	if req.ScreenHeight, err = parseIntParam(query, "screenHeight", req.Height, 1, req.Height); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if query.Has("samples") {
		samples, err := parseIntParam(query, "samples", 1, 1, MaxSampleLevel)
		if err != nil {
			return nil, err
		}
		req.Samples = &samples
	}
	if query.Has("maxDepth") {
		depth, err := parseIntParam(query, "maxDepth", scene.DefaultMaxDepth, 0, MaxReflectDepth)
		if err != nil {
			return nil, err
		}
		req.MaxDepth = &depth
	}
	if req.Jitter, err = parseBoolParam(query, "jitter"); err != nil {
		return nil, err
	}
	if req.Reflections, err = parseBoolParam(query, "reflections"); err != nil {
		return nil, err
	}
	if req.RowsPerPass, err = parseIntParam(query, "rowsPerPass", renderer.DefaultProgressiveConfig().RowsPerPass, 1, MaxImageSize); err != nil {
		return nil, err
	}

	// Performance warning
	if req.ScreenWidth*req.ScreenHeight > 800*600 && req.Samples != nil && *req.Samples > 4 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses an optional boolean parameter; absent parameters yield nil
func parseBoolParam(values url.Values, key string) (*bool, error) {
	value := values.Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, value)
	}
	return &parsed, nil
}

// createScene creates a built-in scene or loads a "json:<name>" scene from the scenes directory
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	if sceneObj, ok := scene.NewBuiltInScene(sceneName); ok {
		return sceneObj, nil
	}

	name, isJSON := strings.CutPrefix(sceneName, "json:")
	if !isJSON || name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("unknown scene: %s", sceneName)
	}

	scenesDir := scene.FindScenesDir()
	if scenesDir == "" {
		return nil, fmt.Errorf("unknown scene: %s", sceneName)
	}

	// Absolute paths avoid ".." when the server runs from web/
	path, err := filepath.Abs(filepath.Join(scenesDir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scene %s: %w", sceneName, err)
	}

	sceneObj, err := loaders.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", sceneName, err)
	}
	return sceneObj, nil
}

// createConfiguredScene creates the requested scene and applies the request's overrides
func (s *Server) createConfiguredScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}

	if req.Samples != nil {
		sceneObj.SetSampleLevel(*req.Samples)
	}
	if req.Jitter != nil {
		sceneObj.SetJitter(*req.Jitter)
	}
	if req.Reflections != nil {
		sceneObj.SetReflections(*req.Reflections)
	}
	if req.MaxDepth != nil {
		sceneObj.SetMaxDepth(*req.MaxDepth)
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
