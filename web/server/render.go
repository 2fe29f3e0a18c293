package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/renderer"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// RowUpdate represents a single finished row sent via SSE
type RowUpdate struct {
	Y           int    `json:"y"`         // Logical row
	OffsetY     int    `json:"offsetY"`   // First physical row covered by the image
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this row
	PassNumber  int    `json:"passNumber"`
	RowNumber   int    `json:"rowNumber"` // Rows completed so far (1-based)
	TotalRows   int    `json:"totalRows"`
	TotalPasses int    `json:"totalPasses"`
}

// PassUpdate represents a completed batch of rows sent via SSE
type PassUpdate struct {
	Event            string  `json:"event"`
	PassNumber       int     `json:"passNumber"`
	TotalPasses      int     `json:"totalPasses"`
	ElapsedMs        int64   `json:"elapsedMs"`
	RowsCompleted    int     `json:"rowsCompleted"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	AverageLightness float64 `json:"averageLightness"`
	PrimitiveCount   int     `json:"primitiveCount"`
	ImageData        string  `json:"imageData,omitempty"` // Base64 PNG of the frame, final pass only
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "row", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
	Request   *RenderRequest
}

// handleRender handles progressive rendering with real-time row streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})

	// Start single SSE writer goroutine
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, rowChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{RowUpdates: true})

	s.handleRenderingEvents(ctx, sseEventChan, passChan, rowChan, errChan, pipeline, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE channel until the console channel closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createConfiguredScene(req)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultProgressiveConfig()
	config.RowsPerPass = req.RowsPerPass

	raytracer := renderer.NewProgressiveRaytracer(sceneObj, req.Viewport(), config, logger)
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
		Request:   req,
	}, nil
}

// handleRenderingEvents processes the main rendering event loop. It drains the
// render's channels even after the client disconnects, so the render goroutine
// has stopped logging by the time the console channel is closed.
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	passChan <-chan renderer.PassResult, rowChan <-chan renderer.RowResult, errChan <-chan error,
	pipeline *RenderingPipeline, startTime time.Time) {

	for passChan != nil || rowChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, pipeline, startTime)

		case rowResult, ok := <-rowChan:
			if !ok {
				rowChan = nil
				continue
			}
			s.handleRowUpdate(ctx, sseEventChan, pipeline.Request, rowResult)
		}
	}

	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan SSEEvent, passResult renderer.PassResult, pipeline *RenderingPipeline, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}

	update := PassUpdate{
		Event:            "passComplete",
		PassNumber:       passResult.PassNumber,
		TotalPasses:      pipeline.Raytracer.TotalPasses(),
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		RowsCompleted:    passResult.Stats.RowsCompleted,
		TotalPixels:      passResult.Stats.TotalPixels,
		TotalSamples:     passResult.Stats.TotalSamples,
		AverageSamples:   passResult.Stats.AverageSamples,
		AverageLightness: passResult.Stats.AverageLightness,
		PrimitiveCount:   pipeline.Scene.GetPrimitiveCount(),
	}

	if passResult.IsLast {
		imageData, err := s.imageToBase64PNG(passResult.Image)
		if err != nil {
			log.Printf("Error encoding final image: %v", err)
		} else {
			update.ImageData = imageData
		}
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleRowUpdate processes and sends row update events
func (s *Server) handleRowUpdate(ctx context.Context, sseEventChan chan SSEEvent, req *RenderRequest, rowResult renderer.RowResult) {
	if ctx.Err() != nil {
		return
	}

	rowData, err := s.imageToBase64PNG(rowResult.RowImage)
	if err != nil {
		log.Printf("Error encoding row image %d: %v", rowResult.Y, err)
		return
	}

	update := RowUpdate{
		Y:           rowResult.Y,
		OffsetY:     renderer.PixelRect(req.Viewport(), 0, rowResult.Y).Min.Y,
		ImageData:   rowData,
		PassNumber:  rowResult.PassNumber,
		RowNumber:   rowResult.RowNumber,
		TotalRows:   rowResult.TotalRows,
		TotalPasses: rowResult.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling row update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "row", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
