package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
	"github.com/df07/go-distribution-raytracer/pkg/renderer"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Index        int                    `json:"index"` // Position in the scene's sphere or disc list
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"` // Traced color of the pixel center, unclamped
	Properties   map[string]interface{} `json:"properties"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// extractMaterialInfo extracts the Phong coefficients of a surface
func (s *Server) extractMaterialInfo(mat material.Phong) map[string]interface{} {
	rgba := renderer.ColorToRGBA(mat.Diffuse)
	return map[string]interface{}{
		"diffuse":       colorArray(mat.Diffuse),
		"color":         fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B),
		"kAmbient":      mat.KAmbient,
		"kSpecular":     mat.KSpecular,
		"specularPower": mat.SpecularPower,
		"mirror":        mat.KSpecular > 0,
	}
}

// extractGeometryInfo extracts the geometry of the primitive a hit refers to
func (s *Server) extractGeometryInfo(sceneObj *scene.Scene, hit geometry.Hit) (map[string]interface{}, material.Phong) {
	properties := make(map[string]interface{})

	switch hit.Kind {
	case geometry.ShapeDisc:
		disc := sceneObj.Discs[hit.Index]
		properties["center"] = vecArray(disc.Center)
		properties["normal"] = vecArray(disc.Normal)
		properties["radius"] = disc.Radius
		properties["velocity"] = vecArray(disc.Velocity)
		return properties, disc.Surface()

	default:
		sphere := sceneObj.Spheres[hit.Index]
		properties["center"] = vecArray(sphere.Center)
		properties["radius"] = sphere.Radius
		properties["velocity"] = vecArray(sphere.Velocity)
		return properties, sphere.Surface()
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Pixel coordinates are logical
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.ScreenWidth || pixelY < 0 || pixelY >= inspectReq.ScreenHeight {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(inspectReq.Scene)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	raytracer := renderer.NewRaytracer(sceneObj, inspectReq.Viewport())
	ray, hit, isHit := raytracer.Inspect(pixelX, pixelY)
	color := raytracer.TraceRay(ray, 0)

	if !isHit {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InspectResponse{Hit: false, Color: colorArray(color)})
		return
	}

	geometryProps, surface := s.extractGeometryInfo(sceneObj, hit)

	response := InspectResponse{
		Hit:          true,
		GeometryType: hit.Kind.String(),
		Index:        hit.Index,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		Color:        colorArray(color),
		Properties: map[string]interface{}{
			"material": s.extractMaterialInfo(surface),
			"geometry": geometryProps,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
