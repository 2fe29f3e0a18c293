package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// Triple is a JSON [x, y, z] or [r, g, b] array
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// Color converts the triple to a color
func (t Triple) Color() core.Color {
	return core.NewColor(t[0], t[1], t[2])
}

// SceneFile is the on-disk JSON description of a scene.
// Optional settings left out keep the defaults of scene.NewScene.
type SceneFile struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera     *CameraSpec `json:"camera,omitempty"`
	Fov        *float64    `json:"fov,omitempty"` // Degrees
	Background *Triple     `json:"background,omitempty"`
	Ambient    *Triple     `json:"ambient,omitempty"`

	Samples      *int  `json:"samples,omitempty"`
	Jitter       *bool `json:"jitter,omitempty"`
	Reflections  *bool `json:"reflections,omitempty"`
	Blur         *bool `json:"blur,omitempty"`
	DepthOfField *bool `json:"depthOfField,omitempty"`
	MaxDepth     *int  `json:"maxDepth,omitempty"`

	Spheres []SphereSpec `json:"spheres,omitempty"`
	Discs   []DiscSpec   `json:"discs,omitempty"`
	Lights  []LightSpec  `json:"lights,omitempty"`
}

// CameraSpec describes the camera pose
type CameraSpec struct {
	Eye    Triple `json:"eye"`
	LookAt Triple `json:"lookAt"`
	Up     Triple `json:"up"`
}

// MaterialSpec describes a primitive's surface
type MaterialSpec struct {
	Diffuse       Triple  `json:"diffuse"`
	KAmbient      float64 `json:"kAmbient"`
	KSpecular     float64 `json:"kSpecular"`
	SpecularPower float64 `json:"specularPower"`
}

// SphereSpec describes a sphere
type SphereSpec struct {
	MaterialSpec
	Center   Triple  `json:"center"`
	Radius   float64 `json:"radius"`
	Velocity *Triple `json:"velocity,omitempty"`
}

// DiscSpec describes a disc
type DiscSpec struct {
	MaterialSpec
	Center   Triple  `json:"center"`
	Radius   float64 `json:"radius"`
	Normal   Triple  `json:"normal"`
	Velocity *Triple `json:"velocity,omitempty"`
}

// LightSpec describes an area light; leaving out both axes gives a point light
type LightSpec struct {
	Color  Triple  `json:"color"`
	Center Triple  `json:"center"`
	U      *Triple `json:"u,omitempty"`
	V      *Triple `json:"v,omitempty"`
}

func (m MaterialSpec) phong() material.Phong {
	return material.NewPhong(m.Diffuse.Color(), m.KAmbient, m.KSpecular, m.SpecularPower)
}

// ParseScene decodes a JSON scene description and builds the scene it describes
func ParseScene(r io.Reader) (*scene.Scene, error) {
	var file SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return file.Build()
}

// LoadScene loads and parses a JSON scene file
func LoadScene(filename string) (*scene.Scene, error) {
	// Validate file path for security
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	return ParseScene(file)
}

// Build replays the description as scene construction calls
func (f SceneFile) Build() (*scene.Scene, error) {
	s := scene.NewScene()

	if f.Camera != nil {
		s.SetCamera(f.Camera.Eye.Vec3(), f.Camera.LookAt.Vec3(), f.Camera.Up.Vec3())
	}
	if f.Fov != nil {
		if *f.Fov <= 0 || *f.Fov >= 180 {
			return nil, fmt.Errorf("fov must be between 0 and 180 degrees, got %g", *f.Fov)
		}
		s.SetFov(*f.Fov)
	}
	if f.Background != nil {
		s.SetBackground(f.Background.Color())
	}
	if f.Ambient != nil {
		s.SetAmbientLight(f.Ambient.Color())
	}

	if f.Samples != nil {
		if *f.Samples < 1 {
			return nil, fmt.Errorf("samples must be at least 1, got %d", *f.Samples)
		}
		s.SetSampleLevel(*f.Samples)
	}
	if f.Jitter != nil {
		s.SetJitter(*f.Jitter)
	}
	if f.Reflections != nil {
		s.SetReflections(*f.Reflections)
	}
	if f.Blur != nil {
		s.SetBlur(*f.Blur)
	}
	if f.DepthOfField != nil {
		s.SetDepthOfField(*f.DepthOfField)
	}
	if f.MaxDepth != nil {
		if *f.MaxDepth < 0 {
			return nil, fmt.Errorf("maxDepth cannot be negative, got %d", *f.MaxDepth)
		}
		s.SetMaxDepth(*f.MaxDepth)
	}

	for i, spec := range f.Spheres {
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, spec.Radius)
		}
		sphere := geometry.NewSphere(spec.Center.Vec3(), spec.Radius, spec.phong())
		if spec.Velocity != nil {
			sphere.Velocity = spec.Velocity.Vec3()
		}
		s.AddSphere(sphere)
	}

	for i, spec := range f.Discs {
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("disc %d: radius must be positive, got %g", i, spec.Radius)
		}
		if spec.Normal == (Triple{}) {
			return nil, fmt.Errorf("disc %d: normal cannot be zero", i)
		}
		disc := geometry.NewDisc(spec.Center.Vec3(), spec.Normal.Vec3(), spec.Radius, spec.phong())
		if spec.Velocity != nil {
			disc.Velocity = spec.Velocity.Vec3()
		}
		s.AddDisc(disc)
	}

	for _, spec := range f.Lights {
		if spec.U == nil && spec.V == nil {
			s.AddPointLight(spec.Color.Color(), spec.Center.Vec3())
			continue
		}
		var u, v core.Vec3
		if spec.U != nil {
			u = spec.U.Vec3()
		}
		if spec.V != nil {
			v = spec.V.Vec3()
		}
		s.AddAreaLight(spec.Color.Color(), spec.Center.Vec3(), u, v)
	}

	return s, nil
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	// Check for empty filename
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Clean the path to resolve . and .. components
	cleanPath := filepath.ToSlash(filepath.Clean(filename))

	// Only allow files in a scenes/ directory or the temp directory (for tests)
	if !strings.HasPrefix(cleanPath, "scenes/") &&
		!strings.Contains(cleanPath, "/scenes/") &&
		!strings.HasPrefix(cleanPath, filepath.ToSlash(os.TempDir())) {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}

	// Check file extension (only allow .json files)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".json") {
		return fmt.Errorf("invalid file type: only .json files are allowed")
	}

	// Check for extremely long paths that could cause issues
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
