package scene

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/lights"
)

// DefaultMaxDepth is the reflection recursion limit of a fresh configuration
const DefaultMaxDepth = 5

// RenderConfig holds the feature toggles and sampling settings of a scene
type RenderConfig struct {
	Samples      int  // Samples per axis; each pixel and each light uses Samples² samples
	Jitter       bool // Randomize sample positions within their cells
	Reflections  bool // Trace mirror reflections
	Blur         bool // Motion blur toggle; velocities are stored but not rendered
	DepthOfField bool // Depth of field toggle; stored but not rendered
	MaxDepth     int  // Maximum reflection recursion depth
}

// DefaultRenderConfig returns the configuration of a freshly created scene
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Samples:  1,
		MaxDepth: DefaultMaxDepth,
	}
}

// Scene contains all the elements needed for rendering.
// It must not be mutated while a render is reading it.
type Scene struct {
	Spheres      []geometry.Sphere
	Discs        []geometry.Disc
	Lights       []lights.AreaLight
	Ambient      core.Color
	Background   core.Color
	CameraConfig geometry.CameraConfig
	Config       RenderConfig
}

// NewScene creates an empty scene with default camera, colors and configuration
func NewScene() *Scene {
	s := &Scene{Config: DefaultRenderConfig()}
	s.CameraConfig.VFov = geometry.DefaultVFov
	s.Reset()
	return s
}

// Reset clears all primitives and lights and restores the default background,
// ambient light and camera pose. The render configuration and field of view
// are kept.
func (s *Scene) Reset() {
	s.Spheres = make([]geometry.Sphere, 0)
	s.Discs = make([]geometry.Disc, 0)
	s.Lights = make([]lights.AreaLight, 0)
	s.Background = core.Black
	s.Ambient = core.Black
	s.CameraConfig = geometry.CameraConfig{VFov: s.CameraConfig.VFov}
}

// ResetConfig restores the default render configuration
func (s *Scene) ResetConfig() {
	s.Config = DefaultRenderConfig()
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(sphere geometry.Sphere) {
	s.Spheres = append(s.Spheres, sphere)
}

// AddDisc appends a disc to the scene
func (s *Scene) AddDisc(disc geometry.Disc) {
	s.Discs = append(s.Discs, disc)
}

// AddAreaLight appends a parallelogram light spanning center ± u ± v
func (s *Scene) AddAreaLight(color core.Color, center, u, v core.Vec3) {
	s.Lights = append(s.Lights, lights.NewAreaLight(color, center, u, v))
}

// AddPointLight appends a light with no extent
func (s *Scene) AddPointLight(color core.Color, position core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(color, position))
}

// SetAmbientLight sets the global ambient light color
func (s *Scene) SetAmbientLight(color core.Color) {
	s.Ambient = color
}

// SetBackground sets the color returned by rays that hit nothing
func (s *Scene) SetBackground(color core.Color) {
	s.Background = color
}

// SetCamera sets the eye position, the point it looks at, and the up direction
func (s *Scene) SetCamera(eye, lookAt, up core.Vec3) {
	s.CameraConfig.Eye = eye
	s.CameraConfig.LookAt = lookAt
	s.CameraConfig.Up = up
}

// SetFov sets the field of view in degrees
func (s *Scene) SetFov(degrees float64) {
	s.CameraConfig.VFov = degrees
}

// SetSampleLevel sets the number of samples per axis
func (s *Scene) SetSampleLevel(samples int) {
	s.Config.Samples = samples
}

// SetJitter turns randomized sample placement on or off
func (s *Scene) SetJitter(on bool) {
	s.Config.Jitter = on
}

// SetReflections turns mirror reflections on or off
func (s *Scene) SetReflections(on bool) {
	s.Config.Reflections = on
}

// SetBlur turns the motion blur flag on or off
func (s *Scene) SetBlur(on bool) {
	s.Config.Blur = on
}

// SetDepthOfField turns the depth of field flag on or off
func (s *Scene) SetDepthOfField(on bool) {
	s.Config.DepthOfField = on
}

// SetMaxDepth sets the reflection recursion limit
func (s *Scene) SetMaxDepth(depth int) {
	s.Config.MaxDepth = depth
}

// GetPrimitiveCount returns the total number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres) + len(s.Discs)
}

// Shapes returns every primitive in scene order: spheres first, then discs
func (s *Scene) Shapes() []geometry.Shape {
	shapes := make([]geometry.Shape, 0, s.GetPrimitiveCount())
	for _, sphere := range s.Spheres {
		shapes = append(shapes, sphere)
	}
	for _, disc := range s.Discs {
		shapes = append(shapes, disc)
	}
	return shapes
}
