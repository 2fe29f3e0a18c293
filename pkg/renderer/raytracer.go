package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
	"github.com/df07/go-distribution-raytracer/pkg/scene"
)

// DefaultSeed seeds the jitter sampler when no seed option is given
const DefaultSeed = 42

// Raytracer traces rays through a read-only scene. A Raytracer owns its
// sampler and must not be shared between goroutines; give each worker its own.
type Raytracer struct {
	scene    *scene.Scene
	camera   *geometry.Camera
	shapes   []geometry.Shape // Shadow casters in scene order
	viewport geometry.Viewport
	sampler  core.Sampler
}

// Option configures a Raytracer
type Option func(*Raytracer)

// WithSeed seeds the raytracer's jitter sampler
func WithSeed(seed int64) Option {
	return func(rt *Raytracer) {
		rt.sampler = core.NewSeededSampler(seed)
	}
}

// WithSampler replaces the raytracer's jitter sampler
func WithSampler(sampler core.Sampler) Option {
	return func(rt *Raytracer) {
		rt.sampler = sampler
	}
}

// NewRaytracer creates a raytracer for a scene rendered at the given viewport.
// The camera and the primitive list are captured from the scene at this point.
func NewRaytracer(s *scene.Scene, viewport geometry.Viewport, opts ...Option) *Raytracer {
	rt := &Raytracer{
		scene:    s,
		camera:   geometry.NewCamera(s.CameraConfig, viewport),
		shapes:   s.Shapes(),
		viewport: viewport,
		sampler:  core.NewSeededSampler(DefaultSeed),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Viewport returns the viewport the raytracer renders for
func (rt *Raytracer) Viewport() geometry.Viewport {
	return rt.viewport
}

// EyeRay builds the primary ray through a possibly fractional logical pixel coordinate
func (rt *Raytracer) EyeRay(i, j float64) core.Ray {
	return rt.camera.EyeRay(i, j)
}

// TraceRay returns the color seen along a ray. Depth counts the reflection
// bounces taken so far; primary rays start at 0.
func (rt *Raytracer) TraceRay(ray core.Ray, depth int) core.Color {
	hit, isHit := rt.hitWorld(ray)
	if !isHit {
		return rt.scene.Background
	}

	surface := rt.surface(hit)
	local := rt.shade(ray, hit, surface)

	if !rt.scene.Config.Reflections || depth >= rt.scene.Config.MaxDepth {
		return local
	}

	reflectDir := ray.Direction.Reflect(hit.Normal).Normalize()
	reflectRay := core.NewRay(hit.Point.Add(reflectDir.Multiply(SelfIntersectionEpsilon)), reflectDir)
	reflected := rt.TraceRay(reflectRay, depth+1)

	return local.Add(reflected.Scale(surface.KSpecular))
}

// hitWorld finds the nearest intersection in front of the ray origin.
// Spheres are tested before discs; on equal distance the earlier primitive wins.
func (rt *Raytracer) hitWorld(ray core.Ray) (geometry.Hit, bool) {
	closest := geometry.Hit{T: math.Inf(1)}
	hitAnything := false

	for i := range rt.scene.Spheres {
		if t, ok := rt.scene.Spheres[i].Hit(ray); ok && t > 0 && t < closest.T {
			closest = geometry.Hit{Kind: geometry.ShapeSphere, Index: i, T: t}
			hitAnything = true
		}
	}
	for i := range rt.scene.Discs {
		if t, ok := rt.scene.Discs[i].Hit(ray); ok && t > 0 && t < closest.T {
			closest = geometry.Hit{Kind: geometry.ShapeDisc, Index: i, T: t}
			hitAnything = true
		}
	}

	if !hitAnything {
		return geometry.Hit{}, false
	}

	closest.Point = ray.At(closest.T)
	switch closest.Kind {
	case geometry.ShapeSphere:
		closest.Normal = rt.scene.Spheres[closest.Index].NormalAt(closest.Point)
	case geometry.ShapeDisc:
		closest.Normal = rt.scene.Discs[closest.Index].NormalAt(closest.Point)
	}
	return closest, true
}

// Inspect casts the eye ray through the center of logical pixel (x, y) and
// returns the nearest hit along it
func (rt *Raytracer) Inspect(x, y int) (core.Ray, geometry.Hit, bool) {
	ray := rt.EyeRay(float64(x)+0.5, float64(y)+0.5)
	hit, ok := rt.hitWorld(ray)
	return ray, hit, ok
}

// occluded reports whether the ray hits any primitive in front of its origin
func (rt *Raytracer) occluded(ray core.Ray) bool {
	for _, shape := range rt.shapes {
		if t, ok := shape.Hit(ray); ok && t > 0 {
			return true
		}
	}
	return false
}

// surface returns the material of the primitive a hit refers to
func (rt *Raytracer) surface(hit geometry.Hit) material.Phong {
	if hit.Kind == geometry.ShapeDisc {
		return rt.scene.Discs[hit.Index].Surface()
	}
	return rt.scene.Spheres[hit.Index].Surface()
}

// samplesPerAxis returns the configured sample level, never less than one
func (rt *Raytracer) samplesPerAxis() int {
	return max(rt.scene.Config.Samples, 1)
}

// RenderPixel averages the colors of a fresh sample distribution over logical pixel (x, y)
func (rt *Raytracer) RenderPixel(x, y int) PixelStats {
	var stats PixelStats
	samples := core.NewDistribution(rt.samplesPerAxis(), rt.scene.Config.Jitter, rt.sampler)
	for _, s := range samples {
		ray := rt.EyeRay(float64(x)+s.S, float64(y)+s.T)
		stats.AddSample(rt.TraceRay(ray, 0))
	}
	return stats
}

// RenderRow renders every logical pixel of row y
func (rt *Raytracer) RenderRow(y int) []PixelStats {
	row := make([]PixelStats, rt.viewport.ScreenWidth)
	for x := range row {
		row[x] = rt.RenderPixel(x, y)
	}
	return row
}

// RenderPass renders the whole frame single-threaded and returns the physical-size image
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := NewImage(rt.viewport)
	stats := NewRenderStats(rt.samplesPerAxis())

	for y := 0; y < rt.viewport.ScreenHeight; y++ {
		row := rt.RenderRow(y)
		PaintRow(img, rt.viewport, y, row)
		stats.AddRow(row)
	}

	stats.Finalize()
	return img, stats
}

// ColorToRGBA clamps each channel to [0,1] and scales it to 8 bits by flooring
func ColorToRGBA(c core.Color) color.RGBA {
	return color.RGBA{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	// NaN fails both comparisons and maps to 0
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Floor(255 * v))
}

// NewImage allocates an image at the viewport's physical size
func NewImage(viewport geometry.Viewport) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, viewport.Width, viewport.Height))
}

// PixelRect returns the block of physical pixels covered by logical pixel (x, y)
func PixelRect(viewport geometry.Viewport, x, y int) image.Rectangle {
	x0 := x * viewport.Width / viewport.ScreenWidth
	x1 := (x + 1) * viewport.Width / viewport.ScreenWidth
	y0 := y * viewport.Height / viewport.ScreenHeight
	y1 := (y + 1) * viewport.Height / viewport.ScreenHeight
	return image.Rect(x0, y0, x1, y1)
}

// PaintRow fills the physical blocks of a rendered logical row
func PaintRow(img *image.RGBA, viewport geometry.Viewport, y int, row []PixelStats) {
	for x := range row {
		fill := image.NewUniform(ColorToRGBA(row[x].GetColor()))
		draw.Draw(img, PixelRect(viewport, x, y), fill, image.Point{}, draw.Src)
	}
}
