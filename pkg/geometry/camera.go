package geometry

import (
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
)

// DefaultVFov is the field of view, in degrees, of a freshly created scene
const DefaultVFov = 90.0

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Eye    core.Vec3 // Camera position
	LookAt core.Vec3 // Point the view direction passes through
	Up     core.Vec3 // Up direction
	VFov   float64   // Field of view in degrees
}

// Viewport separates the logical render resolution from the physical output size.
// Only the physical aspect ratio affects ray directions.
type Viewport struct {
	ScreenWidth  int // Logical pixels across
	ScreenHeight int // Logical pixels down
	Width        int // Physical output width
	Height       int // Physical output height
}

// NewViewport creates a viewport whose logical and physical sizes match
func NewViewport(width, height int) Viewport {
	return Viewport{ScreenWidth: width, ScreenHeight: height, Width: width, Height: height}
}

// Camera generates eye rays from an orthonormal viewing basis
type Camera struct {
	eye      core.Vec3
	u, v, w  core.Vec3 // w points from the look-at point back toward the eye
	distance float64   // Distance to the image plane for the field of view
	viewport Viewport
	aspect   float64 // Physical height / width
}

// NewCamera creates a camera from configuration. An up vector parallel to
// the view direction produces a degenerate basis and is the caller's concern.
func NewCamera(config CameraConfig, viewport Viewport) *Camera {
	w := config.Eye.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := u.Cross(w).Normalize()

	fov := config.VFov * math.Pi / 180.0

	return &Camera{
		eye:      config.Eye,
		u:        u,
		v:        v,
		w:        w,
		distance: 1.0 / math.Tan(fov/2),
		viewport: viewport,
		aspect:   float64(viewport.Height) / float64(viewport.Width),
	}
}

// EyeRay generates a normalized ray through logical pixel (i, j).
// Coordinates are fractional so callers can place sub-pixel samples.
func (c *Camera) EyeRay(i, j float64) core.Ray {
	us := -1 + 2*i/float64(c.viewport.ScreenWidth)
	vs := (-1 + 2*j/float64(c.viewport.ScreenHeight)) * c.aspect

	direction := c.w.Multiply(-c.distance).
		Add(c.u.Multiply(us)).
		Add(c.v.Multiply(vs)).
		Normalize()

	return core.NewRay(c.eye, direction)
}
