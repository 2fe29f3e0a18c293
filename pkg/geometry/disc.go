package geometry

import (
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// ParallelEpsilon is the |D·n| threshold below which a ray is treated as
// parallel to a disc's plane
const ParallelEpsilon = 1e-10

// Disc represents a circular disc in 3D space
type Disc struct {
	Center   core.Vec3      // Center of the disc
	Normal   core.Vec3      // Unit normal of the disc plane
	Radius   float64        // Radius of the disc
	Material material.Phong // Material of the disc
	Velocity core.Vec3      // Motion over the frame interval; stored for motion blur
}

// NewDisc creates a new disc. The normal need not be unit length.
func NewDisc(center, normal core.Vec3, radius float64, mat material.Phong) Disc {
	return Disc{
		Center:   center,
		Normal:   normal.Normalize(),
		Radius:   radius,
		Material: mat,
	}
}

// Hit implements the Shape interface
func (d Disc) Hit(ray core.Ray) (float64, bool) {
	// A degenerate (non-finite) normal yields NaN here and is rejected with the parallel case
	denom := ray.Direction.Dot(d.Normal)
	if !(math.Abs(denom) > ParallelEpsilon) {
		return 0, false
	}

	// Calculate intersection with plane
	t := d.Center.Subtract(ray.Origin).Dot(d.Normal) / denom
	if t <= 0 {
		return 0, false
	}

	// Check if intersection point is within disc radius
	centerToHit := ray.At(t).Subtract(d.Center)
	if centerToHit.LengthSquared() > d.Radius*d.Radius {
		return 0, false
	}

	return t, true
}

// NormalAt returns the disc's stored normal; it does not flip toward the ray
func (d Disc) NormalAt(point core.Vec3) core.Vec3 {
	return d.Normal
}

// Surface returns the disc's material
func (d Disc) Surface() material.Phong {
	return d.Material
}
