package geometry

import (
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Phong
	Velocity core.Vec3 // Motion over the frame interval; stored for motion blur
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Phong) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit solves |O + tD - C|² = r² and returns the visible root.
// A root of exactly zero is returned as a hit; callers that need a strictly
// positive distance filter it themselves.
func (s Sphere) Hit(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c

	switch {
	case discriminant < 0:
		return 0, false
	case discriminant == 0:
		t := -b / (2 * a)
		if t > 0 {
			return t, true
		}
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b + sqrtD) / (2 * a)
	t2 := (-b - sqrtD) / (2 * a)

	if t1 < 0 && t2 < 0 {
		return 0, false
	}
	// Origin inside the sphere: only the far root is in front
	if t1 < 0 || t2 < 0 {
		return math.Max(t1, t2), true
	}
	return math.Min(t1, t2), true
}

// NormalAt returns the outward normal from the center through point
func (s Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Surface returns the sphere's material
func (s Sphere) Surface() material.Phong {
	return s.Material
}
