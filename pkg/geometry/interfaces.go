package geometry

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// Shape interface for primitives that can be hit by rays and shaded
type Shape interface {
	// Hit returns the parametric distance of the visible intersection, if any
	Hit(ray core.Ray) (float64, bool)
	// NormalAt returns the outward unit normal at a point on the surface
	NormalAt(point core.Vec3) core.Vec3
	// Surface returns the primitive's material
	Surface() material.Phong
}

// ShapeKind tags which primitive list a hit refers to
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeDisc
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeDisc:
		return "disc"
	default:
		return "unknown"
	}
}

// Hit records the nearest intersection found in a scene: which primitive
// (kind plus index into the owning list) and the surface data at the hit
type Hit struct {
	Kind   ShapeKind
	Index  int
	T      float64
	Point  core.Vec3
	Normal core.Vec3
}
