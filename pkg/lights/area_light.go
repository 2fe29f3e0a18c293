package lights

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
)

// LightType distinguishes finite-extent lights from point lights
type LightType string

const (
	LightTypeArea  LightType = "area"
	LightTypePoint LightType = "point"
)

// AreaLight is a flat parallelogram light spanning Center ± U ± V.
// A point light is the degenerate case U = V = 0.
type AreaLight struct {
	Color  core.Color
	Center core.Vec3
	U      core.Vec3 // Half-extent along the first axis
	V      core.Vec3 // Half-extent along the second axis
}

// NewAreaLight creates a new area light
func NewAreaLight(color core.Color, center, u, v core.Vec3) AreaLight {
	return AreaLight{
		Color:  color,
		Center: center,
		U:      u,
		V:      v,
	}
}

// NewPointLight creates a light with no extent
func NewPointLight(color core.Color, position core.Vec3) AreaLight {
	return AreaLight{
		Color:  color,
		Center: position,
	}
}

// Type reports whether the light has any extent
func (l AreaLight) Type() LightType {
	if l.U == (core.Vec3{}) && l.V == (core.Vec3{}) {
		return LightTypePoint
	}
	return LightTypeArea
}

// SamplePosition maps a sample in [0,1)² onto the light:
// Center + (2s-1)U + (2t-1)V
func (l AreaLight) SamplePosition(sample core.Sample) core.Vec3 {
	return l.Center.
		Add(l.U.Multiply(2*sample.S - 1)).
		Add(l.V.Multiply(2*sample.T - 1))
}
