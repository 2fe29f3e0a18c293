package scene

import (
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// NewReflectionScene creates a ring of mirrored spheres around a matte center sphere,
// standing on a reflective disc
func NewReflectionScene() *Scene {
	s := NewScene()

	s.SetCamera(
		core.NewVec3(0, 2.5, 7),
		core.NewVec3(0, 0.5, 0),
		core.NewVec3(0, 1, 0),
	)
	s.SetFov(50)
	s.SetBackground(core.NewColor(0.35, 0.5, 0.75))
	s.SetAmbientLight(core.NewColor(0.25, 0.25, 0.25))
	s.AddPointLight(core.NewColor(0.9, 0.9, 0.9), core.NewVec3(3, 8, 6))

	s.SetReflections(true)
	s.SetMaxDepth(DefaultMaxDepth)
	s.SetSampleLevel(2)

	floor := material.NewPhong(core.NewColor(0.3, 0.3, 0.3), 0.4, 0.3, 10)
	s.AddDisc(geometry.NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 10, floor))

	center := material.NewPhong(core.NewColor(0.95, 0.6, 0.1), 0.3, 0.2, 40)
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 1, 0), 1, center))

	count := 6
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		position := core.NewVec3(2.5*math.Cos(angle), 0.5, 2.5*math.Sin(angle))
		tint := core.NewColor(0.5+0.4*math.Cos(angle), 0.5, 0.5+0.4*math.Sin(angle))
		mirror := material.NewPhong(tint, 0.1, 0.8, 200)
		s.AddSphere(geometry.NewSphere(position, 0.5, mirror))
	}

	return s
}
