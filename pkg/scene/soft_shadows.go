package scene

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// NewSoftShadowScene creates spheres over a large disc lit by a square area light,
// with jittered sampling to show penumbras
func NewSoftShadowScene() *Scene {
	s := NewScene()

	s.SetCamera(
		core.NewVec3(0, 3, 6),
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
	)
	s.SetFov(55)
	s.SetBackground(core.NewColor(0.05, 0.05, 0.08))
	s.SetAmbientLight(core.NewColor(0.2, 0.2, 0.2))

	// A 2x2 light hanging above the scene
	s.AddAreaLight(
		core.NewColor(0.9, 0.9, 0.8),
		core.NewVec3(0, 5, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
	)

	s.SetSampleLevel(4)
	s.SetJitter(true)

	ground := material.NewPhong(core.NewColor(0.9, 0.9, 0.9), 0.3, 0, 1)
	s.AddDisc(geometry.NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 8, ground))

	colors := []core.Color{
		core.NewColor(0.9, 0.3, 0.2),
		core.NewColor(0.9, 0.8, 0.2),
		core.NewColor(0.2, 0.6, 0.9),
	}
	for i, color := range colors {
		x := float64(i-1) * 1.6
		mat := material.NewPhong(color, 0.3, 0.3, 30)
		s.AddSphere(geometry.NewSphere(core.NewVec3(x, 0.6, 0), 0.6, mat))
	}

	// A floating disc casting an elliptical shadow
	panel := material.NewPhong(core.NewColor(0.4, 0.9, 0.5), 0.3, 0.1, 5)
	s.AddDisc(geometry.NewDisc(core.NewVec3(0, 2.2, 1.2), core.NewVec3(0, 1, 0.4), 0.5, panel))

	return s
}
