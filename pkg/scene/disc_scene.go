package scene

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// NewDiscScene creates a fan of tilted discs in front of a back wall disc,
// lit by a long thin area light
func NewDiscScene() *Scene {
	s := NewScene()

	s.SetCamera(
		core.NewVec3(0, 0, 5),
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
	)
	s.SetFov(70)
	s.SetBackground(core.Black)
	s.SetAmbientLight(core.NewColor(0.15, 0.15, 0.15))

	s.AddAreaLight(
		core.NewColor(0.8, 0.8, 0.8),
		core.NewVec3(0, 4, 3),
		core.NewVec3(3, 0, 0),
		core.NewVec3(0, 0, 0.2),
	)
	s.AddPointLight(core.NewColor(0.2, 0.2, 0.3), core.NewVec3(-4, -2, 4))
	s.SetSampleLevel(3)

	wall := material.NewPhong(core.NewColor(0.7, 0.7, 0.75), 0.5, 0, 1)
	s.AddDisc(geometry.NewDisc(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1), 6, wall))

	normals := []core.Vec3{
		core.NewVec3(-1, 0, 1),
		core.NewVec3(0, 1, 2),
		core.NewVec3(1, 0, 1),
		core.NewVec3(0, -1, 2),
	}
	positions := []core.Vec3{
		core.NewVec3(-2, 0, 0),
		core.NewVec3(0, 1.5, 0),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, -1.5, 0),
	}
	colors := []core.Color{
		core.NewColor(0.9, 0.2, 0.2),
		core.NewColor(0.2, 0.9, 0.2),
		core.NewColor(0.2, 0.2, 0.9),
		core.NewColor(0.9, 0.9, 0.2),
	}
	for i := range normals {
		mat := material.NewPhong(colors[i], 0.3, 0.5, 25)
		s.AddDisc(geometry.NewDisc(positions[i], normals[i], 0.9, mat))
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, 0.5), 0.6,
		material.NewPhong(core.White, 0.3, 0.6, 60)))

	return s
}
