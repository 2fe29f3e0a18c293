package scene

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// NewDefaultScene creates three spheres resting on a disc floor, lit by two point lights
func NewDefaultScene() *Scene {
	s := NewScene()

	s.SetCamera(
		core.NewVec3(0, 1, 4),  // eye
		core.NewVec3(0, 0, -1), // look at
		core.NewVec3(0, 1, 0),  // up
	)
	s.SetFov(60)
	s.SetBackground(core.NewColor(0.1, 0.15, 0.3))
	s.SetAmbientLight(core.NewColor(0.3, 0.3, 0.3))

	s.AddPointLight(core.NewColor(0.8, 0.8, 0.8), core.NewVec3(5, 8, 5))
	s.AddPointLight(core.NewColor(0.3, 0.3, 0.4), core.NewVec3(-6, 4, 2))

	red := material.NewPhong(core.NewColor(0.9, 0.2, 0.2), 0.3, 0.4, 20)
	green := material.NewPhong(core.NewColor(0.2, 0.8, 0.3), 0.3, 0.2, 5)
	blue := material.NewPhong(core.NewColor(0.2, 0.3, 0.9), 0.3, 0.8, 100)
	floor := material.NewPhong(core.NewColor(0.8, 0.8, 0.7), 0.4, 0, 1)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1), 1, red))
	s.AddSphere(geometry.NewSphere(core.NewVec3(-2.2, -0.4, -1.5), 0.6, green))
	s.AddSphere(geometry.NewSphere(core.NewVec3(2.2, -0.3, -0.8), 0.7, blue))

	s.AddDisc(geometry.NewDisc(core.NewVec3(0, -1, -1), core.NewVec3(0, 1, 0), 6, floor))

	return s
}

// NewSingleSphereScene creates one red sphere straight ahead of a camera at the origin,
// lit from above by a white point light
func NewSingleSphereScene() *Scene {
	s := NewScene()

	s.SetCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, -1),
		core.NewVec3(0, 1, 0),
	)
	s.SetFov(90)
	s.SetBackground(core.Black)
	s.SetAmbientLight(core.NewColor(0.1, 0.1, 0.1))
	s.AddPointLight(core.White, core.NewVec3(0, 10, 0))

	red := material.NewPhong(core.NewColor(1, 0, 0), 0.1, 0, 1)
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, red))

	return s
}
