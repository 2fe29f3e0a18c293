package renderer

import (
	"github.com/df07/go-distribution-raytracer/pkg/core"
	"github.com/df07/go-distribution-raytracer/pkg/geometry"
	"github.com/df07/go-distribution-raytracer/pkg/material"
)

// SelfIntersectionEpsilon offsets shadow and reflection ray origins off the surface
const SelfIntersectionEpsilon = 1e-10

// shade computes the local Phong color at a hit: ambient plus, for every light,
// the averaged unshadowed diffuse term and the strongest specular highlight
// seen by any of the light's samples. Specular is not averaged over samples.
func (rt *Raytracer) shade(ray core.Ray, hit geometry.Hit, surface material.Phong) core.Color {
	result := surface.Ambient(rt.scene.Ambient)
	toViewer := ray.Origin.Subtract(hit.Point).Normalize()

	for _, light := range rt.scene.Lights {
		samples := core.NewDistribution(rt.samplesPerAxis(), rt.scene.Config.Jitter, rt.sampler)
		diffuse := core.Black
		specular := core.Black

		for _, s := range samples {
			toLight := light.SamplePosition(s).Subtract(hit.Point).Normalize()
			shadowRay := core.NewRay(hit.Point.Add(toLight.Multiply(SelfIntersectionEpsilon)), toLight)
			if rt.occluded(shadowRay) {
				continue
			}

			diffuse = diffuse.Add(surface.DiffuseTerm(light.Color, hit.Normal, toLight))
			highlight := surface.SpecularTerm(hit.Normal, toLight, toViewer)
			specular = specular.Max(core.NewColor(highlight, highlight, highlight))
		}

		result = result.Add(diffuse.Scale(1.0 / float64(len(samples)))).Add(specular)
	}

	return result
}
