package material

import (
	"math"

	"github.com/df07/go-distribution-raytracer/pkg/core"
)

// Phong describes how a primitive responds to light: a diffuse color plus
// ambient and specular coefficients
type Phong struct {
	Diffuse       core.Color // Diffuse reflectance per channel
	KAmbient      float64    // Ambient coefficient
	KSpecular     float64    // Specular coefficient, also the mirror reflectance
	SpecularPower float64    // Specular exponent
}

// NewPhong creates a new Phong material
func NewPhong(diffuse core.Color, kAmbient, kSpecular, specularPower float64) Phong {
	return Phong{
		Diffuse:       diffuse,
		KAmbient:      kAmbient,
		KSpecular:     kSpecular,
		SpecularPower: specularPower,
	}
}

// Ambient returns k_ambient × ambient ⊙ diffuse
func (p Phong) Ambient(ambient core.Color) core.Color {
	return ambient.Multiply(p.Diffuse).Scale(p.KAmbient)
}

// DiffuseTerm returns diffuse ⊙ light × max(0, n·l)
func (p Phong) DiffuseTerm(light core.Color, normal, toLight core.Vec3) core.Color {
	cosine := math.Max(0, normal.Dot(toLight))
	return p.Diffuse.Multiply(light).Scale(cosine)
}

// SpecularTerm returns k_specular × max(0, r·v)^power, where r is toLight
// mirrored about the normal and v points back along the viewing ray
func (p Phong) SpecularTerm(normal, toLight, toViewer core.Vec3) float64 {
	reflected := normal.Multiply(2 * toLight.Dot(normal)).Subtract(toLight).Normalize()
	return p.KSpecular * math.Pow(math.Max(0, reflected.Dot(toViewer)), p.SpecularPower)
}
