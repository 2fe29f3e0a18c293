package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-distribution-raytracer/pkg/core"
)

func TestDiscHit(t *testing.T) {
	// Create a disc at origin facing up with radius 1
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1.0, testMaterial)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Ray hits center of disc",
			ray:       core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray hits edge of disc",
			ray:       core.NewRay(core.NewVec3(1, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Ray misses disc (outside radius)",
			ray:       core.NewRay(core.NewVec3(1.1, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to disc plane",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel above disc plane",
			ray:       core.NewRay(core.NewVec3(-5, 0.5, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray hits from below",
			ray:       core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name:      "Disc behind ray origin",
			ray:       core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)),
			shouldHit: false,
		},
		{
			name:      "Oblique ray",
			ray:       core.NewRay(core.NewVec3(-1, 2, 0), core.NewVec3(1, -2, 0)),
			shouldHit: true,
			expectedT: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, didHit := disc.Hit(tt.ray)

			if didHit != tt.shouldHit {
				t.Errorf("Expected hit=%v, got hit=%v", tt.shouldHit, didHit)
			}

			if tt.shouldHit && math.Abs(tHit-tt.expectedT) > 1e-6 {
				t.Errorf("Expected t=%v, got t=%v", tt.expectedT, tHit)
			}
		})
	}
}

func TestDiscHit_AlongNormal(t *testing.T) {
	center := core.NewVec3(2, 3, -4)
	normal := core.NewVec3(1, 1, 1)
	disc := NewDisc(center, normal, 0.5, testMaterial)

	distance := 7.0
	origin := center.Add(disc.Normal.Multiply(distance))
	tHit, isHit := disc.Hit(core.NewRay(origin, disc.Normal.Multiply(-1)))

	if !isHit {
		t.Fatal("Expected hit along the normal")
	}
	if math.Abs(tHit-distance) > 1e-9 {
		t.Errorf("Expected t=%f, got t=%f", distance, tHit)
	}
}

func TestNewDisc_NormalizesNormal(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 5), 1, testMaterial)

	if disc.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normalized normal (0,0,1), got %v", disc.Normal)
	}
	if disc.NormalAt(core.NewVec3(0.3, 0.2, 0)) != disc.Normal {
		t.Errorf("Expected NormalAt to return the stored normal")
	}
}

func TestDiscHit_DegenerateNormal(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), 1, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	if _, isHit := disc.Hit(ray); isHit {
		t.Error("Expected no hit for a disc with a zero-length normal")
	}
}
