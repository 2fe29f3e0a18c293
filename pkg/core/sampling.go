package core

import (
	"math/rand"
)

// Sample is a 2D offset in [0,1)² used to place sub-pixel and area-light samples
type Sample struct {
	S, T float64
}

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own random source
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// NewDistribution generates n×n samples stratified over [0,1)², ordered by
// row i then column j. Without jitter each sample sits at its cell center;
// with jitter each coordinate is offset by an independent draw from sampler,
// keeping the sample inside [i/n,(i+1)/n) × [j/n,(j+1)/n).
// The sampler is only consulted when jitter is set.
func NewDistribution(n int, jitter bool, sampler Sampler) []Sample {
	if n <= 0 {
		return nil
	}

	samples := make([]Sample, 0, n*n)
	size := float64(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if jitter {
				samples = append(samples, Sample{
					S: (float64(i) + sampler.Get1D()) / size,
					T: (float64(j) + sampler.Get1D()) / size,
				})
			} else {
				samples = append(samples, Sample{
					S: (float64(i) + 0.5) / size,
					T: (float64(j) + 0.5) / size,
				})
			}
		}
	}
	return samples
}
