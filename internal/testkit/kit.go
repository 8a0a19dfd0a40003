// Package testkit generates reproducible synthetic samples and simulates
// the scan statistic under uniformity.
package testkit

import (
	"math/rand"
	"sort"
)

// Quantiler is any distribution with an inverse CDF, such as the gonum
// distuv types.
type Quantiler interface {
	Quantile(p float64) float64
}

// Stream creates a deterministic RNG for a named purpose. The same name and
// base seed always yield the same sequence.
func Stream(name string, baseSeed int64) *rand.Rand {
	seed := baseSeed
	if name != "" {
		seed = int64(hashString(name)) + seed
	}
	return rand.New(rand.NewSource(seed))
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}

// Uniforms draws n U(0,1) values and returns them sorted ascending.
func Uniforms(rng *rand.Rand, n int) []float64 {
	u := make([]float64, n)
	for i := range u {
		u[i] = rng.Float64()
	}
	sort.Float64s(u)
	return u
}

// Clustered draws n sorted values in [0,1] where a share of the points falls
// uniformly inside [center-width/2, center+width/2] and the rest anywhere.
func Clustered(rng *rand.Rand, n int, center, width, share float64) []float64 {
	lo := center - width/2
	u := make([]float64, n)
	for i := range u {
		if rng.Float64() < share {
			v := lo + width*rng.Float64()
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			u[i] = v
		} else {
			u[i] = rng.Float64()
		}
	}
	sort.Float64s(u)
	return u
}

// Draw samples n values from dist by inversion, in draw order.
func Draw(rng *rand.Rand, n int, dist Quantiler) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Quantile(rng.Float64())
	}
	return out
}
