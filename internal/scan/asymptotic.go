package scan

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Asymptotic is the Gaussian-tail form of the Wallenstein-Neff expansion,
// accurate for large n when the result is small:
//
//	θ = √(d/(1-d)),  κ = m/(d√n) - √n,  z = θκ
//	P ≈ 2·Φ̄(z) + (κ/(θ(1-d)) - 1/√(n·d·(1-d)))·φ(z)
func Asymptotic(n int, d float64, m int) float64 {
	nr := float64(n)
	theta := math.Sqrt(d / (1 - d))
	sq := math.Sqrt(nr)
	kappa := float64(m)/(d*sq) - sq
	z := theta * kappa

	tail := distuv.UnitNormal.Survival(z)
	density := distuv.UnitNormal.Prob(z)
	return 2*tail + (kappa/(theta*(1-d))-1/math.Sqrt(nr*d*(1-d)))*density
}
