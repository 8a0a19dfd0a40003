package scan

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	saddleSlopeStep     = 1e-4
	saddleCurvatureStep = 1e-3
	saddleIterations    = 50
)

// poissonClear returns Naus's closed forms for a Poisson process with mean
// psi per window: the probabilities q2 and q3 that no window inside two or
// three adjacent windows covers k points.
func poissonClear(k int, psi float64) (q2, q3 float64) {
	pois := distuv.Poisson{Lambda: psi}
	pmf := make([]float64, 2*k+1)
	cdf := make([]float64, 2*k+1)
	acc := 0.0
	for i := range pmf {
		pmf[i] = pois.Prob(float64(i))
		acc += pmf[i]
		cdf[i] = acc
	}
	p := func(i int) float64 {
		if i < 0 {
			return 0
		}
		return pmf[i]
	}
	F := func(i int) float64 {
		if i < 0 {
			return 0
		}
		return cdf[i]
	}

	kf := float64(k)
	fk1 := F(k - 1)
	pk := p(k)
	q2 = fk1*fk1 - (kf-1)*pk*p(k-2) - (kf-1-psi)*pk*F(k-3)

	a1 := 2 * pk * fk1 * ((kf-1)*F(k-2) - psi*F(k-3))
	a2 := 0.5 * pk * pk * ((kf-1)*(kf-2)*F(k-3) - 2*(kf-2)*psi*F(k-4) + psi*psi*F(k-5))
	var a3, a4 float64
	for r := 1; r < k; r++ {
		a3 += p(2*k-r) * F(r-1) * F(r-1)
		if r >= 2 {
			a4 += p(2*k-r) * p(r) * (float64(r-1)*F(r-2) - psi*F(r-3))
		}
	}
	q3 = fk1*fk1*fk1 - a1 + a2 + a3 - a4
	return q2, q3
}

// saddleProduct carries the Poisson product Q2·(Q3/Q2)^(1/d-2) back to n
// points. With H(λ) = e^λ·Q(λ), the fixed-n probability is n!·[λ^n]H(λ);
// the coefficient is read off at the saddle point λ·H'/H = n, with the count
// at the mean given by a binomial of matching variance. ok is false when the
// Poisson terms lose their precision.
func saddleProduct(n int, d float64, m int) (float64, bool) {
	N := float64(n)
	failed := false
	f := func(t float64) float64 {
		lambda := math.Exp(t)
		q2, q3 := poissonClear(m, lambda*d)
		if !(q2 > 0) || !(q3 > 0) {
			failed = true
			return 0
		}
		return lambda + math.Log(q2) + (1/d-2)*(math.Log(q3)-math.Log(q2))
	}
	curvature := func(t float64) float64 {
		h := saddleCurvatureStep
		return (f(t+h) - 2*f(t) + f(t-h)) / (h * h)
	}

	t := math.Log(N)
	for range saddleIterations {
		h := saddleSlopeStep
		slope := (f(t+h) - f(t-h)) / (2 * h)
		b := curvature(t)
		if failed || !(b > 0) {
			return 0, false
		}
		step := (slope - N) / b
		t -= step
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		if math.Abs(step) < 1e-10 {
			break
		}
	}

	b := curvature(t)
	lnH := f(t)
	if failed || !(b > 0) {
		return 0, false
	}
	lambda := math.Exp(t)

	var lnAtMean float64
	if p := 1 - b/N; p > 1e-6 {
		lnAtMean = distuv.Binomial{N: N / p, P: p}.LogProb(N)
	} else {
		lnAtMean = -0.5 * math.Log(2*math.Pi*b)
	}
	lnPois := distuv.Poisson{Lambda: lambda}.LogProb(N)
	temp := lnH - lambda + lnAtMean - lnPois
	if math.IsNaN(temp) {
		return 0, false
	}
	return complementExp(temp), true
}
