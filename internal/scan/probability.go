// Package scan approximates the distribution of the scan statistic: the
// probability that some window of length d in [0,1] holds at least m of n
// independent uniforms.
package scan

import (
	"math"

	"gofscan/domain/core"
	"gofscan/domain/gof"
)

// acceptThreshold bounds the values for which the asymptotic and
// Wallenstein-Neff forms are trusted.
const acceptThreshold = 0.4

// Probability returns P[scan(d) >= m] for n i.i.d. U(0,1) samples.
//
// Trivial regions are answered exactly. Outside them the result comes from
// Glaz's product approximation when the expected window count is small, and
// otherwise from the first of asymptotic, Wallenstein-Neff and Glaz whose
// value lands in its trusted range. Windows longer than one half have no
// approximation and are reported with ScanOutOfDomain.
func Probability(n int, d float64, m int) (gof.ScanProbability, error) {
	if n < 2 {
		return gof.ScanProbability{}, core.NewArgumentErrorf("scan probability needs n >= 2, got %d", n)
	}
	if math.IsNaN(d) || d <= 0 || d >= 1 {
		return gof.ScanProbability{}, core.NewArgumentErrorf("scan window must lie in (0,1), got %g", d)
	}

	exact := func(p float64) (gof.ScanProbability, error) {
		return gof.ScanProbability{Probability: p, Method: gof.ScanMethodBound, Status: gof.ScanOK}, nil
	}

	if m > n {
		return exact(0)
	}
	if m <= 1 {
		return exact(1)
	}
	if m == 2 {
		span := float64(n-1) * d
		if span >= 1 {
			return exact(1)
		}
		return exact(1 - math.Pow(1-span, float64(n)))
	}
	if d >= 0.5 && 2*m <= n+1 {
		return exact(1)
	}
	if d > 0.5 {
		return gof.ScanProbability{Method: gof.ScanMethodNone, Status: gof.ScanOutOfDomain}, nil
	}

	mu := float64(n) * d
	if float64(m) <= mu+d {
		return exact(1)
	}
	if mu <= 10 {
		return approximated(Glaz(n, d, m), gof.ScanMethodGlaz), nil
	}

	if (d >= 0.3 && n >= 50) || (float64(n)*d*d >= 250 && d < 0.3) {
		if p := Asymptotic(n, d, m); p <= acceptThreshold {
			return approximated(p, gof.ScanMethodAsymptotic), nil
		}
	}
	if p := WallensteinNeff(n, d, m); p <= acceptThreshold {
		return approximated(p, gof.ScanMethodWallensteinNeff), nil
	}
	if p := Glaz(n, d, m); p > acceptThreshold && p <= 1 {
		return approximated(p, gof.ScanMethodGlaz), nil
	}
	return approximated(1, gof.ScanMethodConservative), nil
}

func approximated(p float64, method gof.ScanMethod) gof.ScanProbability {
	return gof.ScanProbability{Probability: clamp01(p), Method: method, Status: gof.ScanOK}
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
