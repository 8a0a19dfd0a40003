package scan

import "math"

// scanEpsilon is the relative size below which series terms are dropped.
const scanEpsilon = 1e-7

// logBinomialTerm returns ln b(j; n, p), the binomial coefficient built as a
// running sum of ln((n-i+1)/i) so that large n never overflows. 0 < p < 1.
func logBinomialTerm(n, j int, p float64) float64 {
	s := 0.0
	for i := 1; i <= j; i++ {
		s += math.Log(float64(n-i+1) / float64(i))
	}
	return s + float64(j)*math.Log(p) + float64(n-j)*math.Log1p(-p)
}

// upperTail returns G(m; n, d) = Σ_{j>=m} b(j; n, d), summed outward from the
// heaviest term at or above m-1. The walk stops once a term falls below
// scanEpsilon of the accumulated sum.
func upperTail(n int, d float64, m int) float64 {
	jmoy := int(float64(n+1) * d)
	if jmoy < m-1 {
		jmoy = m - 1
	}
	peak := math.Exp(logBinomialTerm(n, jmoy, d))
	ratio := d / (1 - d)

	sum := 0.0
	term := peak
	for j := jmoy; j < n; j++ {
		term *= float64(n-j) / float64(j+1) * ratio
		sum += term
		if term == 0 || term < scanEpsilon*sum {
			break
		}
	}
	if jmoy >= m {
		term = peak
		sum += peak
		for j := jmoy; j > m; j-- {
			term *= float64(j) / float64(n-j+1) / ratio
			sum += term
		}
	}
	return sum
}

// binomialMixture returns Σ_{j=0}^{hi} b(j; n, p)·f(j) for f bounded by 1.
// The weights are walked outward from the heaviest one at or below hi, and
// each direction stops once a weight falls below scanEpsilon of the weight
// already summed.
func binomialMixture(n int, p float64, hi int, f func(j int) float64) float64 {
	if hi > n {
		hi = n
	}
	if hi < 0 {
		return 0
	}
	switch {
	case p <= 0:
		return f(0)
	case p >= 1:
		if hi == n {
			return f(n)
		}
		return 0
	}

	jmoy := int(float64(n+1) * p)
	if jmoy > hi {
		jmoy = hi
	}
	peak := math.Exp(logBinomialTerm(n, jmoy, p))
	ratio := p / (1 - p)

	weight := peak
	sum := peak * f(jmoy)
	w := peak
	for j := jmoy; j < hi; j++ {
		w *= float64(n-j) / float64(j+1) * ratio
		weight += w
		sum += w * f(j+1)
		if w == 0 || w < scanEpsilon*weight {
			break
		}
	}
	w = peak
	for j := jmoy; j > 0; j-- {
		w *= float64(j) / float64(n-j+1) / ratio
		weight += w
		sum += w * f(j-1)
		if w == 0 || w < scanEpsilon*weight {
			break
		}
	}
	return sum
}

// logFactorials returns ln(i!) for i = 0..k.
func logFactorials(k int) []float64 {
	out := make([]float64, k+1)
	for i := 2; i <= k; i++ {
		out[i] = out[i-1] + math.Log(float64(i))
	}
	return out
}
