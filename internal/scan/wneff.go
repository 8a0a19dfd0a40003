package scan

import "math"

// WallensteinNeff approximates P[scan(d) >= m] by
//
//	(m/d - n - 1)·b(m; n, d) + 2·Σ_{j>=m} b(j; n, d)
//
// The tail is summed from j = m upward until a term drops below scanEpsilon
// of the running sum.
func WallensteinNeff(n int, d float64, m int) float64 {
	bm := math.Exp(logBinomialTerm(n, m, d))
	ratio := d / (1 - d)

	sum := bm
	term := bm
	for j := m; j < n; j++ {
		term *= float64(n-j) / float64(j+1) * ratio
		sum += term
		if term == 0 || term < scanEpsilon*sum {
			break
		}
	}
	return (float64(m)/d-float64(n)-1)*bm + 2*sum
}
