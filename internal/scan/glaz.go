package scan

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// maxThreeWindowThreshold caps m for the exact three-window term, whose cost
// grows as m² per conditioning count.
const maxThreeWindowThreshold = 64

// Glaz approximates P[scan(d) >= m] with Glaz's product form
//
//	P ≈ 1 - Q2·(Q3/Q2)^(1/d-2)
//
// where Qk is the probability that no window inside k adjacent windows of
// length d covers m points. Two versions of the product are evaluated. The
// first takes Q2 and Q3 exactly for n points by conditioning on the count
// that lands in [0,2d] or [0,3d]. The second takes Naus's Poisson Q2 and Q3
// and carries the product back to n points through a saddle point. Both
// understate the tail, so the larger one is returned.
//
// At d = 1/2 the conditional form is exact.
func Glaz(n int, d float64, m int) float64 {
	if m == 3 {
		return glazThree(n, d)
	}
	p := conditionalProduct(n, d, m)
	if d < 0.5 {
		if s, ok := saddleProduct(n, d, m); ok && s > p {
			p = s
		}
	}
	return p
}

// glazThree uses the saddle point product alone. Known to drift from
// tabulated exact values at m == 3: it runs a few percent low for n close to
// m and slightly high once n·d nears 1.
func glazThree(n int, d float64) float64 {
	if s, ok := saddleProduct(n, d, 3); ok {
		return s
	}
	return ratioProduct(n, d, 3, twoWindowNoCluster(n, d, 3))
}

// conditionalProduct evaluates the product with exact Q2 and Q3. Past
// d = 1/3 the window [0,3d] no longer fits and the single-window Q1 stands in
// for Q3, as it does for thresholds above maxThreeWindowThreshold.
func conditionalProduct(n int, d float64, m int) float64 {
	q2 := twoWindowNoCluster(n, d, m)
	if d > 1.0/3 || m > maxThreeWindowThreshold {
		return ratioProduct(n, d, m, q2)
	}

	lnFact := logFactorials(3 * m)
	q3 := binomialMixture(n, 3*d, 3*m-3, func(j int) float64 {
		return threeWindowClear(j, m, lnFact)
	})
	if q2 <= 0 || q3 <= 0 {
		return 1
	}
	return complementExp(math.Log(q2) + (1/d-2)*(math.Log(q3)-math.Log(q2)))
}

// ratioProduct is the product 1 - Q2·(Q2/Q1)^(1/d-2).
func ratioProduct(n int, d float64, m int, q2 float64) float64 {
	q1 := 1 - upperTail(n, d, m)
	if q1 <= 0 || q2 <= 0 {
		return 1
	}
	return complementExp(math.Log(q2) + (1/d-2)*(math.Log(q2)-math.Log(q1)))
}

// complementExp returns 1 - exp(temp) for a log no-cluster probability,
// clamped where exp would leave the safe range.
func complementExp(temp float64) float64 {
	if temp >= 0 {
		return 0
	}
	if temp < -30 {
		return 1
	}
	return -math.Expm1(temp)
}

// twoWindowNoCluster returns Q2, the probability that no window of length d
// inside [0,2d] covers k of the n points.
func twoWindowNoCluster(n int, d float64, k int) float64 {
	return binomialMixture(n, 2*d, 2*k-2, func(j int) float64 {
		return twoWindowClear(j, k)
	})
}

// twoWindowClear is the two-window probability given j uniforms on [0,2]:
//
//	1 - (2k-j-1)·b(k; j, 1/2) - 2·G(k; j, 1/2)   for k <= j <= 2k-2
//
// 1 below k points and 0 from 2k-1 points on, since one half must then hold k.
func twoWindowClear(j, k int) float64 {
	switch {
	case j < k:
		return 1
	case j >= 2*k-1:
		return 0
	}
	b := distuv.Binomial{N: float64(j), P: 0.5}
	q := 1 - float64(2*k-j-1)*b.Prob(float64(k)) - 2*b.Survival(float64(k-1))
	if q < 0 {
		return 0
	}
	return q
}

var permutations3 = [6]struct {
	idx  [3]int
	sign float64
}{
	{[3]int{0, 1, 2}, 1},
	{[3]int{0, 2, 1}, -1},
	{[3]int{1, 0, 2}, -1},
	{[3]int{1, 2, 0}, 1},
	{[3]int{2, 0, 1}, 1},
	{[3]int{2, 1, 0}, -1},
}

// threeWindowClear is the probability that no window of length 1 inside
// [0,3] covers k of j uniforms. For each split (n1, n2, n3) of the points
// over the unit cells, the no-cluster volume is a 3x3 determinant of
// multinomial terms in the cell-boundary offsets. lnFact must reach 3k.
func threeWindowClear(j, k int, lnFact []float64) float64 {
	if j < k {
		return 1
	}
	if j >= 3*k-2 {
		return 0
	}

	lnNorm := lnFact[j] - float64(j)*math.Log(3)
	total := 0.0
	for n1 := max(0, j-2*(k-1)); n1 <= min(k-1, j); n1++ {
		for n2 := max(0, j-n1-(k-1)); n2 <= min(k-1, j-n1); n2++ {
			x := [3]int{0, n1 - k, n1 + n2 - 2*k}
			y := [3]int{n1, n1 + n2 - k, j - 2*k}
			for _, perm := range permutations3 {
				lnTerm := lnNorm
				for i := range 3 {
					c := y[perm.idx[i]] - x[i]
					if c < 0 {
						lnTerm = math.Inf(-1)
						break
					}
					lnTerm -= lnFact[c]
				}
				if !math.IsInf(lnTerm, -1) {
					total += perm.sign * math.Exp(lnTerm)
				}
			}
		}
	}
	return clamp01(total)
}
