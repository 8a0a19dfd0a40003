// Package gofstat computes goodness-of-fit statistics from sorted samples:
// EDF statistics (Kolmogorov-Smirnov, Cramér-von Mises, Watson, Anderson-Darling),
// chi-square statistics over regrouped category partitions, and the scan
// statistic. Every function is a pure computation over its arguments; the only
// mutation is the one documented on Partition.Regroup and the in-place transforms.
package gofstat

import (
	"math"

	"gofscan/domain/core"
	"gofscan/domain/gof"
)

// adEpsilon floors u and 1-u before logarithms in the Anderson-Darling sum.
var adEpsilon = (math.Nextafter(1, 2) - 1) / 2

// ComputeAll computes every EDF statistic of the ascending sample u, whose
// values are expected in [0,1], in a single pass.
//
// For n == 1 only KSPlus and Mean are set; the other entries stay undefined.
// Correlation is never set here.
func ComputeAll(u []float64) (gof.EDFStatistics, error) {
	out := gof.NewEDFStatistics()
	if err := computeInto(u, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// ComputeInto is ComputeAll writing into a caller-owned row of length
// gof.NumStatistics, indexed by gof.StatID. Unset entries are NaN.
func ComputeInto(u []float64, dst []float64) error {
	if len(dst) != gof.NumStatistics {
		return core.NewArgumentErrorf("result storage has length %d, want %d", len(dst), gof.NumStatistics)
	}
	for i := range dst {
		dst[i] = math.NaN()
	}
	return computeInto(u, dst)
}

func computeInto(u []float64, dst []float64) error {
	n := len(u)
	if n <= 0 {
		return core.ErrEmptySample
	}
	if n == 1 {
		dst[gof.KSPlus] = 1 - u[0]
		dst[gof.Mean] = u[0]
		return nil
	}

	nr := float64(n)
	unSurN := 1.0 / nr
	var dp, dm, cm, sumZ, a2 float64
	for i, ui := range u {
		fi := float64(i)
		if d1 := ui - fi*unSurN; d1 > dm {
			dm = d1
		}
		if d2 := (fi+1)*unSurN - ui; d2 > dp {
			dp = d2
		}
		w := ui - (fi+0.5)*unSurN
		cm += w * w
		sumZ += ui

		lo, hi := ui, 1-ui
		if lo < adEpsilon {
			lo = adEpsilon
		}
		if hi < adEpsilon {
			hi = adEpsilon
		}
		a2 += (2*fi+1)*math.Log(lo) + (2*nr-1-2*fi)*math.Log(hi)
	}
	cm += 1.0 / (12.0 * nr)
	sumZ = sumZ/nr - 0.5

	dst[gof.KSPlus] = dp
	dst[gof.KSMinus] = dm
	dst[gof.KS] = math.Max(dp, dm)
	dst[gof.CramerVonMises] = cm
	dst[gof.WatsonG] = math.Sqrt(nr) * (dp + sumZ)
	dst[gof.WatsonU] = cm - nr*sumZ*sumZ
	dst[gof.AndersonDarling] = -nr - a2/nr
	dst[gof.Mean] = sumZ + 0.5
	return nil
}

// KolmogorovSmirnov returns D+, D- and D = max(D+, D-) for the ascending
// uniforms u.
func KolmogorovSmirnov(u []float64) (dp, dm, d float64, err error) {
	n := len(u)
	if n == 0 {
		return 0, 0, 0, core.ErrEmptySample
	}
	unSurN := 1.0 / float64(n)
	for i, ui := range u {
		if d1 := ui - float64(i)*unSurN; d1 > dm {
			dm = d1
		}
		if d2 := float64(i+1)*unSurN - ui; d2 > dp {
			dp = d2
		}
	}
	return dp, dm, math.Max(dp, dm), nil
}

// KolmogorovSmirnovJumpOne returns D+ and D- when the reference distribution,
// after transformation to [0,1], has a single jump of size a at the origin:
// every u[i] <= a sits on the atom. u must be ascending.
func KolmogorovSmirnovJumpOne(u []float64, a float64) (dp, dm float64, err error) {
	n := len(u)
	if n == 0 {
		return 0, 0, core.ErrEmptySample
	}
	if a < 0 || a >= 1 {
		return 0, 0, core.NewArgumentError("jump size", "must lie in [0,1)")
	}
	unSurN := 1.0 / float64(n)
	j := 0
	for j < n && u[j] <= a {
		j++
	}
	for i := j - 1; i < n; i++ {
		if i >= 0 {
			if d1 := float64(i+1)*unSurN - u[i]; d1 > dp {
				dp = d1
			}
		}
		if i >= j {
			if d2 := u[i] - float64(i)*unSurN; d2 > dm {
				dm = d2
			}
		}
	}
	return dp, dm, nil
}

// CramerVonMises returns W² for the ascending uniforms u.
func CramerVonMises(u []float64) (float64, error) {
	n := len(u)
	if n == 0 {
		return 0, core.ErrEmptySample
	}
	nr := float64(n)
	sum := 1.0 / (12.0 * nr)
	for i, ui := range u {
		w := ui - (float64(i)+0.5)/nr
		sum += w * w
	}
	return sum, nil
}

// WatsonG returns Watson's G statistic √n·(D+ + mean - 1/2).
func WatsonG(u []float64) (float64, error) {
	dp, _, _, err := KolmogorovSmirnov(u)
	if err != nil {
		return 0, err
	}
	nr := float64(len(u))
	return math.Sqrt(nr) * (dp + sampleMean(u) - 0.5), nil
}

// WatsonU returns Watson's U² = W² - n·(mean - 1/2)².
func WatsonU(u []float64) (float64, error) {
	cm, err := CramerVonMises(u)
	if err != nil {
		return 0, err
	}
	z := sampleMean(u) - 0.5
	return cm - float64(len(u))*z*z, nil
}

// AndersonDarling returns A² for the ascending uniforms u. Values at 0 or 1
// are floored at half the machine epsilon so the result stays finite.
func AndersonDarling(u []float64) (float64, error) {
	n := len(u)
	if n == 0 {
		return 0, core.ErrEmptySample
	}
	nr := float64(n)
	sum := 0.0
	for i, ui := range u {
		lo, hi := math.Max(ui, adEpsilon), math.Max(1-ui, adEpsilon)
		fi := float64(i)
		sum += (2*fi+1)*math.Log(lo) + (2*nr-1-2*fi)*math.Log(hi)
	}
	return -nr - sum/nr, nil
}

func sampleMean(u []float64) float64 {
	sum := 0.0
	for _, v := range u {
		sum += v
	}
	return sum / float64(len(u))
}
