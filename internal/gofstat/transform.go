package gofstat

import (
	"math"
	"sort"

	"gofscan/domain/core"
	"gofscan/ports"
)

// UnifTransform maps raw observations to uniforms through the reference CDF:
// out[i] = dist.CDF(data[i]). Ascending data stays ascending.
func UnifTransform(data []float64, dist ports.ContinuousDistribution) []float64 {
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = dist.CDF(x)
	}
	return out
}

// SortedUniforms prepares raw observations for the EDF and scan statistics:
// a copy of data mapped through dist (left as is when dist is nil) and sorted
// ascending. Values outside [0,1] after the mapping are rejected.
func SortedUniforms(data []float64, dist ports.ContinuousDistribution) ([]float64, error) {
	var u []float64
	if dist != nil {
		u = UnifTransform(data, dist)
	} else {
		u = append([]float64(nil), data...)
	}
	for i, v := range u {
		if !(v >= 0 && v <= 1) {
			return nil, core.NewArgumentErrorf("observation %d maps to %v, outside [0,1]", i, v)
		}
	}
	sort.Float64s(u)
	return u, nil
}

// Diff returns the spacings of the integer order statistics u[n1..n2] inside
// [a,b]: D[n1] = u[n1]-a, D[i+1] = u[i+1]-u[i] for n1 <= i < n2, and
// D[n2+1] = b-u[n2]. The result has length n2+2; entries below n1 are zero.
func Diff(u []int, n1, n2, a, b int) ([]int, error) {
	if err := checkSpacingRange(len(u), n1, n2); err != nil {
		return nil, err
	}
	d := make([]int, n2+2)
	d[n1] = u[n1] - a
	for i := n1; i < n2; i++ {
		d[i+1] = u[i+1] - u[i]
	}
	d[n2+1] = b - u[n2]
	return d, nil
}

// DiffFloat is Diff for real-valued order statistics.
func DiffFloat(u []float64, n1, n2 int, a, b float64) ([]float64, error) {
	if err := checkSpacingRange(len(u), n1, n2); err != nil {
		return nil, err
	}
	d := make([]float64, n2+2)
	d[n1] = u[n1] - a
	for i := n1; i < n2; i++ {
		d[i+1] = u[i+1] - u[i]
	}
	d[n2+1] = b - u[n2]
	return d, nil
}

func checkSpacingRange(size, n1, n2 int) error {
	switch {
	case n1 < 0:
		return core.NewArgumentErrorf("n1 = %d is negative", n1)
	case n2 >= size:
		return core.NewArgumentErrorf("n2 = %d outside sample of size %d", n2, size)
	case n1 >= n2:
		return core.NewArgumentErrorf("n1 = %d must be below n2 = %d", n1, n2)
	}
	return nil
}

// IterateSpacings applies one step of the G transform. s holds the n+1
// spacings of the n uniforms in v. On return s is sorted and replaced by the
// normalized spacings (n+1)·S(0), n·(S(1)-S(0)), ..., 1·(S(n)-S(n-1)), and v
// by their partial sums, which are again ascending uniforms.
func IterateSpacings(v, s []float64) error {
	n := len(v)
	if n == 0 {
		return core.ErrEmptySample
	}
	if len(s) != n+1 {
		return core.NewArgumentErrorf("got %d spacings for %d values, want %d", len(s), n, n+1)
	}
	sort.Float64s(s)
	for k := n; k >= 1; k-- {
		s[k] = float64(n+1-k) * (s[k] - s[k-1])
	}
	s[0] = float64(n+1) * s[0]
	v[0] = s[0]
	for i := 1; i < n; i++ {
		v[i] = v[i-1] + s[i]
	}
	return nil
}

// PowerRatios replaces the ascending uniforms u by the power ratios
// (u[i]/u[i+1])^(i+1), with u[n-1]^n last, then sorts them. Under the null
// hypothesis the result is again a sorted i.i.d. uniform sample.
func PowerRatios(u []float64) error {
	n := len(u)
	if n == 0 {
		return core.ErrEmptySample
	}
	for i := 0; i < n-1; i++ {
		if u[i+1] == 0 {
			u[i] = 1
		} else {
			u[i] = math.Pow(u[i]/u[i+1], float64(i+1))
		}
	}
	u[n-1] = math.Pow(u[n-1], float64(n))
	sort.Float64s(u)
	return nil
}
