package gofstat

import (
	"gofscan/domain/core"
	"gofscan/domain/gof"
)

// ScanStatistic returns the largest number of observations of the ascending
// sample u covered by a window [y, y+d). Only windows starting at an
// observation are examined, which is enough to reach the maximum.
func ScanStatistic(u []float64, d float64) (int, error) {
	n := len(u)
	if n == 0 {
		return 0, core.ErrEmptySample
	}
	if !(d > 0 && d < 1) {
		return 0, core.NewArgumentErrorf("window length %v outside (0,1)", d)
	}
	m, j := 1, 0
	high := 0.0
	for i := 0; j < n-1 && high < 1.0; i++ {
		high = u[i] + d
		for j < n && u[j] < high {
			j++
		}
		// j is the first observation at or beyond the window's right edge
		if j-i > m {
			m = j - i
		}
	}
	return m, nil
}

// Scan computes the scan statistic of u as a gof.ScanResult.
func Scan(u []float64, d float64) (gof.ScanResult, error) {
	m, err := ScanStatistic(u, d)
	if err != nil {
		return gof.ScanResult{}, err
	}
	return gof.ScanResult{N: len(u), D: d, M: m}, nil
}
