// Package profiling describes the shape of a raw sample before it is tested.
package profiling

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"gofscan/domain/core"
)

// Summary holds descriptive statistics of a raw sample.
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"` // sample standard deviation
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"` // adjusted Fisher-Pearson, 0 below 3 values
	Kurtosis float64 `json:"kurtosis"` // bias-corrected excess kurtosis, 0 below 4 values
	Outliers int     `json:"outliers"` // outside the 1.5·IQR fences
}

// Summarize computes a Summary of data. A single value has zero spread.
func Summarize(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, core.ErrEmptySample
	}
	s := Summary{N: len(data)}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, wrap(err)
	}
	if len(data) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, wrap(err)
		}
	}
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, wrap(err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, wrap(err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, wrap(err)
	}
	// below 4 values the quartiles collapse onto the median
	s.Q25, s.Q75 = s.Median, s.Median
	if len(data) >= 4 {
		quartiles, err := stats.Quartile(data)
		if err != nil {
			return Summary{}, wrap(err)
		}
		s.Q25, s.Q75 = quartiles.Q1, quartiles.Q3
	}

	if s.StdDev > 0 {
		s.Skewness = skewness(data, s.Mean)
		s.Kurtosis = excessKurtosis(data, s.Mean)
	}
	s.Outliers = countOutliers(data, s.Q25, s.Q75)
	return s, nil
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
}

// skewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean float64) float64 {
	if len(data) < 3 {
		return 0
	}
	n := float64(len(data))
	m2, m3 := 0.0, 0.0
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	g1 := m3 / (m2 * math.Sqrt(m2))
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// excessKurtosis computes the bias-corrected sample excess kurtosis (G2)
func excessKurtosis(data []float64, mean float64) float64 {
	if len(data) < 4 {
		return 0
	}
	n := float64(len(data))
	m2, m4 := 0.0, 0.0
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	g2 := m4/(m2*m2) - 3
	return (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
}

// countOutliers counts values outside the IQR fences
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
