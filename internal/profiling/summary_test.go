package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofscan/domain/core"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{8, 1, 7, 2, 6, 3, 5, 4})
	require.NoError(t, err)

	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 4.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(6), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 8.0, s.Max)
	assert.InDelta(t, 4.5, s.Median, 1e-12)
	assert.InDelta(t, 2.5, s.Q25, 1e-12)
	assert.InDelta(t, 6.5, s.Q75, 1e-12)
	assert.InDelta(t, 0, s.Skewness, 1e-12)
	assert.InDelta(t, -1.2, s.Kurtosis, 1e-9)
	assert.Zero(t, s.Outliers)
}

func TestSummarize_Outlier(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 100})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Outliers)
	assert.Greater(t, s.Skewness, 0.0)
}

func TestSummarize_Small(t *testing.T) {
	s, err := Summarize([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 3.0, s.Q25)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.Skewness)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, core.ErrEmptySample)
}
