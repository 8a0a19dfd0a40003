package distributions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofscan/domain/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		x    float64
		want float64
	}{
		{"uniform:0,1", 0.25, 0.25},
		{"uniform: 2 , 4", 3, 0.5},
		{"normal:0,1", 0, 0.5},
		{"Normal:10,2", 10, 0.5},
		{"exponential:2", math.Ln2 / 2, 0.5},
		{"chi2:2", 2 * math.Ln2, 0.5},
		{"weibull:1,1", math.Ln2, 0.5},
		{"lognormal:0,1", 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			dist, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, dist.CDF(tt.x), 1e-12)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, spec := range []string{
		"",
		"cauchy:0,1",
		"normal:0",
		"normal:0,-1",
		"normal:0,abc",
		"uniform:1,1",
		"exponential:0",
		"gamma:1",
	} {
		_, err := Parse(spec)
		require.Error(t, err, spec)
		assert.True(t, core.IsInvalidArgument(err), spec)
	}
}

func TestParseDiscrete(t *testing.T) {
	pois, err := ParseDiscrete("poisson:2")
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-2), pois.Prob(0), 1e-14)
	assert.InDelta(t, 3*math.Exp(-2), pois.CDF(1), 1e-14)

	bin, err := ParseDiscrete("binomial:4,0.5")
	require.NoError(t, err)
	assert.InDelta(t, 6.0/16.0, bin.Prob(2), 1e-14)
	assert.InDelta(t, 11.0/16.0, bin.CDF(2), 1e-14)
	assert.Equal(t, 0.0, bin.Prob(5))

	for _, spec := range []string{"poisson:0", "binomial:2.5,0.5", "binomial:4,1.5", "geometric:0.5"} {
		_, err := ParseDiscrete(spec)
		assert.True(t, core.IsInvalidArgument(err), spec)
	}
}

func TestFitNormal(t *testing.T) {
	n, err := FitNormal([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, n.Mu, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), n.Sigma, 1e-12)

	_, err = FitNormal([]float64{1})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = FitNormal([]float64{2, 2, 2})
	assert.True(t, core.IsInvalidArgument(err))
}

func TestFitExponential(t *testing.T) {
	e, err := FitExponential([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, e.Rate, 1e-12)

	_, err = FitExponential(nil)
	assert.ErrorIs(t, err, core.ErrEmptySample)
}

func TestResolve(t *testing.T) {
	dist, name, err := Resolve("uniform: 0, 1", "", nil)
	require.NoError(t, err)
	assert.Nil(t, dist)
	assert.Equal(t, "uniform:0,1", name)

	dist, name, err = Resolve("exponential:1", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, dist)
	assert.Equal(t, "exponential:1", name)

	dist, name, err = Resolve("ignored", "normal", []float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist.CDF(2), 1e-12)
	assert.Equal(t, "normal:2,1", name)

	_, _, err = Resolve("", "cauchy", []float64{1, 2})
	assert.True(t, core.IsInvalidArgument(err))
}
