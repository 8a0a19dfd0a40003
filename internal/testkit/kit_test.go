package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"gofscan/domain/core"
)

func TestStream_Deterministic(t *testing.T) {
	a := Uniforms(Stream("edf", 7), 5)
	b := Uniforms(Stream("edf", 7), 5)
	c := Uniforms(Stream("scan", 7), 5)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.IsNonDecreasing(t, a)
}

func TestClustered(t *testing.T) {
	u := Clustered(Stream("cluster", 1), 200, 0.5, 0.1, 1)
	require.Len(t, u, 200)
	assert.GreaterOrEqual(t, u[0], 0.45)
	assert.LessOrEqual(t, u[len(u)-1], 0.55)
}

func TestDraw(t *testing.T) {
	x := Draw(Stream("normal", 3), 1000, distuv.Normal{Mu: 10, Sigma: 1})
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	assert.InDelta(t, 10, mean, 0.2)
}

func TestScanMonteCarlo(t *testing.T) {
	ctx := context.Background()

	// n == m: P[range <= d] = n·d^(n-1) - (n-1)·d^n
	est, err := ScanMonteCarlo(ctx, 3, 0.25, 3, 20000, 11, 4)
	require.NoError(t, err)
	assert.Equal(t, 20000, est.Trials)
	assert.InDelta(t, 0.15625, est.Probability, 6*est.StdErr)

	again, err := ScanMonteCarlo(ctx, 3, 0.25, 3, 20000, 11, 4)
	require.NoError(t, err)
	assert.Equal(t, est, again)

	_, err = ScanMonteCarlo(ctx, 3, 1.5, 3, 10, 1, 1)
	assert.True(t, core.IsInvalidArgument(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ScanMonteCarlo(cancelled, 10, 0.1, 3, 5000, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
