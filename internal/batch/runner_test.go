package batch

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gofscan/domain/core"
	"gofscan/domain/gof"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	cols, _ := args.Get(0).([]string)
	return cols, args.Error(1)
}

func (m *mockReader) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	args := m.Called(ctx, name)
	values, _ := args.Get(0).([]float64)
	return values, args.Error(1)
}

func TestRunner_RunAll(t *testing.T) {
	reader := new(mockReader)
	reader.On("Columns", mock.Anything).Return([]string{"a", "b", "c"}, nil)
	reader.On("ReadColumn", mock.Anything, "a").Return([]float64{0.7, 0.1, 0.4}, nil)
	reader.On("ReadColumn", mock.Anything, "b").Return([]float64{0.5}, nil)
	reader.On("ReadColumn", mock.Anything, "c").Return([]float64{0.2, 1.7}, nil)

	runner, err := NewRunner(reader, Options{ScanWindow: 0.25, Workers: 2})
	require.NoError(t, err)

	report, err := runner.RunAll(context.Background())
	require.NoError(t, err)
	reader.AssertExpectations(t)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Samples, 3)
	rows, cols := report.Matrix.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, gof.NumStatistics, cols)

	a := report.Samples[0]
	assert.Equal(t, core.SampleKey("a"), a.Key)
	assert.Empty(t, a.Err)
	assert.InDelta(t, 0.3, report.Matrix.At(0, int(gof.KSPlus)), 1e-12)
	assert.InDelta(t, 0.3, a.Statistics["ks_plus"], 1e-12)
	assert.Equal(t, 1, a.Scan.M)
	require.NotNil(t, a.Summary)
	assert.InDelta(t, 0.4, a.Summary.Median, 1e-12)
	require.NotNil(t, a.Probability)
	assert.Equal(t, gof.ScanOK, a.Probability.Status)

	b := report.Samples[1]
	assert.Empty(t, b.Err)
	assert.Nil(t, b.Probability, "no scan probability for a single value")
	assert.True(t, math.IsNaN(report.Matrix.At(1, int(gof.AndersonDarling))))

	c := report.Samples[2]
	assert.NotEmpty(t, c.Err, "values above 1 without a reference")
	assert.True(t, math.IsNaN(report.Matrix.At(2, int(gof.KSPlus))))
}

func TestRunner_ReaderFailureAborts(t *testing.T) {
	reader := new(mockReader)
	reader.On("ReadColumn", mock.Anything, "ok").Return([]float64{0.5, 0.6}, nil).Maybe()
	reader.On("ReadColumn", mock.Anything, "broken").Return(nil, errors.New("disk gone"))

	runner, err := NewRunner(reader, Options{ScanWindow: 0.1, Workers: 1})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), []string{"broken", "ok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(nil, Options{ScanWindow: 0.1})
	assert.True(t, core.IsInvalidArgument(err))

	_, err = NewRunner(new(mockReader), Options{ScanWindow: 1.5})
	assert.True(t, core.IsInvalidArgument(err))

	r, err := NewRunner(new(mockReader), Options{ScanWindow: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 1, r.opts.Workers)

	_, err = r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
