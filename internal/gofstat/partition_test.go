package gofstat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofscan/domain/core"
)

func TestRegroup_ForwardSweepThenBackwardFold(t *testing.T) {
	expected := []float64{1, 2, 8, 1, 1, 6, 0.5}
	p, err := NewPartition(expected)
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))

	assert.Equal(t, []float64{0, 0, 11, 0, 0, 8.5, 0}, p.Expected)
	assert.Equal(t, []int{2, 2, 2, 5, 5, 5, 5}, p.Relocation)
	assert.Equal(t, 2, p.Min)
	assert.Equal(t, 5, p.Max)
	assert.Equal(t, 2, p.Categories())
	assert.True(t, p.Survives(2))
	assert.False(t, p.Survives(6))

	// the caller's slice is the one rewritten
	assert.Equal(t, 11.0, expected[2])
}

func TestRegroup_NoMergeNeeded(t *testing.T) {
	p, err := NewPartition([]float64{5, 7, 9})
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))

	assert.Equal(t, []int{0, 1, 2}, p.Relocation)
	assert.Equal(t, 3, p.Categories())
}

func TestRegroup_LastCategoryAloneFoldsBack(t *testing.T) {
	p, err := NewPartition([]float64{5, 5, 1})
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))

	assert.Equal(t, []float64{5, 6, 0}, p.Expected)
	assert.Equal(t, []int{0, 1, 1}, p.Relocation)
	assert.Equal(t, 1, p.Max)
	assert.Equal(t, 2, p.Categories())
}

func TestRegroup_SubRange(t *testing.T) {
	expected := []float64{100, 2, 3, 4, 6, 100}
	p, err := NewPartitionRange(expected, 1, 4)
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))

	assert.Equal(t, []float64{100, 0, 5, 0, 10, 100}, p.Expected)
	assert.Equal(t, []int{0, 2, 2, 4, 4, 5}, p.Relocation)
	assert.Equal(t, 2, p.Min)
	assert.Equal(t, 4, p.Max)
}

func TestRegroup_TooFewCategories(t *testing.T) {
	cases := map[string][]float64{
		"single group":              {1, 1, 1},
		"fold leaves one survivor":  {6, 1, 1},
		"total below twice minimum": {4, 4},
	}
	for name, expected := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := NewPartition(expected)
			require.NoError(t, err)
			err = p.Regroup(5)
			assert.ErrorIs(t, err, core.ErrTooFewCategory)
			assert.True(t, core.IsInvalidState(err))
			assert.False(t, core.IsInvalidArgument(err))
		})
	}
}

func TestRegroup_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 500; trial++ {
		n := 2 + rng.Intn(40)
		expected := make([]float64, n)
		for i := range expected {
			expected[i] = rng.Float64() * 8
		}
		p, err := NewPartition(expected)
		require.NoError(t, err)
		before := p.TotalMass()
		minExp := 1 + rng.Float64()*6

		err = p.Regroup(minExp)
		if err != nil {
			require.ErrorIs(t, err, core.ErrTooFewCategory)
			continue
		}

		survivors, mass := 0, 0.0
		for i := range expected {
			if p.Relocation[i] == i {
				survivors++
				mass += expected[i]
				assert.GreaterOrEqual(t, expected[i], minExp, "trial %d: survivor %d below minimum", trial, i)
			} else {
				assert.Zero(t, expected[i], "trial %d: merged category %d keeps mass", trial, i)
				assert.Equal(t, p.Relocation[i], p.Relocation[p.Relocation[i]], "trial %d: relocation of %d is not final", trial, i)
			}
		}
		assert.InDelta(t, before, mass, 1e-9)
		assert.Equal(t, p.Categories(), survivors)
		assert.GreaterOrEqual(t, survivors, 2)
	}
}

func TestRegroup_OnlyOnce(t *testing.T) {
	p, err := NewPartition([]float64{6, 6, 6})
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))
	assert.True(t, core.IsInvalidState(p.Regroup(5)))
}

func TestNewPartitionRange_Invalid(t *testing.T) {
	_, err := NewPartitionRange([]float64{1, 2}, 1, 2)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = NewPartition(nil)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestPartitionString(t *testing.T) {
	p, err := NewPartition([]float64{5, 5, 1})
	require.NoError(t, err)
	require.NoError(t, p.Regroup(5))
	out := p.String()
	assert.Contains(t, out, "categories=2")
	assert.Contains(t, out, "-> 1")
}
