package gofstat

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"gofscan/domain/core"
)

// Partition is a set of outcome categories with their expected counts and,
// after Regroup, the category each index is redirected to.
//
// Expected aliases the slice handed to the constructor: Regroup rewrites it in
// place. Callers that need the original counts must copy them first.
type Partition struct {
	Expected   []float64
	Relocation []int

	// Min and Max bound the surviving categories.
	Min, Max int

	// original range, used to redirect observed counts
	lo, hi int

	categories int
	regrouped  bool
}

// NewPartition builds a partition over every index of expected.
func NewPartition(expected []float64) (*Partition, error) {
	return NewPartitionRange(expected, 0, len(expected)-1)
}

// NewPartitionRange builds a partition restricted to categories smin..smax.
// Indices outside the range keep their values and are never read.
func NewPartitionRange(expected []float64, smin, smax int) (*Partition, error) {
	if len(expected) == 0 {
		return nil, core.NewArgumentError("expected counts", "are empty")
	}
	if smin < 0 || smax >= len(expected) || smin > smax {
		return nil, core.NewArgumentErrorf("category range [%d,%d] outside [0,%d]", smin, smax, len(expected)-1)
	}
	loc := make([]int, len(expected))
	for i := range loc {
		loc[i] = i
	}
	return &Partition{
		Expected:   expected,
		Relocation: loc,
		Min:        smin,
		Max:        smax,
		lo:         smin,
		hi:         smax,
		categories: smax - smin + 1,
	}, nil
}

// Regroup merges under-populated categories until each surviving category
// expects at least minExp observations.
//
// The sweep runs left to right and only ever absorbs the immediate right
// neighbour; the group's mass lands on its rightmost index. If the final
// category is still short, it is folded backward into the preceding survivor.
// Total expected mass is preserved. Fewer than two survivors is an
// invalid-state error, since a chi-square test needs one degree of freedom.
func (p *Partition) Regroup(minExp float64) error {
	if p.regrouped {
		return fmt.Errorf("%w: partition already regrouped", core.ErrInvalidState)
	}
	if math.IsNaN(minExp) || minExp < 0 {
		return core.NewArgumentErrorf("minimum expected count %v", minExp)
	}
	p.regrouped = true

	exp, loc := p.Expected, p.Relocation
	cats := 0
	start := p.Min
	for s := p.Min; s <= p.Max; s++ {
		start = s
		if exp[s] < minExp {
			sum := exp[s]
			for sum < minExp && s < p.Max {
				exp[s] = 0
				s++
				sum += exp[s]
			}
			exp[s] = sum
		}
		for j := start; j <= s; j++ {
			loc[j] = s
		}
		cats++
	}
	p.Min = loc[p.Min]

	// the last group came up short: fold it into the survivor just before it
	if exp[p.Max] < minExp && start > p.Min {
		prev := start - 1
		exp[prev] += exp[p.Max]
		exp[p.Max] = 0
		for j := start; j <= p.Max; j++ {
			loc[j] = prev
		}
		cats--
		p.Max = prev
	}

	p.categories = cats
	if cats < 2 {
		return core.ErrTooFewCategory
	}
	return nil
}

// Categories returns the number of surviving categories.
func (p *Partition) Categories() int {
	return p.categories
}

// Survives reports whether category i is kept as its own bin.
func (p *Partition) Survives(i int) bool {
	return i >= p.Min && i <= p.Max && p.Relocation[i] == i
}

// TotalMass sums the expected counts over the partition range.
func (p *Partition) TotalMass() float64 {
	return floats.Sum(p.Expected[p.lo : p.hi+1])
}

// Aggregate redirects raw observed counts (indexed like Expected) onto the
// surviving categories.
func (p *Partition) Aggregate(observed []int) ([]int, error) {
	if len(observed) != len(p.Expected) {
		return nil, fmt.Errorf("%w: %d observed counts for %d categories", core.ErrLengthMismatch, len(observed), len(p.Expected))
	}
	agg := make([]int, len(observed))
	for i, c := range observed {
		if i < p.lo || i > p.hi {
			if c != 0 {
				return nil, fmt.Errorf("%w: %d observations in category %d outside [%d,%d]", core.ErrImpossibleCount, c, i, p.lo, p.hi)
			}
			continue
		}
		agg[p.Relocation[i]] += c
	}
	return agg, nil
}

// String dumps the surviving categories with their expected counts.
func (p *Partition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "categories=%d range=[%d,%d]\n", p.categories, p.Min, p.Max)
	for i := p.lo; i <= p.hi; i++ {
		if p.Relocation[i] == i {
			fmt.Fprintf(&b, "%6d %14.6f\n", i, p.Expected[i])
		} else {
			fmt.Fprintf(&b, "%6d %14s -> %d\n", i, "", p.Relocation[i])
		}
	}
	return b.String()
}
