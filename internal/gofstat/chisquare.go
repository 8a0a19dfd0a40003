package gofstat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gofscan/domain/core"
	"gofscan/domain/gof"
	"gofscan/ports"
)

// negligibleMass is the expected count below which a tail category of a
// discrete reference distribution is treated as empty.
const negligibleMass = 1e-16

// maxDiscreteCategories caps the highest category of a discrete test, whether
// it comes from the data or from the support expansion.
const maxDiscreteCategories = 1 << 22

// Chi2 returns X² = Σ (observed[s]-expected[s])²/expected[s] over s in
// smin..smax. Categories with no expected mass are skipped when empty and
// rejected when they hold observations.
func Chi2(expected []float64, observed []int, smin, smax int) (float64, error) {
	if len(expected) != len(observed) {
		return 0, fmt.Errorf("%w: %d expected vs %d observed", core.ErrLengthMismatch, len(expected), len(observed))
	}
	if smin < 0 || smax >= len(expected) || smin > smax {
		return 0, core.NewArgumentErrorf("category range [%d,%d] outside [0,%d]", smin, smax, len(expected)-1)
	}
	khi := 0.0
	for s := smin; s <= smax; s++ {
		if expected[s] <= 0 {
			if observed[s] != 0 {
				return 0, fmt.Errorf("%w: category %d expects %v but holds %d", core.ErrImpossibleCount, s, expected[s], observed[s])
			}
			continue
		}
		diff := float64(observed[s]) - expected[s]
		khi += diff * diff / expected[s]
	}
	return khi, nil
}

// Chi2Partition redirects observed counts through p.Relocation and returns
// X² over the surviving categories.
func Chi2Partition(p *Partition, observed []int) (float64, error) {
	agg, err := p.Aggregate(observed)
	if err != nil {
		return 0, err
	}
	khi := 0.0
	for s := p.Min; s <= p.Max; s++ {
		if p.Relocation[s] != s {
			continue
		}
		e := p.Expected[s]
		if e <= 0 {
			if agg[s] != 0 {
				return 0, fmt.Errorf("%w: category %d expects %v but holds %d", core.ErrImpossibleCount, s, e, agg[s])
			}
			continue
		}
		diff := float64(agg[s]) - e
		khi += diff * diff / e
	}
	return khi, nil
}

// ChiSquareTest computes X² over p with its degrees of freedom and p-value.
func ChiSquareTest(p *Partition, observed []int) (gof.ChiSquareResult, error) {
	khi, err := Chi2Partition(p, observed)
	if err != nil {
		return gof.ChiSquareResult{}, err
	}
	return newChiSquareResult(khi, p.Categories()), nil
}

// Chi2Discrete tests integer observations against a discrete reference
// distribution. The caller's smin/smax are first widened to cover the data and
// every category whose expected count is not negligible; the resulting
// categories are regrouped so each expects at least minExp observations.
func Chi2Discrete(data []int, dist ports.DiscreteDistribution, smin, smax int, minExp float64) (gof.ChiSquareResult, error) {
	n := len(data)
	if n == 0 {
		return gof.ChiSquareResult{}, core.ErrEmptySample
	}
	lowest, highest := data[0], data[0]
	for _, v := range data {
		if v < 0 {
			return gof.ChiSquareResult{}, core.NewArgumentErrorf("negative observation %d", v)
		}
		if v < lowest {
			lowest = v
		}
		if v > highest {
			highest = v
		}
	}
	if smin < 0 {
		smin = 0
	}
	if smin > lowest {
		smin = lowest
	}
	if smax < highest {
		smax = highest
	}
	if smax > maxDiscreteCategories {
		return gof.ChiSquareResult{}, core.NewArgumentErrorf("category %d beyond the limit of %d categories", smax, maxDiscreteCategories)
	}

	nr := float64(n)
	for smin > 0 && dist.Prob(smin-1)*nr > negligibleMass {
		smin--
	}
	for smin < lowest && dist.Prob(smin)*nr <= negligibleMass {
		smin++
	}
	for dist.Prob(smax+1)*nr > negligibleMass {
		smax++
		if smax > maxDiscreteCategories {
			return gof.ChiSquareResult{}, core.NewArgumentError("reference distribution", "has no negligible upper tail")
		}
	}
	if smax <= smin {
		smax = smin + 1
	}

	expected := make([]float64, smax+1)
	for s := smin; s <= smax; s++ {
		expected[s] = dist.Prob(s) * nr
	}
	counts := make([]int, smax+1)
	for _, v := range data {
		counts[v]++
	}

	p, err := NewPartitionRange(expected, smin, smax)
	if err != nil {
		return gof.ChiSquareResult{}, err
	}
	if err := p.Regroup(minExp); err != nil {
		return gof.ChiSquareResult{}, err
	}
	return ChiSquareTest(p, counts)
}

// Chi2EqualCounts returns X² for categories that all expect nbExp
// observations: (1/nbExp)·Σ (count[s]-nbExp)².
func Chi2EqualCounts(nbExp float64, counts []int) float64 {
	khi := 0.0
	for _, c := range counts {
		diff := float64(c) - nbExp
		khi += diff * diff
	}
	return khi / nbExp
}

// Chi2Equal tests uniforms in [0,1] with an equiprobable partition: ⌈1/p⌉
// bins of width p = minExp/n, each expecting minExp observations.
func Chi2Equal(u []float64, minExp float64) (gof.ChiSquareResult, error) {
	n := len(u)
	if n == 0 {
		return gof.ChiSquareResult{}, core.ErrEmptySample
	}
	if !(minExp > 0) {
		return gof.ChiSquareResult{}, core.NewArgumentErrorf("minimum expected count %v", minExp)
	}
	if n <= int(math.Ceil(minExp)) {
		return gof.ChiSquareResult{}, fmt.Errorf("%w: %d points for minimum expected count %v", core.ErrInsufficientData, n, minExp)
	}
	p := minExp / float64(n)
	m := int(math.Ceil(1 / p))

	// one spare bin for values landing exactly on the upper edge
	counts := make([]int, m+1)
	for _, v := range u {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return gof.ChiSquareResult{}, core.NewArgumentErrorf("value %v outside [0,1]", v)
		}
		j := int(math.Floor(v / p))
		if j > m {
			j = m
		}
		counts[j]++
	}
	counts[m-1] += counts[m]

	return newChiSquareResult(Chi2EqualCounts(minExp, counts[:m]), m), nil
}

// ChiSquarePValue returns P[X >= khi] for a chi-square variable with df
// degrees of freedom.
func ChiSquarePValue(khi float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	return distuv.ChiSquared{K: float64(df)}.Survival(khi)
}

func newChiSquareResult(khi float64, categories int) gof.ChiSquareResult {
	return gof.ChiSquareResult{
		Statistic:        khi,
		Categories:       categories,
		DegreesOfFreedom: categories - 1,
		PValue:           ChiSquarePValue(khi, categories-1),
	}
}
