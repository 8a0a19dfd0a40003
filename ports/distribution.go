package ports

// ContinuousDistribution is a reference distribution used to turn raw
// observations into uniforms before EDF statistics are computed.
type ContinuousDistribution interface {
	// CDF returns P[X <= x], in [0,1]
	CDF(x float64) float64
}

// DiscreteDistribution is an integer-valued reference distribution used to
// derive expected category counts for a chi-square test.
type DiscreteDistribution interface {
	// Prob returns P[X = k], in [0,1]
	Prob(k int) float64
	// CDF returns P[X <= k], in [0,1]
	CDF(k int) float64
}
