package gof

import "fmt"

// ChiSquareResult is the outcome of a chi-square GOF computation over a
// (possibly regrouped) category partition.
type ChiSquareResult struct {
	Statistic        float64 `json:"statistic"`
	Categories       int     `json:"categories"`         // surviving categories
	DegreesOfFreedom int     `json:"degrees_of_freedom"` // categories - 1
	PValue           float64 `json:"p_value"`
}

// ScanResult is an observed scan statistic: the largest number of the n
// sample points covered by a window of length D.
type ScanResult struct {
	N int     `json:"n"`
	D float64 `json:"d"`
	M int     `json:"m"`
}

// ScanMethod names the approximation that produced a ScanProbability.
type ScanMethod string

const (
	ScanMethodBound           ScanMethod = "bound"            // trivial bound or closed form
	ScanMethodGlaz            ScanMethod = "glaz"             // Glaz product approximation
	ScanMethodAsymptotic      ScanMethod = "asymptotic"       // Gaussian tail expansion
	ScanMethodWallensteinNeff ScanMethod = "wallenstein_neff" // binomial tail series
	ScanMethodConservative    ScanMethod = "conservative"     // no candidate was trusted
	ScanMethodNone            ScanMethod = "none"
)

// ScanStatus tells whether a ScanProbability carries a value.
type ScanStatus int

const (
	ScanOK ScanStatus = iota
	// ScanOutOfDomain: d > 1/2 with m above (n+1)/2, where none of the
	// approximations apply.
	ScanOutOfDomain
)

func (s ScanStatus) String() string {
	switch s {
	case ScanOK:
		return "ok"
	case ScanOutOfDomain:
		return "out_of_domain"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON payloads.
func (s ScanStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ScanStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ok":
		*s = ScanOK
	case "out_of_domain":
		*s = ScanOutOfDomain
	default:
		return fmt.Errorf("unknown scan status %q", text)
	}
	return nil
}

// ScanProbability approximates P[scan(d) >= m] for n uniforms.
type ScanProbability struct {
	Probability float64    `json:"probability"`
	Method      ScanMethod `json:"method"`
	Status      ScanStatus `json:"status"`
}

// Value returns the probability, or -1 and false when the parameters fall
// outside the approximation domain.
func (p ScanProbability) Value() (float64, bool) {
	if p.Status != ScanOK {
		return -1, false
	}
	return p.Probability, true
}
