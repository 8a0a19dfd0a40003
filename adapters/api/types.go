package api

import (
	"gofscan/domain/gof"
	"gofscan/internal/profiling"
)

// EDFRequest asks for the EDF statistics of a sample. Reference names the
// hypothesized distribution ("normal:0,1"); Fit, when "normal" or
// "exponential", estimates it from the sample instead.
type EDFRequest struct {
	Sample    []float64 `json:"sample"`
	Reference string    `json:"reference,omitempty"`
	Fit       string    `json:"fit,omitempty"`
}

type EDFResponse struct {
	N          int                `json:"n"`
	Reference  string             `json:"reference"`
	Statistics map[string]float64 `json:"statistics"`
	Summary    profiling.Summary  `json:"summary"`
}

type Chi2EqualRequest struct {
	Sample      []float64 `json:"sample"`
	Reference   string    `json:"reference,omitempty"`
	MinExpected float64   `json:"min_expected,omitempty"`
}

// Chi2DiscreteRequest tests integer counts against "poisson:λ" or
// "binomial:n,p". Min and Max are widened to cover the data.
type Chi2DiscreteRequest struct {
	Data         []int   `json:"data"`
	Distribution string  `json:"distribution"`
	Min          int     `json:"min,omitempty"`
	Max          int     `json:"max,omitempty"`
	MinExpected  float64 `json:"min_expected,omitempty"`
}

type ScanRequest struct {
	Sample    []float64 `json:"sample"`
	Reference string    `json:"reference,omitempty"`
	Window    float64   `json:"window,omitempty"`
}

type ScanResponse struct {
	Scan        gof.ScanResult       `json:"scan"`
	Probability *gof.ScanProbability `json:"probability,omitempty"`
}

type ScanProbabilityRequest struct {
	N int     `json:"n"`
	D float64 `json:"d"`
	M int     `json:"m"`
}

// BatchRequest evaluates several named samples in one call.
type BatchRequest struct {
	Samples   map[string][]float64 `json:"samples"`
	Reference string               `json:"reference,omitempty"`
	Window    float64              `json:"window,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
