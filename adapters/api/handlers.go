package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"gofscan/adapters/distributions"
	"gofscan/domain/core"
	"gofscan/internal/batch"
	"gofscan/internal/errors"
	"gofscan/internal/gofstat"
	"gofscan/internal/profiling"
	"gofscan/internal/scan"
	"gofscan/ports"
)

func (s *Server) handleEDF(w http.ResponseWriter, r *http.Request) {
	var req EDFRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	summary, err := profiling.Summarize(req.Sample)
	if err != nil {
		writeError(w, err)
		return
	}

	dist, name, err := s.resolveReference(req.Reference, req.Fit, req.Sample)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := gofstat.SortedUniforms(req.Sample, dist)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := gofstat.ComputeAll(u)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EDFResponse{
		N:          len(u),
		Reference:  name,
		Statistics: stats.Map(),
		Summary:    summary,
	})
}

func (s *Server) handleChi2Equal(w http.ResponseWriter, r *http.Request) {
	var req Chi2EqualRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	dist, _, err := s.resolveReference(req.Reference, "", req.Sample)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := gofstat.SortedUniforms(req.Sample, dist)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := gofstat.Chi2Equal(u, s.minExpected(req.MinExpected))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChi2Discrete(w http.ResponseWriter, r *http.Request) {
	var req Chi2DiscreteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	dist, err := distributions.ParseDiscrete(req.Distribution)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := gofstat.Chi2Discrete(req.Data, dist, req.Min, req.Max, s.minExpected(req.MinExpected))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	dist, _, err := s.resolveReference(req.Reference, "", req.Sample)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := gofstat.SortedUniforms(req.Sample, dist)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := gofstat.Scan(u, s.window(req.Window))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ScanResponse{Scan: result}
	if result.N >= 2 {
		p, err := scan.Probability(result.N, result.D, result.M)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Probability = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScanProbability(w http.ResponseWriter, r *http.Request) {
	var req ScanProbabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := scan.Probability(req.N, req.D, req.M)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var dist ports.ContinuousDistribution
	if req.Reference != "" {
		d, err := distributions.Parse(req.Reference)
		if err != nil {
			writeError(w, err)
			return
		}
		dist = d
	}
	reader := memoryReader(req.Samples)
	runner, err := batch.NewRunner(reader, batch.Options{
		Reference:  dist,
		ScanWindow: s.window(req.Window),
		Workers:    s.cfg.Batch.Workers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := runner.RunAll(r.Context())
	if err != nil {
		writeError(w, batchError(err, len(req.Samples)))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// batchError tags a failed run. Sample faults keep their own code; a missing
// column is NotFound and anything else from the reader is internal.
func batchError(err error, samples int) error {
	switch {
	case core.IsNotFoundError(err):
		appErr := errors.NotFound("sample column")
		appErr.Cause = err
		return appErr
	case core.IsInvalidArgument(err), core.IsInvalidState(err):
		return errors.Wrapf(err, "batch of %d samples", samples)
	default:
		appErr := errors.InternalError("batch run failed")
		appErr.Cause = err
		return appErr
	}
}

// resolveReference falls back to the configured reference when the request
// names none.
func (s *Server) resolveReference(spec, fit string, sample []float64) (ports.ContinuousDistribution, string, error) {
	if spec == "" {
		spec = s.cfg.Test.Reference
	}
	return distributions.Resolve(spec, fit, sample)
}

func (s *Server) minExpected(v float64) float64 {
	if v > 0 {
		return v
	}
	return s.cfg.Test.MinExpected
}

func (s *Server) window(v float64) float64 {
	if v != 0 {
		return v
	}
	return s.cfg.Test.ScanWindow
}

// memoryReader serves request-supplied samples through ports.SampleReader.
type memoryReader map[string][]float64

func (m memoryReader) Columns(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m memoryReader) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	values, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrColumnNotFound, name)
	}
	return values, nil
}
