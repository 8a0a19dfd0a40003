package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofscan/domain/core"
	"gofscan/domain/gof"
	"gofscan/internal/batch"
	"gofscan/internal/config"
	apperrors "gofscan/internal/errors"
)

func testServer() *Server {
	return NewServer(&config.Config{
		Test:   config.TestConfig{MinExpected: 5, ScanWindow: 0.25, Reference: "uniform:0,1"},
		Batch:  config.BatchConfig{Workers: 2},
		Server: config.ServerConfig{Port: "0"},
	})
}

func post(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEDF(t *testing.T) {
	rec := post(t, testServer(), "/v1/edf", EDFRequest{Sample: []float64{0.7, 0.1, 0.4}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp EDFResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.N)
	assert.InDelta(t, 0.3, resp.Statistics["ks_plus"], 1e-12)
	assert.InDelta(t, 0.1, resp.Statistics["ks_minus"], 1e-12)
	assert.InDelta(t, 0.4, resp.Statistics["mean"], 1e-12)
	assert.InDelta(t, 0.4, resp.Summary.Median, 1e-12)
}

func TestEDF_ReferenceAndFit(t *testing.T) {
	s := testServer()

	rec := post(t, s, "/v1/edf", EDFRequest{Sample: []float64{-1, 0, 1}, Reference: "normal:0,1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = post(t, s, "/v1/edf", EDFRequest{Sample: []float64{1, 2, 3, 4}, Fit: "normal"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp EDFResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reference, "normal:2.5,")
}

func TestEDF_BadInput(t *testing.T) {
	s := testServer()

	rec := post(t, s, "/v1/edf", EDFRequest{Sample: []float64{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, s, "/v1/edf", EDFRequest{Sample: []float64{0.5}, Reference: "cauchy:0,1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "INVALID_INPUT", e.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/edf", bytes.NewBufferString(`{"sample":[0.1],"extra":1}`))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "INVALID_INPUT", e.Code)
	assert.Contains(t, e.Error, "malformed request body")
}

func TestChi2Equal(t *testing.T) {
	sample := make([]float64, 20)
	for i := range sample {
		sample[i] = (float64(i) + 0.5) / 20
	}
	rec := post(t, testServer(), "/v1/chi2/equal", Chi2EqualRequest{Sample: sample})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result gof.ChiSquareResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 4, result.Categories)
	assert.InDelta(t, 0, result.Statistic, 1e-12)
	assert.InDelta(t, 1, result.PValue, 1e-12)
}

func TestChi2Discrete(t *testing.T) {
	data := []int{0, 0, 1, 1, 1, 2, 2, 3, 0, 1, 2, 1, 0, 1, 4, 1, 2, 0, 1, 1}
	rec := post(t, testServer(), "/v1/chi2/discrete", Chi2DiscreteRequest{Data: data, Distribution: "poisson:1.2", MinExpected: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result gof.ChiSquareResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.GreaterOrEqual(t, result.Categories, 2)
	assert.Equal(t, result.Categories-1, result.DegreesOfFreedom)

	rec = post(t, testServer(), "/v1/chi2/discrete", Chi2DiscreteRequest{Data: data, Distribution: "poisson:1.2", MinExpected: 100})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestScan(t *testing.T) {
	rec := post(t, testServer(), "/v1/scan", ScanRequest{Sample: []float64{0.9, 0.1, 0.2, 0.3}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gof.ScanResult{N: 4, D: 0.25, M: 3}, resp.Scan)
	require.NotNil(t, resp.Probability)
	assert.Greater(t, resp.Probability.Probability, 0.0)
	assert.LessOrEqual(t, resp.Probability.Probability, 1.0)
}

func TestScanProbability(t *testing.T) {
	s := testServer()

	rec := post(t, s, "/v1/scan/probability", ScanProbabilityRequest{N: 20, D: 0.1, M: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"probability":1,"method":"bound","status":"ok"}`, rec.Body.String())

	rec = post(t, s, "/v1/scan/probability", ScanProbabilityRequest{N: 10, D: 0.6, M: 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"out_of_domain"`)

	rec = post(t, s, "/v1/scan/probability", ScanProbabilityRequest{N: 1, D: 0.1, M: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch(t *testing.T) {
	rec := post(t, testServer(), "/v1/batch", BatchRequest{Samples: map[string][]float64{
		"b": {0.5, 0.6},
		"a": {0.7, 0.1, 0.4},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report batch.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Samples, 2)
	assert.Equal(t, "a", string(report.Samples[0].Key))
	assert.InDelta(t, 0.3, report.Samples[0].Statistics["ks_plus"], 1e-12)
}

func TestBatch_BlankSampleKey(t *testing.T) {
	rec := post(t, testServer(), "/v1/batch", BatchRequest{Samples: map[string][]float64{
		" ": {0.5, 0.6},
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "INVALID_INPUT", e.Code)
	assert.Contains(t, e.Error, "batch of 1 samples")
}

func TestBatchError(t *testing.T) {
	missing := fmt.Errorf("reading %q: %w", "x", core.ErrColumnNotFound)
	err := batchError(missing, 3)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	broken := fmt.Errorf("listing samples: %w", io.ErrUnexpectedEOF)
	err = batchError(broken, 3)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	assert.Equal(t, apperrors.CodeInternalError, apperrors.GetCode(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
