// Package batch evaluates many samples of one source concurrently and
// collects their EDF statistics into a single matrix.
package batch

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"gofscan/domain/core"
	"gofscan/domain/gof"
	"gofscan/internal/gofstat"
	"gofscan/internal/profiling"
	"gofscan/internal/scan"
	"gofscan/ports"
)

// Options controls one batch run.
type Options struct {
	// Reference maps raw values to uniforms. Nil means the samples are
	// already uniforms in [0,1].
	Reference  ports.ContinuousDistribution
	ScanWindow float64
	Workers    int
}

// SampleReport is the outcome for one sample. Err is set when the sample
// could not be evaluated; the other batch members are unaffected.
type SampleReport struct {
	Key         core.SampleKey       `json:"key"`
	N           int                  `json:"n"`
	Summary     *profiling.Summary   `json:"summary,omitempty"`
	Statistics  map[string]float64   `json:"statistics,omitempty"`
	Scan        gof.ScanResult       `json:"scan"`
	Probability *gof.ScanProbability `json:"scan_probability,omitempty"`
	Err         string               `json:"error,omitempty"`
}

// Report gathers a whole run. Row i of Matrix holds the statistics of
// Samples[i], indexed by gof.StatID; undefined entries are NaN.
type Report struct {
	RunID    core.RunID     `json:"run_id"`
	Samples  []SampleReport `json:"samples"`
	Matrix   *mat.Dense     `json:"-"`
	Duration time.Duration  `json:"duration"`
}

// Runner evaluates columns of a SampleReader.
type Runner struct {
	reader ports.SampleReader
	opts   Options
}

// NewRunner validates the options and returns a Runner over reader.
func NewRunner(reader ports.SampleReader, opts Options) (*Runner, error) {
	if reader == nil {
		return nil, core.NewArgumentError("reader", "is required")
	}
	if !(opts.ScanWindow > 0 && opts.ScanWindow < 1) {
		return nil, core.NewArgumentErrorf("scan window %v outside (0,1)", opts.ScanWindow)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{reader: reader, opts: opts}, nil
}

// RunAll evaluates every column the reader reports.
func (r *Runner) RunAll(ctx context.Context) (*Report, error) {
	columns, err := r.reader.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return r.Run(ctx, columns)
}

// Run evaluates the named columns with at most Options.Workers in flight.
// Reader failures abort the run; statistical failures are recorded per
// sample.
func (r *Runner) Run(ctx context.Context, columns []string) (*Report, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no samples to evaluate", core.ErrInsufficientData)
	}

	start := time.Now()
	report := &Report{
		RunID:   core.NewRunID(),
		Samples: make([]SampleReport, len(columns)),
		Matrix:  mat.NewDense(len(columns), gof.NumStatistics, nil),
	}
	log.Printf("[Batch] run %s: %d samples, %d workers", report.RunID, len(columns), r.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, column := range columns {
		g.Go(func() error {
			key, err := core.ParseSampleKey(column)
			if err != nil {
				return core.NewArgumentErrorf("sample %d: %v", i, err)
			}
			values, err := r.reader.ReadColumn(gctx, column)
			if err != nil {
				return fmt.Errorf("reading %q: %w", column, err)
			}
			report.Samples[i] = r.evaluate(key, values, report.Matrix.RawRowView(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[Batch] run %s aborted: %v", report.RunID, err)
		return nil, err
	}

	report.Duration = time.Since(start)
	failed := 0
	for _, s := range report.Samples {
		if s.Err != "" {
			failed++
		}
	}
	log.Printf("[Batch] run %s done in %v (%d failed)", report.RunID, report.Duration, failed)
	return report, nil
}

// evaluate fills row with the statistics of one sample.
func (r *Runner) evaluate(key core.SampleKey, values []float64, row []float64) SampleReport {
	out := SampleReport{Key: key, N: len(values)}
	fail := func(err error) SampleReport {
		for j := range row {
			row[j] = math.NaN()
		}
		out.Err = err.Error()
		return out
	}

	summary, err := profiling.Summarize(values)
	if err != nil {
		return fail(err)
	}
	out.Summary = &summary

	u, err := gofstat.SortedUniforms(values, r.opts.Reference)
	if err != nil {
		return fail(err)
	}
	if err := gofstat.ComputeInto(u, row); err != nil {
		return fail(err)
	}
	var stats gof.EDFStatistics
	copy(stats[:], row)
	out.Statistics = stats.Map()

	if out.Scan, err = gofstat.Scan(u, r.opts.ScanWindow); err != nil {
		return fail(err)
	}
	if len(u) >= 2 {
		p, err := scan.Probability(out.Scan.N, out.Scan.D, out.Scan.M)
		if err != nil {
			return fail(err)
		}
		out.Probability = &p
	}
	return out
}
