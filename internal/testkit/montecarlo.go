package testkit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"gofscan/domain/core"
	"gofscan/internal/gofstat"
)

// Estimate is a Monte Carlo proportion with its standard error.
type Estimate struct {
	Probability float64 `json:"probability"`
	StdErr      float64 `json:"std_err"`
	Trials      int     `json:"trials"`
}

// ScanMonteCarlo estimates P[scan(d) >= m] for n uniforms by simulation.
// Trials are split across workers, each with its own seeded stream, so the
// result depends only on the arguments.
func ScanMonteCarlo(ctx context.Context, n int, d float64, m, trials int, seed int64, workers int) (Estimate, error) {
	if n < 1 || trials < 1 {
		return Estimate{}, core.NewArgumentErrorf("need n >= 1 and trials >= 1, got n=%d trials=%d", n, trials)
	}
	if !(d > 0 && d < 1) {
		return Estimate{}, core.NewArgumentErrorf("window length %v outside (0,1)", d)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > trials {
		workers = trials
	}

	hits := make([]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := trials / workers
		if w < trials%workers {
			share++
		}
		g.Go(func() error {
			rng := Stream(fmt.Sprintf("scan-mc-%d", w), seed)
			for t := 0; t < share; t++ {
				if t%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				s, err := gofstat.ScanStatistic(Uniforms(rng, n), d)
				if err != nil {
					return err
				}
				if s >= m {
					hits[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}

	total := 0
	for _, h := range hits {
		total += h
	}
	p := float64(total) / float64(trials)
	return Estimate{
		Probability: p,
		StdErr:      math.Sqrt(p * (1 - p) / float64(trials)),
		Trials:      trials,
	}, nil
}
