package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gofscan/adapters/api"
	"gofscan/adapters/distributions"
	"gofscan/adapters/excel"
	"gofscan/domain/core"
	"gofscan/domain/gof"
	"gofscan/internal/batch"
	"gofscan/internal/gofstat"
	"gofscan/internal/profiling"
	"gofscan/internal/scan"
	"gofscan/internal/testkit"
)

func newEDFCmd(state *cliState) *cobra.Command {
	var input sampleFlags
	var ref, fit string

	cmd := &cobra.Command{
		Use:   "edf [values...]",
		Short: "Compute the EDF goodness-of-fit statistics of a sample",
		Long: `Compute Kolmogorov-Smirnov, Cramér-von Mises, Watson and Anderson-Darling
statistics after mapping the sample through the reference CDF.

Example: gofscan edf 0.1 0.4 0.7
         gofscan edf -f data.xlsx -c latency --fit normal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := input.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			summary, err := profiling.Summarize(sample)
			if err != nil {
				return err
			}
			dist, name, err := distributions.Resolve(orDefault(ref, state.cfg.Test.Reference), fit, sample)
			if err != nil {
				return err
			}
			u, err := gofstat.SortedUniforms(sample, dist)
			if err != nil {
				return err
			}
			stats, err := gofstat.ComputeAll(u)
			if err != nil {
				return err
			}

			if state.asJSON {
				return state.printJSON(cmd, api.EDFResponse{N: len(u), Reference: name, Statistics: stats.Map(), Summary: summary})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "n = %d, reference %s\n", len(u), name)
			fmt.Fprintf(out, "mean %.6g, sd %.6g, median %.6g, range [%.6g, %.6g], %d outliers\n",
				summary.Mean, summary.StdDev, summary.Median, summary.Min, summary.Max, summary.Outliers)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i := 0; i < gof.NumStatistics; i++ {
				if v, ok := stats.Get(gof.StatID(i)); ok {
					fmt.Fprintf(tw, "%s\t%.6g\n", gof.StatID(i), v)
				}
			}
			return tw.Flush()
		},
	}
	input.register(cmd)
	cmd.Flags().StringVarP(&ref, "reference", "r", "", "Reference distribution, e.g. normal:0,1 (default from GOF_REFERENCE)")
	cmd.Flags().StringVar(&fit, "fit", "", "Estimate the reference from the sample: normal or exponential")
	return cmd
}

func newChi2Cmd(state *cliState) *cobra.Command {
	var input sampleFlags
	var ref, discrete string
	var minExp float64
	var smin, smax int

	cmd := &cobra.Command{
		Use:   "chi2 [values...]",
		Short: "Chi-square goodness-of-fit test",
		Long: `Without --discrete the sample is mapped to uniforms and binned into equiprobable
categories, each expecting --min-expected observations. With --discrete the values
are integer counts tested against a Poisson or binomial reference; sparse categories
are merged until each expects --min-expected observations.

Example: gofscan chi2 --discrete poisson:1.5 0 1 1 2 0 3 1 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if minExp == 0 {
				minExp = state.cfg.Test.MinExpected
			}

			var result gof.ChiSquareResult
			if discrete != "" {
				values, err := input.load(cmd.Context(), args)
				if err != nil {
					return err
				}
				counts, err := toInts(values)
				if err != nil {
					return err
				}
				dist, err := distributions.ParseDiscrete(discrete)
				if err != nil {
					return err
				}
				if result, err = gofstat.Chi2Discrete(counts, dist, smin, smax, minExp); err != nil {
					return err
				}
			} else {
				sample, err := input.load(cmd.Context(), args)
				if err != nil {
					return err
				}
				dist, _, err := distributions.Resolve(orDefault(ref, state.cfg.Test.Reference), "", sample)
				if err != nil {
					return err
				}
				u, err := gofstat.SortedUniforms(sample, dist)
				if err != nil {
					return err
				}
				if result, err = gofstat.Chi2Equal(u, minExp); err != nil {
					return err
				}
			}

			if state.asJSON {
				return state.printJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "X² = %.6g, categories = %d, df = %d, p-value = %.6g\n",
				result.Statistic, result.Categories, result.DegreesOfFreedom, result.PValue)
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().StringVarP(&ref, "reference", "r", "", "Continuous reference distribution (default from GOF_REFERENCE)")
	cmd.Flags().StringVar(&discrete, "discrete", "", "Discrete reference: poisson:λ or binomial:n,p")
	cmd.Flags().Float64Var(&minExp, "min-expected", 0, "Minimum expected count per category (default from GOF_MIN_EXPECTED)")
	cmd.Flags().IntVar(&smin, "min", 0, "Lowest category for --discrete")
	cmd.Flags().IntVar(&smax, "max", 0, "Highest category for --discrete")
	return cmd
}

func newScanCmd(state *cliState) *cobra.Command {
	var input sampleFlags
	var ref string
	var window float64

	cmd := &cobra.Command{
		Use:   "scan [values...]",
		Short: "Scan statistic of a sample and its approximate p-value",
		Long: `Count the largest number of observations covered by a window of length d
in [0,1] and approximate the probability of seeing at least that many under
uniformity.

Example: gofscan scan -d 0.25 0.1 0.2 0.3 0.9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window == 0 {
				window = state.cfg.Test.ScanWindow
			}
			sample, err := input.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			dist, _, err := distributions.Resolve(orDefault(ref, state.cfg.Test.Reference), "", sample)
			if err != nil {
				return err
			}
			u, err := gofstat.SortedUniforms(sample, dist)
			if err != nil {
				return err
			}
			result, err := gofstat.Scan(u, window)
			if err != nil {
				return err
			}

			resp := api.ScanResponse{Scan: result}
			if result.N >= 2 {
				p, err := scan.Probability(result.N, result.D, result.M)
				if err != nil {
					return err
				}
				resp.Probability = &p
			}
			if state.asJSON {
				return state.printJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scan(%g) = %d of n = %d\n", result.D, result.M, result.N)
			if resp.Probability != nil {
				printProbability(cmd, *resp.Probability)
			}
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().StringVarP(&ref, "reference", "r", "", "Reference distribution (default from GOF_REFERENCE)")
	cmd.Flags().Float64VarP(&window, "window", "d", 0, "Window length in (0,1) (default from GOF_SCAN_WINDOW)")
	return cmd
}

func newScanProbCmd(state *cliState) *cobra.Command {
	var n, m, trials int
	var d float64
	var seed int64

	cmd := &cobra.Command{
		Use:   "scanprob",
		Short: "Approximate P[scan(d) >= m] for n uniforms",
		Long: `Approximate the probability that some window of length d holds at least m of
n independent U(0,1) points.

Example: gofscan scanprob -n 10 -d 0.5 -m 6 --simulate 100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := scan.Probability(n, d, m)
			if err != nil {
				return err
			}
			if trials == 0 {
				if state.asJSON {
					return state.printJSON(cmd, p)
				}
				printProbability(cmd, p)
				return nil
			}

			est, err := testkit.ScanMonteCarlo(cmd.Context(), n, d, m, trials, seed, state.cfg.Batch.Workers)
			if err != nil {
				return err
			}
			if state.asJSON {
				return state.printJSON(cmd, struct {
					Approximation gof.ScanProbability `json:"approximation"`
					Simulation    testkit.Estimate    `json:"simulation"`
				}{p, est})
			}
			printProbability(cmd, p)
			fmt.Fprintf(cmd.OutOrStdout(), "simulated ≈ %.6g ± %.2g over %d trials\n", est.Probability, est.StdErr, est.Trials)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 0, "Number of points")
	cmd.Flags().Float64VarP(&d, "window", "d", 0, "Window length in (0,1)")
	cmd.Flags().IntVarP(&m, "m", "m", 0, "Number of points in the window")
	cmd.Flags().IntVar(&trials, "simulate", 0, "Also estimate the probability from this many simulated samples")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for --simulate")
	_ = cmd.MarkFlagRequired("n")
	_ = cmd.MarkFlagRequired("window")
	_ = cmd.MarkFlagRequired("m")
	return cmd
}

func newBatchCmd(state *cliState) *cobra.Command {
	var file, sheet, ref string
	var window float64
	var columns []string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every numeric column of a file concurrently",
		Long: `Compute EDF statistics and the scan statistic for each numeric column of an
.xlsx or .csv file, GOF_WORKERS columns at a time.

Example: gofscan batch -f samples.xlsx -r exponential:1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file = orDefault(file, state.cfg.Batch.SampleFile)
			if file == "" {
				return core.NewArgumentError("--file", "is required (or set GOF_SAMPLE_FILE)")
			}
			if window == 0 {
				window = state.cfg.Test.ScanWindow
			}
			dist, _, err := distributions.Resolve(orDefault(ref, state.cfg.Test.Reference), "", nil)
			if err != nil {
				return err
			}

			runner, err := batch.NewRunner(excel.NewDataReader(file).WithSheet(sheet), batch.Options{
				Reference:  dist,
				ScanWindow: window,
				Workers:    state.cfg.Batch.Workers,
			})
			if err != nil {
				return err
			}
			var report *batch.Report
			if len(columns) > 0 {
				report, err = runner.Run(cmd.Context(), columns)
			} else {
				report, err = runner.RunAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			if state.asJSON {
				return state.printJSON(cmd, report)
			}
			printBatch(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Input .xlsx or .csv file (default from GOF_SAMPLE_FILE)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read (default Sheet1)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to evaluate (default all numeric columns)")
	cmd.Flags().StringVarP(&ref, "reference", "r", "", "Reference distribution (default from GOF_REFERENCE)")
	cmd.Flags().Float64VarP(&window, "window", "d", 0, "Scan window length (default from GOF_SCAN_WINDOW)")
	return cmd
}

func newServeCmd(state *cliState) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statistics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				state.cfg.Server.Port = port
			}
			return api.NewServer(state.cfg).Start()
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default from PORT)")
	return cmd
}

func printProbability(cmd *cobra.Command, p gof.ScanProbability) {
	out := cmd.OutOrStdout()
	if v, ok := p.Value(); ok {
		fmt.Fprintf(out, "P[scan >= m] ≈ %.6g (%s)\n", v, p.Method)
		return
	}
	fmt.Fprintf(out, "P[scan >= m]: %s, no approximation for windows longer than 1/2\n", p.Status)
}

func printBatch(cmd *cobra.Command, report *batch.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d samples in %v\n", report.RunID, len(report.Samples), report.Duration)

	ids := gof.DefaultTests
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "sample\tn")
	for _, id := range ids {
		fmt.Fprintf(tw, "\t%s", id)
	}
	fmt.Fprint(tw, "\tscan\tP[scan]\n")

	for i, s := range report.Samples {
		fmt.Fprintf(tw, "%s\t%d", s.Key, s.N)
		if s.Err != "" {
			fmt.Fprintf(tw, "\terror: %s\n", s.Err)
			continue
		}
		for _, id := range ids {
			fmt.Fprintf(tw, "\t%.4g", report.Matrix.At(i, int(id)))
		}
		fmt.Fprintf(tw, "\t%d", s.Scan.M)
		if s.Probability != nil {
			if v, ok := s.Probability.Value(); ok {
				fmt.Fprintf(tw, "\t%.4g\n", v)
				continue
			}
		}
		fmt.Fprint(tw, "\t-\n")
	}
	tw.Flush()
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
