package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gofscan/adapters/excel"
	"gofscan/domain/core"
)

// sampleFlags selects where a command reads its numbers from: positional
// arguments, or one column of an .xlsx/.csv file.
type sampleFlags struct {
	file   string
	sheet  string
	column string
}

func (f *sampleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the sample from an .xlsx or .csv file")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read (default Sheet1)")
	cmd.Flags().StringVarP(&f.column, "column", "c", "", "Column holding the sample")
}

func (f *sampleFlags) load(ctx context.Context, args []string) ([]float64, error) {
	if f.file == "" {
		return parseFloats(args)
	}
	if len(args) > 0 {
		return nil, core.NewArgumentError("arguments", "cannot be combined with --file")
	}
	if f.column == "" {
		return nil, core.NewArgumentError("--column", "is required with --file")
	}
	return excel.NewDataReader(f.file).WithSheet(f.sheet).ReadColumn(ctx, f.column)
}

func parseFloats(args []string) ([]float64, error) {
	if len(args) == 0 {
		return nil, core.ErrEmptySample
	}
	out := make([]float64, 0, len(args))
	for _, arg := range splitArgs(args) {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, core.NewArgumentErrorf("%q is not a number", arg)
		}
		out = append(out, v)
	}
	return out, nil
}

func toInts(floats []float64) ([]int, error) {
	out := make([]int, len(floats))
	for i, v := range floats {
		if v != float64(int(v)) {
			return nil, core.NewArgumentErrorf("%v is not an integer", v)
		}
		out[i] = int(v)
	}
	return out, nil
}

// splitArgs accepts both "0.1 0.2" and "0.1,0.2".
func splitArgs(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
