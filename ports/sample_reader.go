package ports

import "context"

// SampleReader loads named numeric samples from an external source
// (spreadsheet, CSV file). Values are returned in file order, unsorted.
type SampleReader interface {
	// Columns lists the sample names available in the source
	Columns(ctx context.Context) ([]string, error)

	// ReadColumn returns the numeric values of one sample, skipping blanks
	ReadColumn(ctx context.Context, name string) ([]float64, error)
}
