package excel

// RawRowData represents a row of raw cell text keyed by column header
type RawRowData map[string]string

// SheetData represents the complete tabular dataset read from a file
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
