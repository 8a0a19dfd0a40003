package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"gofscan/domain/core"
)

const defaultSheet = "Sheet1"

// DataReader reads named numeric samples from Excel and CSV files.
// The file is read once; later calls reuse the parsed rows.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string

	once sync.Once
	data *SheetData
	err  error
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: defaultSheet}
}

// WithSheet selects the worksheet to read from an Excel file. When the named
// sheet is absent the first sheet of the workbook is used.
func (r *DataReader) WithSheet(name string) *DataReader {
	if name != "" {
		r.sheet = name
	}
	return r
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*SheetData, error) {
	r.once.Do(func() {
		r.data, r.err = r.load()
	})
	return r.data, r.err
}

// Columns lists the headers that hold at least one numeric value.
func (r *DataReader) Columns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	var columns []string
	for _, header := range data.Headers {
		if header == "" {
			continue
		}
		for _, row := range data.Rows {
			if _, err := strconv.ParseFloat(row[header], 64); err == nil {
				columns = append(columns, header)
				break
			}
		}
	}
	return columns, nil
}

// ReadColumn returns the values of one column in file order. Blank cells are
// skipped; any other non-numeric cell is an error.
func (r *DataReader) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	found := false
	for _, header := range data.Headers {
		if header == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w %q in %s", core.ErrColumnNotFound, name, filepath.Base(r.filePath))
	}

	values := make([]float64, 0, len(data.Rows))
	for i, row := range data.Rows {
		cell := row[name]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			// header is row 1
			return nil, core.NewArgumentErrorf("column %q row %d: %q is not a number", name, i+2, cell)
		}
		values = append(values, v)
	}
	log.Printf("[DataReader] column %q: %d values", name, len(values))
	return values, nil
}

func (r *DataReader) load() (*SheetData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

// readExcelData reads the selected worksheet into structured format
func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.sheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewArgumentErrorf("%s has no worksheets", r.filePath)
		}
		log.Printf("[DataReader] sheet %q not found, using %q", sheet, sheets[0])
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData format
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s needs a header row and at least one data row",
			core.ErrInsufficientData, strings.ToUpper(r.fileType))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &SheetData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
