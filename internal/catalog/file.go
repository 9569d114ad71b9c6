// internal/catalog/file.go
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FileSource reads the catalog from a spreadsheet (.xlsx) or a CSV file.
type FileSource struct {
	Path  string
	Sheet string // xlsx only; empty selects the first sheet
}

func (s FileSource) Name() string {
	return "file:" + s.Path
}

func (s FileSource) Load(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	var (
		table [][]string
		err   error
	)
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx", ".xlsm":
		table, err = readWorkbook(s.Path, s.Sheet)
	case ".csv":
		table, err = readCSVFile(s.Path)
	default:
		return Batch{}, fmt.Errorf("unsupported catalog file type %q", filepath.Ext(s.Path))
	}
	if err != nil {
		return Batch{}, err
	}
	if len(table) == 0 {
		return Batch{}, nil
	}
	return ParseRows(table[0], table[1:])
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return workbookRows(f, sheet)
}

// ReadWorkbook parses an .xlsx stream.
func ReadWorkbook(r io.Reader, sheet string) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	table, err := workbookRows(f, sheet)
	if err != nil || len(table) == 0 {
		return Batch{}, err
	}
	return ParseRows(table[0], table[1:])
}

func workbookRows(f *excelize.File, sheet string) ([][]string, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSVFile(path string) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer fh.Close()
	return readCSV(fh)
}

// ReadCSV parses a CSV stream with a header row.
func ReadCSV(r io.Reader) (Batch, error) {
	table, err := readCSV(r)
	if err != nil || len(table) == 0 {
		return Batch{}, err
	}
	return ParseRows(table[0], table[1:])
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	table, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(table) > 0 && len(table[0]) > 0 {
		// spreadsheet exports often carry a UTF-8 BOM
		table[0][0] = strings.TrimPrefix(table[0][0], "\ufeff")
	}
	return table, nil
}
