package ingestion

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// GridReader turns an uploaded file into a raw cell grid. sheet selects a
// named worksheet; "" means the first one.
type GridReader interface {
	ReadGrid(path, sheet string) (RawGrid, error)
}

// FileGridReader reads .xlsx, legacy .xls and .csv files from disk.
type FileGridReader struct{}

func (FileGridReader) ReadGrid(path, sheet string) (RawGrid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path, sheet)
	case ".xls":
		return readXLS(path, sheet)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func readXLSX(path, sheet string) (RawGrid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		// a missing worksheet means the table we were asked for does not
		// exist in this workbook
		return nil, fmt.Errorf("sheet %q: %v: %w", sheet, err, ErrTableNotFound)
	}
	return RawGrid(rows), nil
}

func readXLS(path, sheet string) (RawGrid, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	idx := 0
	if sheet != "" {
		idx = -1
		for i, s := range wb.GetSheets() {
			if strings.EqualFold(s.GetName(), sheet) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("sheet %q: %w", sheet, ErrTableNotFound)
		}
	}
	ws, err := wb.GetSheet(idx)
	if err != nil || ws == nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrTableNotFound)
	}

	var grid RawGrid
	for _, row := range ws.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func readCSV(path string) (RawGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exports pad rows unevenly
	r.LazyQuotes = true

	var grid RawGrid
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		grid = append(grid, rec)
	}
	return grid, nil
}

// FileSHA256 hashes a file's content for idempotent re-upload detection.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
