package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyTable is returned when the content has no header row
var ErrEmptyTable = errors.New("table has no header row")

var zipSignature = []byte("PK\x03\x04")

// IsXLSX reports whether raw looks like an Office Open XML workbook
func IsXLSX(raw []byte) bool {
	return bytes.HasPrefix(raw, zipSignature)
}

// ReadTable decodes CSV or XLSX bytes into a header and data rows
func ReadTable(raw []byte) ([]string, [][]string, error) {
	if IsXLSX(raw) {
		return ReadXLSX(raw)
	}
	return NewCSVReader(raw).ReadAll()
}

// ReadXLSX reads the first sheet of a workbook. The first non-blank row is the
// header. Later blank rows are kept so row positions match the sheet, and every
// data row is padded to the header width since trailing empty cells are not
// stored in the file.
func ReadXLSX(raw []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyTable
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var header []string
	var rows [][]string
	for _, row := range all {
		if header == nil {
			if !IsBlankRow(row) {
				header = row
			}
			continue
		}
		rows = append(rows, padRow(row, len(header)))
	}

	if header == nil {
		return nil, nil, ErrEmptyTable
	}

	return header, rows, nil
}

// IsBlankRow reports whether every cell of row is empty or whitespace
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
