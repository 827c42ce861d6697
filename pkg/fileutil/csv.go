package fileutil

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader provides a helper/utility to read CSV content already held in memory
type CSVReader struct {
	data      []byte
	Delimiter rune
}

// NewCSVReader returns a CSVReader for the given bytes. The delimiter is
// detected from the header line: ';' when present, ',' otherwise.
func NewCSVReader(raw []byte) *CSVReader {
	data := bytes.TrimPrefix(raw, utf8BOM)

	return &CSVReader{
		data:      data,
		Delimiter: DetectDelimiter(data),
	}
}

// DetectDelimiter looks at the first line only
func DetectDelimiter(data []byte) rune {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if bytes.IndexByte(line, ';') != -1 && bytes.IndexByte(line, ',') == -1 {
		return ';'
	}
	return ','
}

func (r *CSVReader) newReader() *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(r.data))
	reader.Comma = r.Delimiter
	reader.FieldsPerRecord = -1 // row length is validated by the caller
	reader.TrimLeadingSpace = true
	return reader
}

// ReadHeader reads ONLY the header row
func (r *CSVReader) ReadHeader() ([]string, error) {
	header, err := r.newReader().Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	return header, nil
}

// ReadAndProcessByRow reads data rows one by one, skipping the header.
// line is the 1-based data row number.
func (r *CSVReader) ReadAndProcessByRow(processorFn func(line int, row []string) error) error {
	reader := r.newReader()

	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyTable
		}
		return fmt.Errorf("reading CSV header: %w", err)
	}

	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break // end of file, stop
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		line++
		if err = processorFn(line, row); err != nil {
			return err
		}
	}

	return nil
}

// ReadAll returns the header and every data row
func (r *CSVReader) ReadAll() ([]string, [][]string, error) {
	header, err := r.ReadHeader()
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	err = r.ReadAndProcessByRow(func(_ int, row []string) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return header, rows, nil
}
