package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// Supported output format names
const (
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatYAML  = "yaml"
	FormatTable = "table"
	FormatXLSX  = "xlsx"
)

// Formats lists every supported format name
var Formats = []string{FormatJSON, FormatCSV, FormatYAML, FormatTable, FormatXLSX}

// OutputFormatter defines the interface for formatting reconciliation results
type OutputFormatter interface {
	Format(result domain.ReconciliationResult) ([]byte, error)
	FileExtension() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, prettyPrint bool) (OutputFormatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON:
		return NewJSONFormatter(prettyPrint), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatYAML, "yml":
		return NewYAMLFormatter(), nil
	case FormatTable:
		return NewTableFormatter(), nil
	case FormatXLSX:
		return NewXLSXFormatter(), nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", name)
}

// JSONFormatter formats reconciliation results as JSON
type JSONFormatter struct {
	PrettyPrint bool
}

func NewJSONFormatter(prettyPrint bool) *JSONFormatter {
	return &JSONFormatter{
		PrettyPrint: prettyPrint,
	}
}

// Format implements the OutputFormatter interface for JSON
func (f *JSONFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	if f.PrettyPrint {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// CSVFormatter writes the downloadable discrepancy report, one row per reference
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format implements the OutputFormatter interface for CSV
func (f *CSVFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range toRows(result.Discrepancies) {
		if err := w.Write(row.cells()); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *CSVFormatter) FileExtension() string {
	return "csv"
}

// YAMLFormatter formats reconciliation results as YAML
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

type yamlReport struct {
	RunID         string         `yaml:"runId"`
	ATMSource     string         `yaml:"atmSource"`
	CBSSource     string         `yaml:"cbsSource"`
	ATMRecords    int            `yaml:"atmRecords"`
	CBSRecords    int            `yaml:"cbsRecords"`
	Summary       domain.Summary `yaml:"summary"`
	Discrepancies []reportRow    `yaml:"discrepancies"`
}

// Format implements the OutputFormatter interface for YAML
func (f *YAMLFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	return yaml.Marshal(yamlReport{
		RunID:         result.RunID,
		ATMSource:     result.ATMSource,
		CBSSource:     result.CBSSource,
		ATMRecords:    result.ATMRecords,
		CBSRecords:    result.CBSRecords,
		Summary:       result.Summary,
		Discrepancies: toRows(result.Discrepancies),
	})
}

func (f *YAMLFormatter) FileExtension() string {
	return "yaml"
}

// TableFormatter renders a terminal table followed by the summary counts
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Format implements the OutputFormatter interface for terminal tables
func (f *TableFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	var buf bytes.Buffer

	if len(result.Discrepancies) == 0 {
		buf.WriteString("No discrepancies found.\n")
	} else if err := renderTable(&buf, reportHeader, rowCells(toRows(result.Discrepancies))); err != nil {
		return nil, fmt.Errorf("rendering discrepancy table: %w", err)
	}

	buf.WriteString("\n")
	if err := renderTable(&buf, []string{"Summary", "Count"}, summaryRows(result.Summary)); err != nil {
		return nil, fmt.Errorf("rendering summary table: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *TableFormatter) FileExtension() string {
	return "txt"
}

func renderTable(buf *bytes.Buffer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(buf)

	headers := make([]any, len(header))
	for i, h := range header {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

func rowCells(rows []reportRow) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.cells())
	}
	return cells
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
