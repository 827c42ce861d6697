package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

const (
	discrepancySheet = "Discrepancies"
	summarySheet     = "Summary"
)

// XLSXFormatter writes the reconciliation report workbook
type XLSXFormatter struct{}

func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

// Format implements the OutputFormatter interface for XLSX
func (f *XLSXFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", discrepancySheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := wb.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("adding summary sheet: %w", err)
	}

	rows := [][]string{reportHeader}
	for _, r := range toRows(result.Discrepancies) {
		rows = append(rows, r.cells())
	}
	if err := writeRows(wb, discrepancySheet, rows); err != nil {
		return nil, err
	}

	summary := append([][]string{{"Summary", "Count"}}, summaryRows(result.Summary)...)
	if err := writeRows(wb, summarySheet, summary); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *XLSXFormatter) FileExtension() string {
	return "xlsx"
}

func writeRows(wb *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}

		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
