package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/report"
	"github.com/tirasundara/atm-reconciliation/pkg/fileutil"
)

func record(ref, debit string) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		Reference: ref,
		Debit:     decimal.RequireFromString(debit),
		Credit:    decimal.Zero,
		Currency:  "TZS",
	}
}

func sampleResult() domain.ReconciliationResult {
	atm := domain.NewRecordSet(domain.ATM, "atm.csv", []domain.TransactionRecord{
		*record("1001", "100000"), *record("1002", "50000"), *record("1003", "7"),
	})
	cbs := domain.NewRecordSet(domain.CBS, "cbs.csv", []domain.TransactionRecord{
		*record("1001", "100000"), *record("1002", "45000"), *record("1005", "30000"),
	})

	discrepancies := []domain.DiscrepancyRecord{
		{Reference: "1002", Issue: domain.AmountMismatch, ATM: record("1002", "50000"), CBS: record("1002", "45000")},
		{Reference: "1003", Issue: domain.MissingInCBS, ATM: record("1003", "7")},
		{Reference: "1005", Issue: domain.MissingInATM, CBS: record("1005", "30000")},
	}

	return domain.ReconciliationResult{
		RunID:         "run-1",
		ATMSource:     "atm.csv",
		CBSSource:     "cbs.csv",
		ATMRecords:    atm.Len(),
		CBSRecords:    cbs.Len(),
		Summary:       report.Summarize(atm, cbs, discrepancies),
		Discrepancies: discrepancies,
	}
}

func TestSummarize(t *testing.T) {
	s := sampleResult().Summary

	assert.Equal(t, domain.Summary{
		TotalReferences: 4,
		Matched:         1,
		MissingInCBS:    1,
		MissingInATM:    1,
		AmountMismatch:  1,
		Discrepancies:   3,
	}, s)
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(domain.RecordSet{}, domain.RecordSet{}, nil)

	assert.Equal(t, domain.Summary{}, s)
	assert.True(t, s.Reconciled())
}

func TestFilterByIssue(t *testing.T) {
	result := sampleResult()

	filtered := report.FilterByIssue(result, domain.MissingInATM)

	require.Len(t, filtered.Discrepancies, 1)
	assert.Equal(t, "1005", filtered.Discrepancies[0].Reference)
	assert.Equal(t, result.Summary, filtered.Summary)
	assert.Len(t, result.Discrepancies, 3, "original result must stay intact")
}

func TestNewFormatter(t *testing.T) {
	for _, name := range report.Formats {
		f, err := report.NewFormatter(name, true)
		require.NoError(t, err, name)
		assert.NotEmpty(t, f.FileExtension())
	}

	_, err := report.NewFormatter("pdf", false)
	assert.EqualError(t, err, "unsupported output format: pdf")
}

func TestJSONFormatter(t *testing.T) {
	out, err := report.NewJSONFormatter(false).Format(sampleResult())
	require.NoError(t, err)

	var decoded struct {
		RunID         string `json:"runId"`
		Discrepancies []struct {
			Reference string          `json:"reference"`
			Issue     string          `json:"issue"`
			ATM       json.RawMessage `json:"atm"`
			CBS       json.RawMessage `json:"cbs"`
		} `json:"discrepancies"`
		Summary domain.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Discrepancies, 3)
	assert.Equal(t, "Amount Mismatch", decoded.Discrepancies[0].Issue)
	assert.Nil(t, decoded.Discrepancies[2].ATM)
	assert.Equal(t, 3, decoded.Summary.Discrepancies)
}

func TestJSONFormatter_EmptyDiscrepanciesIsArray(t *testing.T) {
	out, err := report.NewJSONFormatter(false).Format(domain.ReconciliationResult{
		Discrepancies: []domain.DiscrepancyRecord{},
	})
	require.NoError(t, err)

	assert.Contains(t, string(out), `"discrepancies":[]`)
}

func TestCSVFormatter(t *testing.T) {
	out, err := report.NewCSVFormatter().Format(sampleResult())
	require.NoError(t, err)

	header, rows, err := fileutil.NewCSVReader(out).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Reference", "Discrepancy",
		"ATM Debit", "ATM Credit", "ATM Currency",
		"CBS Debit", "CBS Credit", "CBS Currency",
	}, header)
	assert.Equal(t, [][]string{
		{"1002", "Amount Mismatch", "50000", "0", "TZS", "45000", "0", "TZS"},
		{"1003", "Missing in CBS", "7", "0", "TZS", "", "", ""},
		{"1005", "Missing in ATM", "", "", "", "30000", "0", "TZS"},
	}, rows)
}

func TestYAMLFormatter(t *testing.T) {
	out, err := report.NewYAMLFormatter().Format(sampleResult())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "runId: run-1")
	assert.Contains(t, text, "discrepancy: Missing in ATM")
	assert.Contains(t, text, "amountMismatch: 1")
}

func TestTableFormatter(t *testing.T) {
	out, err := report.NewTableFormatter().Format(sampleResult())
	require.NoError(t, err)

	text := string(out)
	for _, want := range []string{"1002", "1003", "1005", "MISSING IN ATM", "TOTAL REFERENCES"} {
		assert.Contains(t, strings.ToUpper(text), want)
	}
}

func TestTableFormatter_NoDiscrepancies(t *testing.T) {
	out, err := report.NewTableFormatter().Format(domain.ReconciliationResult{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), "No discrepancies found."))
}

func TestXLSXFormatter(t *testing.T) {
	out, err := report.NewXLSXFormatter().Format(sampleResult())
	require.NoError(t, err)

	require.True(t, fileutil.IsXLSX(out))

	// The first sheet holds the discrepancies
	header, rows, err := fileutil.ReadXLSX(out)
	require.NoError(t, err)

	assert.Equal(t, "Reference", header[0])
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1002", "Amount Mismatch"}, rows[0][:2])
}
