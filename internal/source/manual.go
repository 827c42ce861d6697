package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

const manualSourceName = "manual"

// ManualEntry is one row typed in by an operator. Amounts stay as text so the
// loader applies the same coercion rules as for files.
type ManualEntry struct {
	Reference string
	Debit     string
	Credit    string
	Currency  string
}

var _ domain.RecordSource = (*ManualSource)(nil)

// ManualSource renders operator-entered rows as CSV with the canonical header
type ManualSource struct {
	Entries []ManualEntry
}

// NewManualSource creates a new ManualSource
func NewManualSource(entries ...ManualEntry) *ManualSource {
	return &ManualSource{
		Entries: entries,
	}
}

// Add appends a row
func (s *ManualSource) Add(entry ManualEntry) {
	s.Entries = append(s.Entries, entry)
}

// Name implements the domain.RecordSource interface
func (s *ManualSource) Name() string {
	return manualSourceName
}

// Fetch implements the domain.RecordSource interface
func (s *ManualSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(domain.RequiredColumns); err != nil {
		return nil, fmt.Errorf("writing manual header: %w", err)
	}
	for _, e := range s.Entries {
		if err := w.Write([]string{e.Reference, e.Debit, e.Credit, e.Currency}); err != nil {
			return nil, fmt.Errorf("writing manual row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing manual rows: %w", err)
	}

	return buf.Bytes(), nil
}
