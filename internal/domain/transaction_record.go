package domain

import (
	"github.com/shopspring/decimal"
)

// Side identifies which ledger a record set was loaded from
type Side string

// Ledger sides. ATM is always the left side of a reconciliation, CBS the right.
const (
	ATM Side = "ATM"
	CBS Side = "CBS"
)

// Canonical column names every raw source must carry
const (
	ColumnReference = "REFERENCE"
	ColumnDebit     = "DEBIT"
	ColumnCredit    = "CREDIT"
	ColumnCurrency  = "CURRENCY"
)

// RequiredColumns lists the canonical columns in report order
var RequiredColumns = []string{ColumnReference, ColumnDebit, ColumnCredit, ColumnCurrency}

// TransactionRecord represents one row from either the ATM log or the CBS ledger
type TransactionRecord struct {
	Reference string          `json:"reference" yaml:"reference"`
	Debit     decimal.Decimal `json:"debit" yaml:"debit"`
	Credit    decimal.Decimal `json:"credit" yaml:"credit"`
	Currency  string          `json:"currency" yaml:"currency"`
}

// RecordSet is the ordered output of loading one side
type RecordSet struct {
	Side    Side
	Source  string // Where the records came from (file path, URL, "manual")
	Records []TransactionRecord
}

// NewRecordSet creates a RecordSet for the given side
func NewRecordSet(side Side, source string, records []TransactionRecord) RecordSet {
	return RecordSet{
		Side:    side,
		Source:  source,
		Records: records,
	}
}

// Len returns the number of rows, duplicates included
func (rs RecordSet) Len() int {
	return len(rs.Records)
}

// References returns the distinct references in first-seen order
func (rs RecordSet) References() []string {
	seen := make(map[string]bool, len(rs.Records))
	refs := make([]string, 0, len(rs.Records))

	for _, rec := range rs.Records {
		if seen[rec.Reference] {
			continue
		}
		seen[rec.Reference] = true
		refs = append(refs, rec.Reference)
	}

	return refs
}

// Duplicates returns references occurring more than once, in first-seen order
func (rs RecordSet) Duplicates() []string {
	counts := make(map[string]int, len(rs.Records))
	var dups []string

	for _, rec := range rs.Records {
		counts[rec.Reference]++
		if counts[rec.Reference] == 2 {
			dups = append(dups, rec.Reference)
		}
	}

	return dups
}
