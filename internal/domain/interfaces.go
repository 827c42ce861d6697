package domain

import "context"

// RecordSource supplies the raw tabular bytes of one ledger
type RecordSource interface {
	// Name describes the source in reports and errors (path, URL, "manual")
	Name() string

	// Fetch returns the raw bytes. Failures are reported as SourceUnreachable.
	Fetch(ctx context.Context) ([]byte, error)
}

// RecordLoader turns raw bytes from one side into a RecordSet
type RecordLoader interface {
	Load(side Side, source string, raw []byte) (RecordSet, error)
}

// Reconciler classifies the references of two record sets.
// Left is the ATM log, right is the CBS ledger.
type Reconciler interface {
	Reconcile(left, right RecordSet) []DiscrepancyRecord
}

// AmountComparator decides whether two records for the same reference agree
type AmountComparator interface {
	Equal(left, right TransactionRecord) bool
}
