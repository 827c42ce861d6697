package reconciler

import (
	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

var _ domain.Reconciler = (*DefaultReconciler)(nil)

// DefaultReconciler implements the domain.Reconciler interface
type DefaultReconciler struct {
	comparator domain.AmountComparator
}

// NewDefaultReconciler creates a new DefaultReconciler. With no comparator the
// exact debit/credit comparison is used.
func NewDefaultReconciler(comparator ...domain.AmountComparator) *DefaultReconciler {
	var c domain.AmountComparator = NewExactAmountComparator()
	if len(comparator) > 0 && comparator[0] != nil {
		c = comparator[0]
	}

	return &DefaultReconciler{
		comparator: c,
	}
}

// index maps each distinct reference to its first-seen record
type index struct {
	order   []string
	records map[string]domain.TransactionRecord
}

func buildIndex(rs domain.RecordSet) index {
	idx := index{
		order:   make([]string, 0, len(rs.Records)),
		records: make(map[string]domain.TransactionRecord, len(rs.Records)),
	}

	for _, rec := range rs.Records {
		if _, seen := idx.records[rec.Reference]; seen {
			continue
		}
		idx.records[rec.Reference] = rec
		idx.order = append(idx.order, rec.Reference)
	}

	return idx
}

// Reconcile classifies every distinct reference of both sides, walking the
// left references in order and then the right-only ones in order. References
// that agree on both sides produce nothing. The result is never nil.
func (r *DefaultReconciler) Reconcile(left, right domain.RecordSet) []domain.DiscrepancyRecord {
	atm := buildIndex(left)
	cbs := buildIndex(right)

	discrepancies := make([]domain.DiscrepancyRecord, 0)

	for _, ref := range atm.order {
		atmRec := atm.records[ref]

		cbsRec, found := cbs.records[ref]
		if !found {
			discrepancies = append(discrepancies, domain.DiscrepancyRecord{
				Reference: ref,
				Issue:     domain.MissingInCBS,
				ATM:       &atmRec,
			})
			continue
		}

		if r.comparator.Equal(atmRec, cbsRec) {
			continue
		}

		discrepancies = append(discrepancies, domain.DiscrepancyRecord{
			Reference: ref,
			Issue:     domain.AmountMismatch,
			ATM:       &atmRec,
			CBS:       &cbsRec,
		})
	}

	for _, ref := range cbs.order {
		if _, found := atm.records[ref]; found {
			continue
		}

		cbsRec := cbs.records[ref]
		discrepancies = append(discrepancies, domain.DiscrepancyRecord{
			Reference: ref,
			Issue:     domain.MissingInATM,
			CBS:       &cbsRec,
		})
	}

	return discrepancies
}
