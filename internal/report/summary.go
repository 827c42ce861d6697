package report

import (
	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// Summarize counts discrepancies per issue. TotalReferences is the number of
// distinct references across both sides; Matched are those that agreed.
func Summarize(atm, cbs domain.RecordSet, discrepancies []domain.DiscrepancyRecord) domain.Summary {
	refs := make(map[string]struct{}, atm.Len()+cbs.Len())
	for _, r := range atm.Records {
		refs[r.Reference] = struct{}{}
	}
	for _, r := range cbs.Records {
		refs[r.Reference] = struct{}{}
	}

	s := domain.Summary{
		TotalReferences: len(refs),
		Discrepancies:   len(discrepancies),
	}

	for _, d := range discrepancies {
		switch d.Issue {
		case domain.MissingInCBS:
			s.MissingInCBS++
		case domain.MissingInATM:
			s.MissingInATM++
		case domain.AmountMismatch:
			s.AmountMismatch++
		}
	}

	s.Matched = s.TotalReferences - s.Discrepancies

	return s
}

// FilterByIssue keeps only discrepancies of the given issue. The summary is
// left untouched so it still describes the whole run.
func FilterByIssue(result domain.ReconciliationResult, issue domain.DiscrepancyIssue) domain.ReconciliationResult {
	filtered := make([]domain.DiscrepancyRecord, 0, result.Summary.Count(issue))
	for _, d := range result.Discrepancies {
		if d.Issue == issue {
			filtered = append(filtered, d)
		}
	}

	result.Discrepancies = filtered
	return result
}
