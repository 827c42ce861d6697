package domain

import "fmt"

// DiscrepancyIssue classifies a disagreement between the two ledgers for one reference
type DiscrepancyIssue string

// Discrepancy issues. The values are the labels used in reports.
const (
	MissingInCBS   DiscrepancyIssue = "Missing in CBS"  // reference only in the ATM log
	MissingInATM   DiscrepancyIssue = "Missing in ATM"  // reference only in the CBS ledger
	AmountMismatch DiscrepancyIssue = "Amount Mismatch" // both sides, debit and/or credit differ
)

// Issues lists every issue in report order
var Issues = []DiscrepancyIssue{MissingInCBS, MissingInATM, AmountMismatch}

// Mirror returns the issue as seen with the ledgers swapped
func (i DiscrepancyIssue) Mirror() DiscrepancyIssue {
	switch i {
	case MissingInCBS:
		return MissingInATM
	case MissingInATM:
		return MissingInCBS
	default:
		return i
	}
}

// ParseDiscrepancyIssue accepts a report label ("Missing in CBS") or its
// identifier form ("MissingInCBS"), case-insensitively
func ParseDiscrepancyIssue(s string) (DiscrepancyIssue, error) {
	for _, issue := range Issues {
		if equalFoldCompact(s, string(issue)) {
			return issue, nil
		}
	}
	return "", fmt.Errorf("unknown discrepancy issue %q", s)
}

// DiscrepancyRecord is one discrepant reference. ATM and CBS carry the record
// seen on each side and are nil on the side where the reference is missing.
type DiscrepancyRecord struct {
	Reference string             `json:"reference" yaml:"reference"`
	Issue     DiscrepancyIssue   `json:"issue" yaml:"issue"`
	ATM       *TransactionRecord `json:"atm,omitempty" yaml:"atm,omitempty"`
	CBS       *TransactionRecord `json:"cbs,omitempty" yaml:"cbs,omitempty"`
}

// equalFoldCompact compares ignoring case, spaces, dashes and underscores
func equalFoldCompact(a, b string) bool {
	return compact(a) == compact(b)
}

func compact(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '-' || c == '_':
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
