package domain

// Summary holds counts per issue category for one run
type Summary struct {
	TotalReferences int `json:"totalReferences" yaml:"totalReferences"`
	Matched         int `json:"matched" yaml:"matched"`
	MissingInCBS    int `json:"missingInCBS" yaml:"missingInCBS"`
	MissingInATM    int `json:"missingInATM" yaml:"missingInATM"`
	AmountMismatch  int `json:"amountMismatch" yaml:"amountMismatch"`
	Discrepancies   int `json:"discrepancies" yaml:"discrepancies"`
}

// Count returns the number of discrepancies for the given issue
func (s Summary) Count(issue DiscrepancyIssue) int {
	switch issue {
	case MissingInCBS:
		return s.MissingInCBS
	case MissingInATM:
		return s.MissingInATM
	case AmountMismatch:
		return s.AmountMismatch
	}
	return 0
}

// Reconciled reports whether the run found no discrepancies at all
func (s Summary) Reconciled() bool {
	return s.Discrepancies == 0
}

// ReconciliationResult contains the result of one reconciliation run
type ReconciliationResult struct {
	RunID         string              `json:"runId" yaml:"runId"`
	ATMSource     string              `json:"atmSource" yaml:"atmSource"`
	CBSSource     string              `json:"cbsSource" yaml:"cbsSource"`
	ATMRecords    int                 `json:"atmRecords" yaml:"atmRecords"`
	CBSRecords    int                 `json:"cbsRecords" yaml:"cbsRecords"`
	Summary       Summary             `json:"summary" yaml:"summary"`
	Discrepancies []DiscrepancyRecord `json:"discrepancies" yaml:"discrepancies"`
}
