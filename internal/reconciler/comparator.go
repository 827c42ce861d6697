package reconciler

import (
	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// ExactAmountComparator treats two records as agreeing when both debit and
// credit are numerically equal. There is no tolerance; 100 and 100.00 are
// equal, 100 and 100.01 are not. Currency is not compared.
type ExactAmountComparator struct{}

// NewExactAmountComparator creates a new ExactAmountComparator
func NewExactAmountComparator() *ExactAmountComparator {
	return &ExactAmountComparator{}
}

// Equal implements the domain.AmountComparator interface
func (c *ExactAmountComparator) Equal(left, right domain.TransactionRecord) bool {
	return left.Debit.Equal(right.Debit) && left.Credit.Equal(right.Credit)
}
