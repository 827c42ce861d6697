package reconciler_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/reconciler"
)

func TestExactAmountComparator(t *testing.T) {
	c := reconciler.NewExactAmountComparator()

	base := domain.TransactionRecord{
		Reference: "1001",
		Debit:     decimal.RequireFromString("100000.00"),
		Credit:    decimal.Zero,
		Currency:  "TZS",
	}

	tests := []struct {
		name   string
		debit  string
		credit string
		want   bool
	}{
		{"same scale", "100000.00", "0", true},
		{"different scale", "100000", "0.000", true},
		{"one cent off", "100000.01", "0", false},
		{"credit differs", "100000", "0.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			other.Debit = decimal.RequireFromString(tt.debit)
			other.Credit = decimal.RequireFromString(tt.credit)

			if got := c.Equal(base, other); got != tt.want {
				t.Errorf("Expected Equal to be %v, got %v", tt.want, got)
			}
		})
	}
}
