package loader

import (
	"fmt"
	"strings"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// columnMap holds the index of each canonical column in a raw header
type columnMap struct {
	reference int
	debit     int
	credit    int
	currency  int
	maxIndex  int
}

// createHeaderMap maps the canonical columns to their indices. Names match
// exactly (case-sensitive) once surrounding whitespace and a BOM are removed.
func createHeaderMap(header []string) (columnMap, []string) {
	index := make(map[string]int, len(header))
	for i, field := range header {
		name := strings.TrimSpace(strings.TrimPrefix(field, "\uFEFF"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	lookup := func(column string) int {
		i, ok := index[column]
		if !ok {
			missing = append(missing, column)
			return -1
		}
		return i
	}

	cols := columnMap{
		reference: lookup(domain.ColumnReference),
		debit:     lookup(domain.ColumnDebit),
		credit:    lookup(domain.ColumnCredit),
		currency:  lookup(domain.ColumnCurrency),
	}
	cols.maxIndex = max(cols.reference, cols.debit, cols.credit, cols.currency)

	return cols, missing
}

func missingColumnsError(missing []string) error {
	return fmt.Errorf("required column(s) %s not found in header", strings.Join(missing, ", "))
}
