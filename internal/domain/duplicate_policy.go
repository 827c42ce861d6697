package domain

import (
	"fmt"
	"strings"
)

// DuplicatePolicy says what to do when a reference repeats within one side
type DuplicatePolicy string

const (
	// DuplicateFirst keeps all rows; matching uses the first-seen occurrence
	DuplicateFirst DuplicatePolicy = "first"

	// DuplicateReject fails the load with a DuplicateReference error
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy parses a policy name, empty meaning DuplicateFirst
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateFirst:
		return DuplicateFirst, nil
	case DuplicateReject:
		return DuplicateReject, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (want %q or %q)", s, DuplicateFirst, DuplicateReject)
}
