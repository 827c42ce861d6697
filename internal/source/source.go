// Package source holds the collaborators that supply raw ledger bytes:
// local files, HTTP downloads and operator-entered rows.
package source

import (
	"strings"
	"time"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// FromLocation picks an HTTPSource for http(s) URLs and a FileSource otherwise
func FromLocation(side domain.Side, location string, httpTimeout time.Duration) domain.RecordSource {
	location = strings.TrimSpace(location)

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(side, location, httpTimeout)
	}

	return NewFileSource(side, location)
}
