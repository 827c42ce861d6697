package source

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

const defaultHTTPTimeout = 30 * time.Second

var _ domain.RecordSource = (*HTTPSource)(nil)

// HTTPSource downloads a ledger export from a URL. Failed fetches are not
// retried; the caller decides whether to ask again.
type HTTPSource struct {
	URL    string
	side   domain.Side
	client *resty.Client
}

// NewHTTPSource creates a new HTTPSource. A zero timeout uses the default.
func NewHTTPSource(side domain.Side, url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := resty.New().
		SetRetryCount(0).
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	return &HTTPSource{
		URL:    url,
		side:   side,
		client: client,
	}
}

// Name implements the domain.RecordSource interface
func (s *HTTPSource) Name() string {
	return s.URL
}

// Fetch implements the domain.RecordSource interface
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.URL)
	if err != nil {
		return nil, domain.NewLoaderError(domain.KindSourceUnreachable, s.side, s.URL,
			fmt.Errorf("requesting source: %w", err))
	}

	if !resp.IsSuccess() {
		return nil, domain.NewLoaderError(domain.KindSourceUnreachable, s.side, s.URL,
			fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	return resp.Body(), nil
}
