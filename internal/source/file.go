package source

import (
	"context"
	"fmt"
	"os"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

var _ domain.RecordSource = (*FileSource)(nil)

// FileSource reads a local CSV or XLSX file
type FileSource struct {
	FilePath string
	side     domain.Side
}

// NewFileSource creates a new FileSource
func NewFileSource(side domain.Side, filePath string) *FileSource {
	return &FileSource{
		FilePath: filePath,
		side:     side,
	}
}

// Name implements the domain.RecordSource interface
func (s *FileSource) Name() string {
	return s.FilePath
}

// Fetch implements the domain.RecordSource interface
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.FilePath)
	if err != nil {
		return nil, domain.NewLoaderError(domain.KindSourceUnreachable, s.side, s.FilePath,
			fmt.Errorf("reading file: %w", err))
	}

	return raw, nil
}
