package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rocketmo/gh-org-stats/internal/config"
	"github.com/rocketmo/gh-org-stats/internal/domain"
	"github.com/sirupsen/logrus"
)

// Writer persists tables and returns the paths it wrote.
type Writer interface {
	Write(ctx context.Context, tables []Table) ([]string, error)
}

// NewWriter returns the Writer for format, writing below dir.
func NewWriter(format, dir string, logger *logrus.Logger) (Writer, error) {
	switch strings.ToLower(format) {
	case config.FormatCSV:
		return &CSVWriter{dir: dir, logger: logger}, nil
	case config.FormatXLSX:
		return &XLSXWriter{dir: dir, logger: logger}, nil
	default:
		return nil, fmt.Errorf("%q: %w", format, domain.ErrUnknownFormat)
	}
}

func makeOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
