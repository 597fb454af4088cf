package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CSVWriter writes one <name>.csv file per table.
type CSVWriter struct {
	dir    string
	logger *logrus.Logger
}

// Write writes every table concurrently. Paths are returned in table order.
func (w *CSVWriter) Write(ctx context.Context, tables []Table) ([]string, error) {
	if err := makeOutputDir(w.dir); err != nil {
		return nil, err
	}

	paths := make([]string, len(tables))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, table := range tables {
		path := filepath.Join(w.dir, table.Name+".csv")
		paths[i] = path
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := writeCSV(path, table); err != nil {
				return err
			}
			w.logger.WithFields(logrus.Fields{"path": path, "rows": len(table.Rows)}).Info("Wrote table")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeCSV(path string, table Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
