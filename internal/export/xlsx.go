package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// WorkbookName is the file written by XLSXWriter.
const WorkbookName = "org-stats.xlsx"

// XLSXWriter writes every table as a sheet of a single workbook.
type XLSXWriter struct {
	dir    string
	logger *logrus.Logger
}

// Write writes the workbook and returns its path.
func (w *XLSXWriter) Write(ctx context.Context, tables []Table) ([]string, error) {
	if err := makeOutputDir(w.dir); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet to %s: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		if err := writeSheet(f, table); err != nil {
			return nil, err
		}
		w.logger.WithFields(logrus.Fields{"sheet": table.Name, "rows": len(table.Rows)}).Debug("Wrote sheet")
	}

	path := filepath.Join(w.dir, WorkbookName)
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	w.logger.WithFields(logrus.Fields{"path": path, "sheets": len(tables)}).Info("Wrote workbook")
	return []string{path}, nil
}

func writeSheet(f *excelize.File, table Table) error {
	header := make([]interface{}, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
	}
	rows := append([][]interface{}{header}, table.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, table.Name, err)
		}
	}
	return nil
}
