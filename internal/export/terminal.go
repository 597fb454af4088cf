package export

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Render prints table to w as an aligned terminal table.
func Render(w io.Writer, table Table) error {
	data := pterm.TableData{table.Columns}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		data = append(data, record)
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(w).WithData(data).Render()
}
