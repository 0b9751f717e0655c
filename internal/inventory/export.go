package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
)

// SummaryColumns is the header of the report export.
var SummaryColumns = []string{"ID Similar", "Total_Cantidad", "Num_Items"}

// ParseColumns validates a user column selection. An empty selection means
// every column, in persisted order.
func ParseColumns(names []string) ([]string, error) {
	var cols []string
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !models.IsColumn(part) {
				return nil, fmt.Errorf("unknown column %q", part)
			}
			cols = append(cols, part)
		}
	}
	if len(cols) == 0 {
		return models.Columns, nil
	}
	return cols, nil
}

// WriteCSV writes records as UTF-8 CSV restricted to columns.
func WriteCSV(w io.Writer, records []models.Record, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			row[i] = r.Field(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the report by similar id as UTF-8 CSV.
func WriteSummaryCSV(w io.Writer, summary []GroupSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return err
	}
	for _, g := range summary {
		if err := cw.Write([]string{g.Key, strconv.Itoa(g.TotalQuantity), strconv.Itoa(g.ItemCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
