package ledgerparser

import (
	"time"

	"fjacquet/gl-audit/internal/models"
)

var testNow = time.Date(2024, time.June, 30, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// grid builds a raw sheet from string rows the way a workbook reader would.
func grid(rows ...[]string) [][]models.Cell {
	out := make([][]models.Cell, len(rows))
	for i, r := range rows {
		out[i] = make([]models.Cell, len(r))
		for j, v := range r {
			out[i][j] = models.CellFromRaw(v)
		}
	}
	return out
}

func row(index int, kv ...string) models.LedgerRow {
	r := models.NewLedgerRow(index)
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], models.CellFromRaw(kv[i+1]))
	}
	return r
}
