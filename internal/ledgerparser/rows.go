package ledgerparser

import (
	"fmt"
	"strings"

	"fjacquet/gl-audit/internal/models"
)

// HeaderNames turns a header row into unique column names. Blank headers get
// a positional name ("Column3") and repeats get a numeric suffix ("금액_2").
func HeaderNames(header []models.Cell, width int) []string {
	if width < len(header) {
		width = len(header)
	}
	names := make([]string, width)
	seen := make(map[string]int, width)
	for j := 0; j < width; j++ {
		name := ""
		if j < len(header) {
			name = strings.TrimSpace(header[j].String())
		}
		if name == "" {
			name = fmt.Sprintf("Column%d", j+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		names[j] = name
	}
	return names
}

// GridWidth returns the widest row length from the header row down.
func GridWidth(grid [][]models.Cell, from int) int {
	width := 0
	for i := from; i < len(grid); i++ {
		if len(grid[i]) > width {
			width = len(grid[i])
		}
	}
	return width
}

// BuildRows keys every grid row below headerRow by the header names.
// Row indexes are grid positions.
func BuildRows(grid [][]models.Cell, headerRow int, headers []string) []models.LedgerRow {
	if headerRow < 0 || headerRow >= len(grid) {
		return nil
	}
	rows := make([]models.LedgerRow, 0, len(grid)-headerRow-1)
	for i := headerRow + 1; i < len(grid); i++ {
		row := models.NewLedgerRow(i)
		for j, name := range headers {
			if j < len(grid[i]) {
				row.Set(name, grid[i][j])
			} else {
				row.Set(name, models.EmptyCell())
			}
		}
		rows = append(rows, row)
	}
	return rows
}
