package ledgerparser

import (
	"time"

	"fjacquet/gl-audit/internal/dateutils"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/models"
)

const (
	// DefaultScanRows bounds how deep into a sheet a header is searched for.
	DefaultScanRows = 20
	// DefaultLookaheadRows is how many rows below a candidate header may be
	// searched for a first dated transaction.
	DefaultLookaheadRows = 5

	minCompanionCells = 2
	minDensityCells   = 3
)

// HeaderLocator finds the header row of a raw ledger grid. It tolerates
// banner rows, merged titles and headers repeated on later printed pages.
type HeaderLocator struct {
	Dict      *keywords.Dictionary
	ScanRows  int
	Lookahead int
	Now       func() time.Time
}

// NewHeaderLocator returns a locator with default scan depths.
func NewHeaderLocator(dict *keywords.Dictionary) *HeaderLocator {
	if dict == nil {
		dict = keywords.Default()
	}
	return &HeaderLocator{
		Dict:      dict,
		ScanRows:  DefaultScanRows,
		Lookahead: DefaultLookaheadRows,
		Now:       time.Now,
	}
}

// Locate returns the header row index and the strategy that found it, or
// -1 and HeaderNotFound. Strategies are tried in order: keyword match
// confirmed by a dated row below, keyword match followed by any non-empty
// row, then the densest row.
func (l *HeaderLocator) Locate(grid [][]models.Cell) (int, models.HeaderMethod) {
	limit := l.scanLimit(len(grid))

	for i := 0; i < limit; i++ {
		if dateCol, ok := l.isKeywordHeader(grid[i]); ok && l.hasDatedRowBelow(grid, i, dateCol) {
			return i, models.HeaderKeyword
		}
	}

	for i := 0; i < limit; i++ {
		if _, ok := l.isKeywordHeader(grid[i]); ok && i+1 < len(grid) && !isEmptyRow(grid[i+1]) {
			return i, models.HeaderRelaxed
		}
	}

	best, bestCount := -1, 0
	for i := 0; i < limit; i++ {
		count := countNonEmpty(grid[i])
		if count < minDensityCells || l.isTitleOnly(grid[i]) || !hasNonEmptyBelow(grid, i) {
			continue
		}
		// >= so the last of equally dense rows wins
		if count >= bestCount {
			best, bestCount = i, count
		}
	}
	if best >= 0 {
		return best, models.HeaderDensity
	}

	return -1, models.HeaderNotFound
}

func (l *HeaderLocator) scanLimit(rows int) int {
	limit := l.ScanRows
	if limit <= 0 {
		limit = DefaultScanRows
	}
	if rows < limit {
		return rows
	}
	return limit
}

// isKeywordHeader reports whether row has a date keyword cell and at least
// two cells from the companion families. It returns the date column.
func (l *HeaderLocator) isKeywordHeader(row []models.Cell) (int, bool) {
	dateCol := -1
	companions := 0
	for j, c := range row {
		if c.IsEmpty() {
			continue
		}
		text := c.String()
		if l.Dict.Matches(keywords.RoleDate, text) {
			if dateCol < 0 {
				dateCol = j
			}
			continue
		}
		if l.Dict.MatchesAny(keywords.HeaderCompanionRoles, text) {
			companions++
		}
	}
	return dateCol, dateCol >= 0 && companions >= minCompanionCells
}

// hasDatedRowBelow looks for a row within the lookahead window whose first
// cell, or the cell under the date header, parses as a date.
func (l *HeaderLocator) hasDatedRowBelow(grid [][]models.Cell, header, dateCol int) bool {
	lookahead := l.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultLookaheadRows
	}
	now := l.now()
	for k := header + 1; k <= header+lookahead && k < len(grid); k++ {
		row := grid[k]
		if len(row) == 0 {
			continue
		}
		if _, ok := dateutils.ParseCell(row[0], now); ok {
			return true
		}
		if dateCol > 0 && dateCol < len(row) {
			if _, ok := dateutils.ParseCell(row[dateCol], now); ok {
				return true
			}
		}
	}
	return false
}

func (l *HeaderLocator) isTitleOnly(row []models.Cell) bool {
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		if !l.Dict.IsTitle(c.String()) {
			return false
		}
	}
	return true
}

func (l *HeaderLocator) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func countNonEmpty(row []models.Cell) int {
	n := 0
	for _, c := range row {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}

func isEmptyRow(row []models.Cell) bool {
	return countNonEmpty(row) == 0
}

func hasNonEmptyBelow(grid [][]models.Cell, i int) bool {
	for k := i + 1; k < len(grid); k++ {
		if !isEmptyRow(grid[k]) {
			return true
		}
	}
	return false
}
