// Package ledgerparser turns raw general-ledger sheet grids into canonical
// rows and transactions. It locates the header row, resolves which columns
// carry the date, amounts, account and counterparty, and strips summary and
// filler rows.
package ledgerparser

import (
	"fmt"
	"time"

	"fjacquet/gl-audit/internal/common"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/parser"
	"fjacquet/gl-audit/internal/parsererror"
)

// Parser implements parser.FullParser for ledger sheets.
type Parser struct {
	parser.BaseParser
	dict      *keywords.Dictionary
	scanRows  int
	lookahead int
	now       func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithDictionary replaces the built-in keyword dictionary.
func WithDictionary(dict *keywords.Dictionary) Option {
	return func(p *Parser) {
		if dict != nil {
			p.dict = dict
		}
	}
}

// WithScanRows sets how many leading rows are searched for a header.
func WithScanRows(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.scanRows = n
		}
	}
}

// WithLookahead sets how many rows below a header may confirm it.
func WithLookahead(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.lookahead = n
		}
	}
}

// WithClock sets the clock used to complete year-less dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewParser creates a ledger parser.
func NewParser(logger logging.Logger, opts ...Option) *Parser {
	p := &Parser{
		BaseParser: parser.NewBaseParser(logger),
		dict:       keywords.Default(),
		scanRows:   DefaultScanRows,
		lookahead:  DefaultLookaheadRows,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dictionary returns the keyword dictionary in use.
func (p *Parser) Dictionary() *keywords.Dictionary {
	return p.dict
}

// ParseSheet locates, resolves and sanitizes one sheet. A sheet whose header
// cannot be found is returned empty with HeaderRow -1; only a nil grid is an
// error.
func (p *Parser) ParseSheet(name string, grid [][]models.Cell) (*models.ParsedSheet, error) {
	if grid == nil {
		return nil, fmt.Errorf("sheet %q: %w", name, parsererror.ErrNoData)
	}
	logger := p.GetLogger().WithField(logging.FieldSheet, name)

	sheet := &models.ParsedSheet{Name: name, HeaderRow: -1, HeaderMethod: models.HeaderNotFound}

	locator := &HeaderLocator{Dict: p.dict, ScanRows: p.scanRows, Lookahead: p.lookahead, Now: p.now}
	headerRow, method := locator.Locate(grid)
	if headerRow < 0 {
		logger.Warn("Header row not found, sheet skipped", logging.F(logging.FieldCount, len(grid)))
		return sheet, nil
	}
	sheet.HeaderRow = headerRow
	sheet.HeaderMethod = method

	sheet.Headers = HeaderNames(grid[headerRow], GridWidth(grid, headerRow))
	rows := BuildRows(grid, headerRow, sheet.Headers)

	resolver := NewColumnResolver(p.dict, logger)
	sheet.Columns = resolver.Resolve(sheet.Headers, withoutSummaryRows(rows))

	defaultAccount := ""
	if sheet.Columns.Account == "" {
		defaultAccount = common.ExtractAccountFromSheetName(name).Name
	}

	sanitizer := &Sanitizer{DefaultAccount: defaultAccount, Now: p.now}
	sheet.Rows, sheet.Stats = sanitizer.Sanitize(rows, sheet.Columns)
	sheet.Transactions = ToTransactions(sheet.Rows, sheet.Columns, defaultAccount)

	logger.Info("Parsed ledger sheet",
		logging.F(logging.FieldHeaderRow, headerRow),
		logging.F(logging.FieldMethod, string(method)),
		logging.F("rows_kept", sheet.Stats.Kept),
		logging.F("rows_dropped", sheet.Stats.Dropped()),
		logging.F(logging.FieldCount, len(sheet.Transactions)))
	if !sheet.Columns.HasDate() {
		logger.Warn("No date column resolved, date-based analysis will be skipped")
	}

	return sheet, nil
}

func withoutSummaryRows(rows []models.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, 0, len(rows))
	for _, r := range rows {
		if !IsSummaryRow(r) {
			out = append(out, r)
		}
	}
	return out
}

var _ parser.FullParser = (*Parser)(nil)
