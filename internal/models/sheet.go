package models

// HeaderMethod names the strategy that located a sheet's header row.
type HeaderMethod string

const (
	HeaderNotFound HeaderMethod = "none"
	HeaderKeyword  HeaderMethod = "keyword"
	HeaderRelaxed  HeaderMethod = "relaxed"
	HeaderDensity  HeaderMethod = "density"
)

// SanitizeStats counts the rows a sanitizing pass removed or rewrote.
type SanitizeStats struct {
	Input           int `json:"input" yaml:"input"`
	Kept            int `json:"kept" yaml:"kept"`
	SummaryRows     int `json:"summary_rows" yaml:"summary_rows"`
	DuplicateHeader int `json:"duplicate_header" yaml:"duplicate_header"`
	BlankRows       int `json:"blank_rows" yaml:"blank_rows"`
	ZeroAmount      int `json:"zero_amount" yaml:"zero_amount"`
	UnparsedDates   int `json:"unparsed_dates" yaml:"unparsed_dates"`
	MaskedRows      int `json:"masked_rows" yaml:"masked_rows"`
}

// Dropped returns the number of rows removed.
func (s SanitizeStats) Dropped() int {
	return s.SummaryRows + s.DuplicateHeader + s.BlankRows + s.ZeroAmount
}

// ParsedSheet is the canonical view of one ledger sheet.
type ParsedSheet struct {
	Name         string            `json:"name" yaml:"name"`
	HeaderRow    int               `json:"header_row" yaml:"header_row"` // zero-based, -1 when not found
	HeaderMethod HeaderMethod      `json:"header_method" yaml:"header_method"`
	Headers      []string          `json:"headers" yaml:"headers"`
	Columns      SemanticColumnMap `json:"columns" yaml:"columns"`
	Rows         []LedgerRow       `json:"-" yaml:"-"`
	Transactions []Transaction     `json:"-" yaml:"-"`
	Stats        SanitizeStats     `json:"stats" yaml:"stats"`
}

// IsEmpty reports whether nothing usable was extracted.
func (p *ParsedSheet) IsEmpty() bool {
	return p == nil || len(p.Transactions) == 0
}
