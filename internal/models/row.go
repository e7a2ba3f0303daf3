package models

// LedgerRow is one line of a ledger sheet keyed by the sheet's own column
// names. Column order is preserved so rows can be written back out in the
// order they were read.
type LedgerRow struct {
	// Index is the zero-based position of the row in the source grid.
	Index int

	keys  []string
	cells map[string]Cell
}

// NewLedgerRow creates an empty row for the given source index.
func NewLedgerRow(index int) LedgerRow {
	return LedgerRow{Index: index, cells: make(map[string]Cell)}
}

// Set stores a cell under the given column, appending the column to the key
// order the first time it is seen.
func (r *LedgerRow) Set(column string, c Cell) {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, ok := r.cells[column]; !ok {
		r.keys = append(r.keys, column)
	}
	r.cells[column] = c
}

// Get returns the cell stored under column, or an empty cell.
func (r LedgerRow) Get(column string) Cell {
	if column == "" || r.cells == nil {
		return EmptyCell()
	}
	c, ok := r.cells[column]
	if !ok {
		return EmptyCell()
	}
	return c
}

// Has reports whether the row carries the column.
func (r LedgerRow) Has(column string) bool {
	_, ok := r.cells[column]
	return ok
}

// Keys returns the column names in insertion order.
func (r LedgerRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns in the row.
func (r LedgerRow) Len() int {
	return len(r.keys)
}

// Text returns the string rendering of a column value.
func (r LedgerRow) Text(column string) string {
	return r.Get(column).String()
}

// Clone returns a deep copy so callers can rewrite cells without touching the
// original row.
func (r LedgerRow) Clone() LedgerRow {
	out := LedgerRow{
		Index: r.Index,
		keys:  make([]string, len(r.keys)),
		cells: make(map[string]Cell, len(r.cells)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.cells {
		out.cells[k] = v
	}
	return out
}

// SemanticColumnMap records which source column plays each semantic role.
// An empty string means the role could not be resolved.
type SemanticColumnMap struct {
	Date           string `json:"date,omitempty" yaml:"date,omitempty"`
	Debit          string `json:"debit,omitempty" yaml:"debit,omitempty"`
	Credit         string `json:"credit,omitempty" yaml:"credit,omitempty"`
	Vendor         string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Account        string `json:"account,omitempty" yaml:"account,omitempty"`
	Voucher        string `json:"voucher,omitempty" yaml:"voucher,omitempty"`
	Balance        string `json:"balance,omitempty" yaml:"balance,omitempty"`
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// HasDate reports whether date-dependent computations can run.
func (m SemanticColumnMap) HasDate() bool {
	return m.Date != ""
}

// Assigned returns the set of column names already bound to a role.
func (m SemanticColumnMap) Assigned() map[string]bool {
	out := make(map[string]bool)
	for _, c := range []string{m.Date, m.Debit, m.Credit, m.Vendor, m.Description, m.Account, m.Voucher, m.Balance, m.Classification} {
		if c != "" {
			out[c] = true
		}
	}
	return out
}
