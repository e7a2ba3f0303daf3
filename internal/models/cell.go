// Package models provides the data structures used throughout the application.
package models

import (
	"strconv"
	"strings"
	"time"
)

// CellKind identifies which variant of Cell is populated.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// String returns the kind name used in logs and reports.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value: text, number, date or empty.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// EmptyCell returns the empty cell.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// TextCell returns a text cell. Blank text collapses to an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// DateCell returns a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// CellFromRaw converts a raw string value as delivered by a workbook reader.
// Plain numerals become numbers; everything else stays text.
func CellFromRaw(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EmptyCell()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberCell(f)
	}
	return TextCell(raw)
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way it would appear in a CSV export.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// Float returns the numeric value of the cell. Text cells are parsed with
// ParseNumber so that "1,200,000" and "(500)" are understood.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		return ParseNumber(c.Text)
	default:
		return 0, false
	}
}
