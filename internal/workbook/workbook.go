// Package workbook decodes spreadsheet files (xlsx, legacy xls and CSV) into
// grids of typed cells, one grid per sheet. It knows nothing about ledgers.
package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/parsererror"
)

// Format identifies a supported workbook file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// Sheet is one named grid of cells. Row and column positions are zero-based.
type Sheet struct {
	Name string
	Grid [][]models.Cell
}

// Workbook is a decoded file with its sheets in workbook order.
type Workbook struct {
	Path   string
	Format Format
	Sheets []Sheet
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames lists sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Reader decodes a file on disk into a Workbook.
type Reader interface {
	Read(path string) (*Workbook, error)
}

// Options tune the readers. Encoding and Delimiter only apply to CSV input;
// an empty Encoding means UTF-8 with EUC-KR fallback for invalid UTF-8.
type Options struct {
	Encoding  string
	Delimiter rune
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%s: %w", filepath.Base(path), parsererror.ErrUnsupportedFormat)
	}
}

// IsSupported reports whether path has a readable workbook extension.
func IsSupported(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}

// NewReader returns the reader for a format.
func NewReader(format Format, logger logging.Logger, opts Options) (Reader, error) {
	logger = logging.OrDefault(logger)
	switch format {
	case FormatXLSX:
		return &XLSXReader{logger: logger}, nil
	case FormatXLS:
		return &XLSReader{logger: logger}, nil
	case FormatCSV:
		return &CSVReader{logger: logger, encoding: opts.Encoding, delimiter: opts.Delimiter}, nil
	default:
		return nil, fmt.Errorf("reader for %q: %w", format, parsererror.ErrUnsupportedFormat)
	}
}

// Open detects the format of path and reads it.
func Open(path string, logger logging.Logger, opts Options) (*Workbook, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(format, logger, opts)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// gridFromStrings converts raw string rows into cells. Plain numerals become
// number cells; trailing empty cells are kept so row widths match the source.
func gridFromStrings(rows [][]string) [][]models.Cell {
	grid := make([][]models.Cell, len(rows))
	for i, row := range rows {
		cells := make([]models.Cell, len(row))
		for j, v := range row {
			cells[j] = models.CellFromRaw(v)
		}
		grid[i] = cells
	}
	return grid
}
