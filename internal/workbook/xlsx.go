package workbook

import (
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads Office Open XML workbooks with excelize. Cells are read
// raw so that dates arrive as Excel serial numbers instead of display text.
type XLSXReader struct {
	logger logging.Logger
}

// Read implements Reader.
func (r *XLSXReader) Read(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "xlsx workbook",
			Msg:            "cannot open workbook",
			Err:            err,
		}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("Failed to close workbook", logging.F(logging.FieldFile, path), logging.F(logging.FieldError, cerr))
		}
	}()

	wb := &Workbook{Path: path, Format: FormatXLSX}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			r.logger.WithError(err).Warn("Failed to read sheet, skipping",
				logging.F(logging.FieldFile, path), logging.F(logging.FieldSheet, name))
			continue
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: gridFromStrings(rows)})
	}

	r.logger.Debug("Read xlsx workbook",
		logging.F(logging.FieldFile, path), logging.F(logging.FieldCount, len(wb.Sheets)))
	return wb, nil
}
