package workbook

import (
	"fmt"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/parsererror"

	"github.com/shakinm/xlsReader/xls"
)

// XLSReader reads legacy BIFF8 (.xls) workbooks.
type XLSReader struct {
	logger logging.Logger
}

// Read implements Reader.
func (r *XLSReader) Read(path string) (*Workbook, error) {
	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "xls workbook",
			Msg:            "cannot open workbook",
			Err:            err,
		}
	}

	wb := &Workbook{Path: path, Format: FormatXLS}
	for i := 0; i < book.GetNumberSheets(); i++ {
		sheet, err := book.GetSheet(i)
		if err != nil || sheet == nil {
			r.logger.Warn("Failed to read sheet, skipping",
				logging.F(logging.FieldFile, path), logging.F(logging.FieldSheet, i), logging.F(logging.FieldError, err))
			continue
		}

		var rows [][]string
		for _, row := range sheet.GetRows() {
			cols := row.GetCols()
			values := make([]string, len(cols))
			for j, col := range cols {
				values[j] = col.GetString()
			}
			rows = append(rows, values)
		}

		name := sheet.GetName()
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: gridFromStrings(rows)})
	}

	r.logger.Debug("Read xls workbook",
		logging.F(logging.FieldFile, path), logging.F(logging.FieldCount, len(wb.Sheets)))
	return wb, nil
}
