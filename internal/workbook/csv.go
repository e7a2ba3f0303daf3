package workbook

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/parsererror"

	"golang.org/x/net/html/charset"
)

// FallbackEncoding is used when a CSV file without an explicit encoding is
// not valid UTF-8. Korean accounting packages export CP949/EUC-KR.
const FallbackEncoding = "euc-kr"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads a delimited text export as a single-sheet workbook named
// after the file.
type CSVReader struct {
	logger    logging.Logger
	encoding  string
	delimiter rune
}

// Read implements Reader.
func (r *CSVReader) Read(path string) (*Workbook, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, err
	}

	rows, err := r.decode(data)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "delimited text",
			Msg:            "cannot decode CSV",
			Err:            err,
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	r.logger.Debug("Read CSV workbook",
		logging.F(logging.FieldFile, path), logging.F(logging.FieldCount, len(rows)))
	return &Workbook{
		Path:   path,
		Format: FormatCSV,
		Sheets: []Sheet{{Name: name, Grid: gridFromStrings(rows)}},
	}, nil
}

func (r *CSVReader) decode(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	encoding := r.encoding
	if encoding == "" && !utf8.Valid(data) {
		encoding = FallbackEncoding
		r.logger.Debug("Input is not valid UTF-8, decoding as " + FallbackEncoding)
	}

	var src io.Reader = bytes.NewReader(data)
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") && !strings.EqualFold(encoding, "utf8") {
		decoded, err := charset.NewReaderLabel(encoding, src)
		if err != nil {
			return nil, err
		}
		src = decoded
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	if r.delimiter != 0 {
		cr.Comma = r.delimiter
	}
	return cr.ReadAll()
}
