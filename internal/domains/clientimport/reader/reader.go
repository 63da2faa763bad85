package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
)

const utf8BOM = "\ufeff"

// Read parses an uploaded spreadsheet into raw rows keyed by header.
// The first row is the header; blank rows are dropped.
func Read(fileName string, r io.Reader) ([]model.RawRow, error) {
	switch pipeline.Extension(fileName) {
	case pipeline.ExtCSV:
		return ReadCSV(r)
	case pipeline.ExtXLSX:
		return ReadXLSX(r)
	default:
		return nil, model.ErrInvalidExtension
	}
}

// ReadCSV reads comma or semicolon separated text. Input that is not valid
// UTF-8 is decoded as Windows-1252, the encoding of spreadsheet exports on
// Portuguese Windows installs.
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.Unreadable(err)
	}

	if !utf8.Valid(data) {
		data, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, model.Unreadable(fmt.Errorf("decode windows-1252: %w", err))
		}
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, model.Unreadable(fmt.Errorf("parse csv: %w", err))
	}

	return toRawRows(records), nil
}

// ReadXLSX reads the first worksheet. Cells are taken raw, so dates arrive as
// Excel serial numbers.
func ReadXLSX(r io.Reader) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, model.Unreadable(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, model.Unreadable(fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}

	return toRawRows(rows), nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// toRawRows keys each data row by the header row. Every non-empty header is
// present on every row, so format detection sees the column set even when a
// cell is blank.
func toRawRows(records [][]string) []model.RawRow {
	if len(records) == 0 {
		return nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]model.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}

		row := make(model.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			if i < len(rec) {
				row[h] = norm.NFC.String(strings.TrimSpace(rec[i]))
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, utf8BOM)
	return norm.NFC.String(strings.TrimSpace(h))
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
