package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/JonMunkholm/advisor/internal/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV decodes delimited text. A UTF-8 or UTF-16 byte order mark is
// honoured and stripped; text that is not valid UTF-8 is read as
// Windows-1252, the usual encoding of spreadsheet exports. The delimiter is
// detected from the header line among comma, semicolon and tab.
func ReadCSV(r io.Reader) (core.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return core.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return core.Table{}, ErrEmptyFile
	}

	text, err := decodeText(raw)
	if err != nil {
		return core.Table{}, fmt.Errorf("encoding error: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return core.Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
	}
	return newTable(records)
}

// decodeText converts raw file bytes to UTF-8 without a byte order mark.
func decodeText(raw []byte) ([]byte, error) {
	fallback := unicode.UTF8.NewDecoder()
	if !utf8.Valid(bytes.TrimPrefix(raw, utf8BOM)) && !hasUTF16BOM(raw) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	return out, err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// sniffDelimiter picks the most frequent candidate delimiter on the first
// line, defaulting to comma.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}

	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// WriteCSV writes a header and rows as comma-separated text.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
