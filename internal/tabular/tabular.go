// Package tabular decodes uploaded files into core.Table values.
//
// CSV and XLSX are supported. Files are read fully into memory; advising
// tables are small. Decoding problems are returned as errors wrapping one of
// the sentinel errors below so callers can map them to user messages.
package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/advisor/internal/core"
)

var (
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("empty file")
	// ErrNotTabular is returned when a file cannot be parsed into rows.
	ErrNotTabular = errors.New("not tabular")
	// ErrUnsupportedFormat is returned for file types other than CSV and XLSX.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format is a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks a format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Read decodes r in the given format.
func Read(r io.Reader, format Format) (core.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return core.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadBytes decodes an upload, choosing the format from its file name.
func ReadBytes(name string, data []byte) (core.Table, error) {
	format, err := FormatOf(name)
	if err != nil {
		return core.Table{}, err
	}
	return Read(bytes.NewReader(data), format)
}

// ReadFile decodes the file at path.
func ReadFile(path string) (core.Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return core.Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	t, err := Read(f, format)
	if err != nil {
		return core.Table{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// ReadOptional is ReadFile that treats a missing file as an absent table.
func ReadOptional(path string) (core.Table, bool, error) {
	if path == "" {
		return core.Table{}, false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return core.Table{}, false, nil
	}
	t, err := ReadFile(path)
	if err != nil {
		return core.Table{}, false, err
	}
	return t, true, nil
}

// newTable splits records into a trimmed header and data rows.
// Leading records with no content are skipped.
func newTable(records [][]string) (core.Table, error) {
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return core.Table{}, ErrEmptyFile
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return core.Table{Header: header, Rows: records[1:]}, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
