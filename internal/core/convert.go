package core

// convert.go turns raw cell text into values the engines can compare.
//
// Uploaded spreadsheets are messy:
//   - Excel formula prefixes (="3") and stray quotes around values
//   - Thousands separators and accounting negatives "(3)" in numeric columns
//   - Accented or oddly punctuated headers ("Crédit-Hours", "CR.")
//   - Course ids typed with inconsistent spacing and case ("anat  1000")
//
// Numbers are parsed through pgtype.Numeric so the accepted syntax matches the
// rest of the toolchain (integers, decimals, scientific notation).

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// numericRegex validates that a string is a plain decimal number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var (
	// ErrBlankNumber is returned by ParseNumber for empty input.
	ErrBlankNumber = errors.New("value is blank")
	// ErrNotNumeric is returned by ParseNumber for text that is not a number.
	ErrNotNumeric = errors.New("value is not numeric")
)

// CleanCell removes common spreadsheet artifacts from a cell value:
//   - Trims whitespace
//   - Removes Excel formula prefix (="...")
//   - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// ToNumeric converts a string to pgtype.Numeric.
// Handles thousands separators and accounting format (parentheses for negative).
// Returns an invalid Numeric for empty or malformed input.
func ToNumeric(s string) pgtype.Numeric {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ParseNumber parses a cell as a float64.
// Returns ErrBlankNumber for empty cells and ErrNotNumeric for anything else
// that is not a finite decimal number.
func ParseNumber(s string) (float64, error) {
	if CleanCell(s) == "" {
		return 0, ErrBlankNumber
	}

	n := ToNumeric(s)
	if !n.Valid {
		return 0, ErrNotNumeric
	}

	f, err := n.Float64Value()
	if err != nil || !f.Valid || math.IsInf(f.Float64, 0) || math.IsNaN(f.Float64) {
		return 0, ErrNotNumeric
	}
	return f.Float64, nil
}

// foldText lowercases s and strips combining marks ("Crédit" -> "credit").
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// wordTokens splits folded text into lowercase alphanumeric tokens.
// Apostrophes are dropped inside words so "don't" becomes "dont".
func wordTokens(s string) []string {
	s = strings.ReplaceAll(foldText(s), "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NormalizeKey normalizes a header or alias for comparison: folded,
// lowercased alphanumeric tokens joined by single spaces.
// "  Credit-Hours " and "credit hours" normalize to the same key.
func NormalizeKey(s string) string {
	return strings.Join(wordTokens(s), " ")
}

// compactKey is NormalizeKey without separators, so "Course ID" matches "CourseID".
func compactKey(s string) string {
	return strings.Join(wordTokens(s), "")
}

// NormalizeCourseID canonicalizes a course identifier for comparison:
// uppercased with runs of whitespace collapsed ("anat  1000" -> "ANAT 1000").
func NormalizeCourseID(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(CleanCell(s)), " "))
}

// splitList splits a multi-value cell on commas, semicolons or pipes,
// trimming and dropping empty parts.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if CleanCell(cell) != "" {
			return false
		}
	}
	return true
}
