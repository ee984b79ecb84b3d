package core

import (
	"fmt"
	"strings"
)

// Schema is the resolved column layout of one table: which canonical fields
// were found and at which header position. It is computed once per table and
// threaded through every later step.
type Schema struct {
	index   map[Field]int
	headers map[Field]string

	// Warnings lists ambiguous headers (two headers resolving to one field).
	Warnings []string
	// Duplicates lists the ignored headers per field.
	Duplicates map[Field][]string
}

// ResolveColumns maps a header row onto the canonical fields of an alias map.
//
// Headers are compared case-insensitively after trimming and stripping
// punctuation. When two headers resolve to the same field the first one in
// header order wins and a warning is recorded. ResolveColumns never fails;
// unresolved fields are simply absent from the schema.
func ResolveColumns(header []string, aliases *AliasMap) Schema {
	s := Schema{
		index:      make(map[Field]int),
		headers:    make(map[Field]string),
		Duplicates: make(map[Field][]string),
	}
	if aliases == nil {
		return s
	}

	for pos, raw := range header {
		h := CleanCell(raw)
		field, ok := aliases.Lookup(h)
		if !ok {
			continue
		}

		if first, taken := s.headers[field]; taken {
			s.Duplicates[field] = append(s.Duplicates[field], h)
			s.Warnings = append(s.Warnings, fmt.Sprintf(
				"columns %q and %q both map to %s; using %q", first, h, field, first))
			continue
		}

		s.index[field] = pos
		s.headers[field] = h
	}

	return s
}

// Has reports whether the field was resolved.
func (s Schema) Has(f Field) bool {
	_, ok := s.index[f]
	return ok
}

// Header returns the actual header text a field resolved to.
func (s Schema) Header(f Field) (string, bool) {
	h, ok := s.headers[f]
	return h, ok
}

// Columns returns a copy of the field to header mapping.
func (s Schema) Columns() map[Field]string {
	out := make(map[Field]string, len(s.headers))
	for f, h := range s.headers {
		out[f] = h
	}
	return out
}

// Missing returns the fields among want that were not resolved, in order.
func (s Schema) Missing(want ...Field) []Field {
	var missing []Field
	for _, f := range want {
		if !s.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Value returns the cleaned cell for a field in a row.
// Absent fields and short rows read as "".
func (s Schema) Value(row []string, f Field) string {
	pos, ok := s.index[f]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// Record projects a row onto the resolved fields.
func (s Schema) Record(row []string) Record {
	rec := make(Record, len(s.index))
	for f := range s.index {
		rec[f] = s.Value(row, f)
	}
	return rec
}

// describeMissing formats missing fields with their accepted aliases, e.g.
// "credits (or Credit, Credit Hours, Hours)".
func describeMissing(missing []Field, aliases *AliasMap) string {
	parts := make([]string, 0, len(missing))
	for _, f := range missing {
		accepted := aliases.Aliases(f)
		if len(accepted) > 4 {
			accepted = accepted[:4]
		}
		if len(accepted) == 0 {
			parts = append(parts, string(f))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (or %s)", f, strings.Join(accepted, ", ")))
	}
	return strings.Join(parts, "; ")
}
