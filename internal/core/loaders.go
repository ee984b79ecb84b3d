package core

// loaders.go turns the auxiliary tables (requirements, catalog, FAQ) into
// typed values. Like the plan validator they never fail outright: unusable
// rows are skipped and reported as issues, and a table whose required
// columns cannot be resolved yields a nil value plus one missing-column issue.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// describeValidation summarizes validator errors as "Field tag" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid row"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func aliasesFor(aliases AliasCatalog, kind string) *AliasMap {
	if m, ok := aliases.Kind(kind); ok {
		return m
	}
	return defaultAliases[kind]
}

func missingColumnIssue(kind string, missing []Field, m *AliasMap, header []string) Issue {
	return newIssue(0, KindMissingColumn, "", missing[0], "",
		fmt.Sprintf("%s table: required column not found: %s. Found columns: %s",
			kind, describeMissing(missing, m), strings.Join(header, ", ")))
}

// LoadRequirements reads a category requirement table (Category,
// RequiredCredits). Categories are unique; a repeated category is reported
// and the first row kept. An empty but well-formed table returns an empty,
// non-nil Requirements.
func LoadRequirements(t Table, aliases AliasCatalog) (Requirements, []Issue) {
	m := aliasesFor(aliases, TableRequirements)
	schema := ResolveColumns(t.Header, m)
	if missing := schema.Missing(FieldCategory, FieldRequiredCredits); len(missing) > 0 {
		return nil, []Issue{missingColumnIssue(TableRequirements, missing, m, t.Header)}
	}

	reqs := Requirements{}
	var issues []Issue
	seen := make(map[string]int)

	for i, row := range t.Rows {
		if isEmptyRow(row) {
			continue
		}
		index := i + 1
		category := schema.Value(row, FieldCategory)
		raw := schema.Value(row, FieldRequiredCredits)

		credits, err := ParseNumber(raw)
		if err != nil {
			issues = append(issues, newIssue(index, KindBadCredits, "", FieldRequiredCredits, raw,
				fmt.Sprintf("required credits %q for %q: %v", raw, category, err)))
			continue
		}

		req := CategoryRequirement{Category: category, RequiredCredits: credits}
		if err := validate.Struct(req); err != nil {
			issues = append(issues, newIssue(index, KindInvalidRow, "", "", category, describeValidation(err)))
			continue
		}

		key := NormalizeKey(category)
		if first, dup := seen[key]; dup {
			issues = append(issues, newIssue(index, KindInvalidRow, "", FieldCategory, category,
				fmt.Sprintf("category %q already defined on row %d", category, first)))
			continue
		}
		seen[key] = index
		reqs = append(reqs, req)
	}

	return reqs, issues
}

// LoadCatalog reads a course catalog (CourseID, Prerequisites,
// Corequisites). Requisite cells hold course ids separated by commas,
// semicolons or pipes. Repeated courses are merged.
func LoadCatalog(t Table, aliases AliasCatalog) (Catalog, []Issue) {
	m := aliasesFor(aliases, TableCatalog)
	schema := ResolveColumns(t.Header, m)
	if missing := schema.Missing(FieldCourseID); len(missing) > 0 {
		return nil, []Issue{missingColumnIssue(TableCatalog, missing, m, t.Header)}
	}

	cat := Catalog{}
	var issues []Issue

	for i, row := range t.Rows {
		if isEmptyRow(row) {
			continue
		}
		entry := CatalogEntry{
			CourseID:      NormalizeCourseID(schema.Value(row, FieldCourseID)),
			Title:         schema.Value(row, FieldTitle),
			Prerequisites: normalizeIDs(splitList(schema.Value(row, FieldPrerequisites))),
			Corequisites:  normalizeIDs(splitList(schema.Value(row, FieldCorequisites))),
		}
		if err := validate.Struct(entry); err != nil {
			issues = append(issues, newIssue(i+1, KindInvalidRow, "", FieldCourseID, entry.CourseID, describeValidation(err)))
			continue
		}
		cat = cat.merge(Catalog{entry.CourseID: entry})
	}

	return cat, issues
}

// LoadFAQ reads an FAQ table (Question, Answer, optional Tags). Tags are
// split on commas or semicolons and lowercased. Rows missing a question or
// answer are reported and skipped.
func LoadFAQ(t Table, aliases AliasCatalog) ([]FAQEntry, []Issue) {
	m := aliasesFor(aliases, TableFAQ)
	schema := ResolveColumns(t.Header, m)
	if missing := schema.Missing(FieldQuestion, FieldAnswer); len(missing) > 0 {
		return nil, []Issue{missingColumnIssue(TableFAQ, missing, m, t.Header)}
	}

	entries := []FAQEntry{}
	var issues []Issue

	for i, row := range t.Rows {
		if isEmptyRow(row) {
			continue
		}
		entry := FAQEntry{
			Question: schema.Value(row, FieldQuestion),
			Answer:   schema.Value(row, FieldAnswer),
		}
		for _, tag := range splitList(schema.Value(row, FieldTags)) {
			entry.Tags = append(entry.Tags, strings.ToLower(tag))
		}
		if err := validate.Struct(entry); err != nil {
			issues = append(issues, newIssue(i+1, KindInvalidRow, "", "", entry.Question, describeValidation(err)))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, issues
}
