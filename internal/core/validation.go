package core

// validation.go checks a student plan against credit and category rules.
//
// Validation happens in a fixed order:
//  1. Header resolution: credits and category must resolve, otherwise the run
//     stops with a single missing-column error
//  2. Row checks: credits must be a non-negative number, category non-blank
//  3. Duplicate detection over the rows that passed step 2
//  4. Category totals, requirement gaps and load checks
//  5. Requisite and meeting-time checks when the data supports them
//
// Rows that fail step 2 are reported with their 1-based position and left out
// of every total. Nothing in this file returns an error: every problem is an
// Issue in the Report.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TermLess reports whether term a comes strictly before term b.
type TermLess func(a, b string) bool

// LexicalTermLess orders terms by plain string comparison.
func LexicalTermLess(a, b string) bool {
	return a < b
}

// creditEpsilon absorbs float noise when comparing credit sums.
const creditEpsilon = 1e-9

// ValidatorConfig configures a PlanValidator. The zero value uses the
// embedded plan aliases, lexical term ordering and no load check.
type ValidatorConfig struct {
	Aliases         *AliasMap
	TermLess        TermLess
	MinTotalCredits float64
}

// PlanValidator validates plans. It holds only configuration and is safe to
// reuse across calls.
type PlanValidator struct {
	aliases  *AliasMap
	termLess TermLess
	minTotal float64
}

// NewPlanValidator creates a validator, filling unset config with defaults.
func NewPlanValidator(cfg ValidatorConfig) *PlanValidator {
	v := &PlanValidator{
		aliases:  cfg.Aliases,
		termLess: cfg.TermLess,
		minTotal: cfg.MinTotalCredits,
	}
	if v.aliases == nil {
		v.aliases = DefaultAliases().Plan()
	}
	if v.termLess == nil {
		v.termLess = LexicalTermLess
	}
	return v
}

// Validate checks a plan with the default configuration.
// A nil reqs means no requirement table was supplied.
func Validate(plan Table, reqs Requirements) *Report {
	return NewPlanValidator(ValidatorConfig{}).Validate(plan, reqs, nil)
}

// planRow is a non-blank plan row after projection onto canonical fields.
type planRow struct {
	index    int // 1-based data row position
	rec      Record
	course   string // as written
	courseID string // normalized
	term     string
	status   Status
	credits  float64
	category string
	valid    bool
}

// Validate checks plan against reqs and catalog. Either may be nil.
func (v *PlanValidator) Validate(plan Table, reqs Requirements, catalog Catalog) *Report {
	rep := &Report{
		Errors:              []Issue{},
		Warnings:            []Issue{},
		CategoryTotals:      []CategoryTotal{},
		RequirementsChecked: reqs != nil,
	}
	if plan.Empty() {
		return rep
	}

	schema := ResolveColumns(plan.Header, v.aliases)
	rep.Columns = schema.Columns()
	for _, w := range schema.Warnings {
		rep.Warnings = append(rep.Warnings, newIssue(0, KindAmbiguousColumn, "", "", "", w))
	}

	if missing := schema.Missing(FieldCredits, FieldCategory); len(missing) > 0 {
		rep.Errors = append(rep.Errors, newIssue(0, KindMissingColumn, "", missing[0], "",
			fmt.Sprintf("required column not found: %s. Found columns: %s",
				describeMissing(missing, v.aliases), strings.Join(plan.Header, ", "))))
		return rep
	}

	rows := v.checkRows(plan, schema, rep)
	valid := make([]planRow, 0, len(rows))
	for _, r := range rows {
		if r.valid {
			valid = append(valid, r)
		}
	}

	rep.Warnings = append(rep.Warnings, checkDuplicates(valid, schema)...)
	rep.CategoryTotals = sumCategories(valid)
	rep.Summary = summarize(rows, valid)

	if reqs != nil {
		gaps, unmapped := compareRequirements(rep.CategoryTotals, reqs, valid)
		rep.CategoryGaps = gaps
		rep.Warnings = append(rep.Warnings, unmapped...)
	}

	if v.minTotal > 0 && rep.Summary.TotalCredits+creditEpsilon < v.minTotal {
		rep.Warnings = append(rep.Warnings, newIssue(0, KindLowLoad, "", FieldCredits,
			formatCredits(rep.Summary.TotalCredits),
			fmt.Sprintf("total credits %s is below the minimum of %s",
				formatCredits(rep.Summary.TotalCredits), formatCredits(v.minTotal))))
	}

	merged := catalog.merge(planCatalog(rows, schema))
	if len(merged) > 0 {
		rep.PrereqFindings = checkRequisites(rows, merged, v.termLess)
	}

	if schema.Has(FieldDays) && schema.Has(FieldStart) && schema.Has(FieldEnd) {
		rep.Conflicts = findConflicts(rows)
		for _, c := range rep.Conflicts {
			rep.Warnings = append(rep.Warnings, newIssue(c.RowB, KindTimeConflict, c.CourseB, FieldDays, c.Day,
				fmt.Sprintf("meets at the same time as %s on %s", conflictRef(c.CourseA, c.RowA), dayName(c.Day))))
		}
	}

	return rep
}

// checkRows runs the structural checks on every non-blank row, appending
// errors and zero-credit warnings to rep.
func (v *PlanValidator) checkRows(plan Table, schema Schema, rep *Report) []planRow {
	rows := make([]planRow, 0, len(plan.Rows))

	for i, raw := range plan.Rows {
		if isEmptyRow(raw) {
			continue
		}

		rec := schema.Record(raw)
		r := planRow{
			index:    i + 1,
			rec:      rec,
			course:   rec.Get(FieldCourseID),
			courseID: NormalizeCourseID(rec.Get(FieldCourseID)),
			term:     rec.Get(FieldTerm),
			status:   ParseStatus(rec.Get(FieldStatus)),
			category: rec.Get(FieldCategory),
			valid:    true,
		}

		rawCredits := rec.Get(FieldCredits)
		credits, err := ParseNumber(rawCredits)
		switch {
		case errors.Is(err, ErrBlankNumber):
			r.valid = false
			rep.Errors = append(rep.Errors, newIssue(r.index, KindMissingCredits, r.course, FieldCredits, "",
				"credits are blank"))
		case err != nil:
			r.valid = false
			rep.Errors = append(rep.Errors, newIssue(r.index, KindBadCredits, r.course, FieldCredits, rawCredits,
				fmt.Sprintf("credits %q are not numeric", rawCredits)))
		case credits < 0:
			r.valid = false
			rep.Errors = append(rep.Errors, newIssue(r.index, KindNegativeCredits, r.course, FieldCredits, rawCredits,
				fmt.Sprintf("credits %s are negative", rawCredits)))
		}

		if r.category == "" {
			r.valid = false
			rep.Errors = append(rep.Errors, newIssue(r.index, KindBlankCategory, r.course, FieldCategory, "",
				"category is blank"))
		}

		if r.valid {
			r.credits = credits
			if credits == 0 {
				rep.Warnings = append(rep.Warnings, newIssue(r.index, KindZeroCredits, r.course, FieldCredits, rawCredits,
					"credits are zero"))
			}
		}

		rows = append(rows, r)
	}

	return rows
}

// checkDuplicates flags the second and later occurrence of a row key.
//
// Rows with a course id are keyed by course id plus term; when the plan has a
// term column the term must be non-blank for the row to take part. Rows
// without a course id fall back to category, credits and term.
func checkDuplicates(rows []planRow, schema Schema) []Issue {
	var warnings []Issue
	seen := make(map[string]planRow)
	hasTerm := schema.Has(FieldTerm)

	for _, r := range rows {
		var key string
		if r.courseID != "" {
			if hasTerm && r.term == "" {
				continue
			}
			key = "id\x00" + r.courseID + "\x00" + NormalizeKey(r.term)
		} else {
			key = "row\x00" + NormalizeKey(r.category) + "\x00" + formatCredits(r.credits) + "\x00" + NormalizeKey(r.term)
		}

		first, dup := seen[key]
		if !dup {
			seen[key] = r
			continue
		}

		what := "same category, credits and term"
		if r.courseID != "" {
			what = "same course and term"
		}
		warnings = append(warnings, newIssue(r.index, KindDuplicate, r.course, FieldCourseID, r.course,
			fmt.Sprintf("possible duplicate of row %d (%s)", first.index, what)))
	}

	return warnings
}

// sumCategories totals credits per category in first-seen order. Categories
// that differ only in case or spacing share one total under the first spelling.
func sumCategories(rows []planRow) []CategoryTotal {
	totals := []CategoryTotal{}
	pos := make(map[string]int)

	for _, r := range rows {
		key := NormalizeKey(r.category)
		i, ok := pos[key]
		if !ok {
			i = len(totals)
			pos[key] = i
			totals = append(totals, CategoryTotal{Category: r.category})
		}
		totals[i].Credits += r.credits
	}

	return totals
}

// compareRequirements computes positive gaps in requirement order and one
// warning per plan category missing from the requirement table.
func compareRequirements(totals []CategoryTotal, reqs Requirements, rows []planRow) ([]CategoryGap, []Issue) {
	actual := make(map[string]float64, len(totals))
	for _, t := range totals {
		actual[NormalizeKey(t.Category)] = t.Credits
	}

	var gaps []CategoryGap
	required := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		key := NormalizeKey(req.Category)
		required[key] = true

		have := actual[key]
		if gap := req.RequiredCredits - have; gap > creditEpsilon {
			gaps = append(gaps, CategoryGap{
				Category: req.Category,
				Required: req.RequiredCredits,
				Actual:   have,
				Gap:      roundCredits(gap),
			})
		}
	}

	firstRow := make(map[string]planRow)
	for _, r := range rows {
		key := NormalizeKey(r.category)
		if _, ok := firstRow[key]; !ok {
			firstRow[key] = r
		}
	}

	var warnings []Issue
	for _, t := range totals {
		key := NormalizeKey(t.Category)
		if required[key] {
			continue
		}
		r := firstRow[key]
		warnings = append(warnings, newIssue(r.index, KindUnmappedCategory, r.course, FieldCategory, t.Category,
			fmt.Sprintf("category %q is not in the requirement table", t.Category)))
	}

	return gaps, warnings
}

func summarize(rows, valid []planRow) PlanSummary {
	s := PlanSummary{Rows: len(rows), ValidRows: len(valid)}
	for _, r := range valid {
		s.TotalCredits += r.credits
	}
	for _, r := range rows {
		switch r.status {
		case StatusCompleted:
			s.Completed++
		case StatusPlanned:
			s.Planned++
		}
	}
	return s
}

// roundCredits trims binary noise so 4 - 0.1 - 0.2 reads as 3.7.
func roundCredits(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// formatCredits renders a credit value without trailing zeros.
func formatCredits(f float64) string {
	return strconv.FormatFloat(roundCredits(f), 'f', -1, 64)
}

func conflictRef(course string, row int) string {
	if course != "" {
		return course
	}
	return "row " + strconv.Itoa(row)
}
