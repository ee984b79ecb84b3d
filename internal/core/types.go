package core

import (
	"sort"
	"strconv"
	"strings"
)

// Table is a parsed tabular input: a header row followed by data rows.
// Rows may be ragged; missing trailing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	for _, row := range t.Rows {
		if !isEmptyRow(row) {
			return false
		}
	}
	return true
}

// Field is a canonical column name, independent of the header text used in an upload.
type Field string

const (
	FieldCourseID      Field = "course_id"
	FieldTitle         Field = "title"
	FieldCredits       Field = "credits"
	FieldCategory      Field = "category"
	FieldStatus        Field = "status"
	FieldDays          Field = "days"
	FieldStart         Field = "start"
	FieldEnd           Field = "end"
	FieldTerm          Field = "term"
	FieldPrerequisites Field = "prerequisites"
	FieldCorequisites  Field = "corequisites"

	FieldRequiredCredits Field = "required_credits"

	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer"
	FieldTags     Field = "tags"
)

// Record is one row keyed by canonical field. Only resolved fields are present.
type Record map[Field]string

// Get returns the trimmed value for a field, or "" when the field is absent.
func (r Record) Get(f Field) string {
	return r[f]
}

// Status is the lifecycle state of a plan row.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusCompleted Status = "Completed"
	StatusUnknown   Status = "Unknown"
)

// ParseStatus maps free text to a Status. Matching is case-insensitive;
// anything outside the two known values is StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planned":
		return StatusPlanned
	case "completed":
		return StatusCompleted
	default:
		return StatusUnknown
	}
}

// IssueKind classifies a validation issue.
type IssueKind string

const (
	KindMissingColumn    IssueKind = "missing_column"
	KindMissingCredits   IssueKind = "missing_credits"
	KindBadCredits       IssueKind = "bad_credits"
	KindNegativeCredits  IssueKind = "negative_credits"
	KindBlankCategory    IssueKind = "blank_category"
	KindZeroCredits      IssueKind = "zero_credits"
	KindDuplicate        IssueKind = "duplicate"
	KindUnmappedCategory IssueKind = "unmapped_category"
	KindAmbiguousColumn  IssueKind = "ambiguous_column"
	KindLowLoad          IssueKind = "low_load"
	KindTimeConflict     IssueKind = "time_conflict"
	KindInvalidRow       IssueKind = "invalid_row"
)

// issueCodes gives every kind a stable support code.
var issueCodes = map[IssueKind]string{
	KindMissingColumn:    "VAL001",
	KindMissingCredits:   "VAL002",
	KindBadCredits:       "VAL003",
	KindNegativeCredits:  "VAL004",
	KindBlankCategory:    "VAL005",
	KindInvalidRow:       "VAL006",
	KindZeroCredits:      "WARN001",
	KindDuplicate:        "WARN002",
	KindUnmappedCategory: "WARN003",
	KindAmbiguousColumn:  "WARN004",
	KindLowLoad:          "WARN005",
	KindTimeConflict:     "WARN006",
}

// Code returns the support code for the kind.
func (k IssueKind) Code() string {
	if c, ok := issueCodes[k]; ok {
		return c
	}
	return "ERR000"
}

// Issue is one error or warning produced while validating a table.
type Issue struct {
	Row     int       `json:"row"` // 1-based data row; 0 for table-level issues
	Kind    IssueKind `json:"kind"`
	Code    string    `json:"code"`
	Course  string    `json:"course,omitempty"`
	Field   Field     `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Message string    `json:"message"`
}

func newIssue(row int, kind IssueKind, course string, field Field, value, message string) Issue {
	return Issue{
		Row:     row,
		Kind:    kind,
		Code:    kind.Code(),
		Course:  course,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Ref returns a human-readable row reference: the course id when known,
// "row N" otherwise, and "(table)" for table-level issues.
func (i Issue) Ref() string {
	switch {
	case i.Course != "":
		return i.Course
	case i.Row > 0:
		return "row " + strconv.Itoa(i.Row)
	default:
		return "(table)"
	}
}

// CategoryTotal is the summed credits for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Credits  float64 `json:"credits"`
}

// CategoryGap is a positive shortfall between required and actual credits.
type CategoryGap struct {
	Category string  `json:"category"`
	Required float64 `json:"required"`
	Actual   float64 `json:"actual"`
	Gap      float64 `json:"gap"`
}

// RequisiteKind distinguishes prerequisite from corequisite findings.
type RequisiteKind string

const (
	Prerequisite RequisiteKind = "prerequisite"
	Corequisite  RequisiteKind = "corequisite"
)

// PrereqFinding is an unmet prerequisite or corequisite for a planned course.
type PrereqFinding struct {
	Row     int           `json:"row"`
	Course  string        `json:"course"`
	Missing string        `json:"missing"`
	Kind    RequisiteKind `json:"kind"`
	Reason  string        `json:"reason"`
}

// ScheduleConflict is a pair of rows meeting at overlapping times in the same term.
type ScheduleConflict struct {
	Term    string `json:"term,omitempty"`
	Day     string `json:"day"`
	RowA    int    `json:"rowA"`
	RowB    int    `json:"rowB"`
	CourseA string `json:"courseA,omitempty"`
	CourseB string `json:"courseB,omitempty"`
}

// PlanSummary holds overview counts for a validated plan.
type PlanSummary struct {
	Rows         int     `json:"rows"`
	ValidRows    int     `json:"validRows"`
	TotalCredits float64 `json:"totalCredits"`
	Completed    int     `json:"completed"`
	Planned      int     `json:"planned"`
}

// Report is the structured result of validating a plan.
type Report struct {
	Errors         []Issue            `json:"errors"`
	Warnings       []Issue            `json:"warnings"`
	CategoryTotals []CategoryTotal    `json:"categoryTotals"`
	CategoryGaps   []CategoryGap      `json:"categoryGaps,omitempty"`
	PrereqFindings []PrereqFinding    `json:"prereqFindings,omitempty"`
	Conflicts      []ScheduleConflict `json:"conflicts,omitempty"`
	Summary        PlanSummary        `json:"summary"`
	Columns        map[Field]string   `json:"columns,omitempty"`

	// RequirementsChecked is true when a requirement table was supplied.
	RequirementsChecked bool `json:"requirementsChecked"`
}

// KindCount is the number of errors and warnings of one kind.
type KindCount struct {
	Code  string    `json:"code"`
	Kind  IssueKind `json:"kind"`
	Count int       `json:"count"`
}

// CountByKind groups errors and warnings by kind, ordered by code then kind.
func (r *Report) CountByKind() []KindCount {
	pos := make(map[IssueKind]int)
	var counts []KindCount
	for _, list := range [][]Issue{r.Errors, r.Warnings} {
		for _, is := range list {
			i, ok := pos[is.Kind]
			if !ok {
				i = len(counts)
				pos[is.Kind] = i
				counts = append(counts, KindCount{Code: is.Code, Kind: is.Kind})
			}
			counts[i].Count++
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Code != counts[j].Code {
			return counts[i].Code < counts[j].Code
		}
		return counts[i].Kind < counts[j].Kind
	})
	return counts
}

// CategoryRequirement is one row of the requirement table.
type CategoryRequirement struct {
	Category        string  `json:"category" validate:"required"`
	RequiredCredits float64 `json:"requiredCredits" validate:"gte=0"`
}

// Requirements is the ordered requirement table. A nil value means no table
// was supplied; an empty non-nil value means an empty table was supplied.
type Requirements []CategoryRequirement

// CatalogEntry lists the requisites of one course.
type CatalogEntry struct {
	CourseID      string   `json:"courseId" validate:"required"`
	Title         string   `json:"title,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty" validate:"dive,required"`
	Corequisites  []string `json:"corequisites,omitempty" validate:"dive,required"`
}

// Catalog maps a normalized course id to its requisites.
type Catalog map[string]CatalogEntry

// FAQEntry is one question/answer pair used as a lookup target.
type FAQEntry struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Tags     []string `json:"tags,omitempty"`
}

// MatchMethod records which path produced a match.
type MatchMethod string

const (
	MatchExact MatchMethod = "exact"
	MatchTag   MatchMethod = "tag"
	MatchFuzzy MatchMethod = "fuzzy"
	MatchNone  MatchMethod = "none"
)

// Suggestion is a scored candidate question.
type Suggestion struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// MatchResult is the outcome of an FAQ lookup. Found is false for the
// not-found result; Answer is then empty and must not be shown as an answer.
type MatchResult struct {
	Found           bool         `json:"found"`
	Answer          string       `json:"answer,omitempty"`
	Score           float64      `json:"score"`
	MatchedQuestion string       `json:"matchedQuestion,omitempty"`
	Method          MatchMethod  `json:"method"`
	Suggestions     []Suggestion `json:"suggestions,omitempty"`
}
