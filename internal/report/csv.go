package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/tabular"
)

// IssueColumns is the header of the issues export.
var IssueColumns = []string{"Section", "Row", "Ref", "Code", "Kind", "Field", "Value", "Details"}

// Sections of the issues export.
const (
	SectionError   = "error"
	SectionWarning = "warning"
	SectionGap     = "gap"
	SectionTotal   = "total"
)

// IssueRows flattens a report into export rows in the order errors,
// warnings, gaps, requisite findings, totals.
func IssueRows(rep *core.Report) [][]string {
	if rep == nil {
		return nil
	}

	var rows [][]string
	for _, e := range rep.Errors {
		rows = append(rows, issueRow(SectionError, e))
	}
	for _, w := range rep.Warnings {
		rows = append(rows, issueRow(SectionWarning, w))
	}
	for _, g := range rep.CategoryGaps {
		rows = append(rows, []string{
			SectionGap, "", g.Category, "", "", string(core.FieldCategory), Credits(g.Gap),
			fmt.Sprintf("%s of %s credits", Credits(g.Actual), Credits(g.Required)),
		})
	}
	for _, f := range rep.PrereqFindings {
		rows = append(rows, []string{
			string(f.Kind), rowNumber(f.Row), f.Course, "", "", "", f.Missing, f.Reason,
		})
	}
	for _, ct := range rep.CategoryTotals {
		rows = append(rows, []string{
			SectionTotal, "", ct.Category, "", "", string(core.FieldCredits), Credits(ct.Credits), "",
		})
	}
	return rows
}

func issueRow(section string, i core.Issue) []string {
	return []string{
		section, rowNumber(i.Row), i.Ref(), i.Code, string(i.Kind), string(i.Field), i.Value, i.Message,
	}
}

func rowNumber(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// WriteIssuesCSV writes the issues export for a report.
func WriteIssuesCSV(w io.Writer, rep *core.Report) error {
	return tabular.WriteCSV(w, IssueColumns, IssueRows(rep))
}
