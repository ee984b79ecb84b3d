// Package report renders validation reports and session history as
// plain-text notes and CSV exports.
//
// Rendering is deterministic: identical input and Meta produce identical
// output. No validation happens here.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/session"
	"github.com/dustin/go-humanize"
)

// TimestampLayout is the timestamp format used in note headers.
const TimestampLayout = "2006-01-02 15:04"

const rule = "----------------------------------------"

// Meta is caller-supplied context printed in note headers.
type Meta struct {
	Timestamp   time.Time
	Program     string
	CatalogYear string
	Source      string
}

func (m Meta) stamp() string {
	if m.Timestamp.IsZero() {
		return "-"
	}
	return m.Timestamp.Format(TimestampLayout)
}

// Item is one numbered entry of an advisor note.
type Item struct {
	Type    string
	Code    string
	Ref     string
	Details string
}

func (it Item) String() string {
	if it.Code != "" {
		return fmt.Sprintf("[%s] %s - %s: %s", it.Code, it.Type, it.Ref, it.Details)
	}
	return fmt.Sprintf("%s - %s: %s", it.Type, it.Ref, it.Details)
}

// Items flattens a report into note entries: errors, credit gaps,
// requisite findings, then warnings.
func Items(rep *core.Report) []Item {
	if rep == nil {
		return nil
	}

	items := make([]Item, 0, len(rep.Errors)+len(rep.CategoryGaps)+len(rep.PrereqFindings)+len(rep.Warnings))
	for _, e := range rep.Errors {
		items = append(items, Item{Type: "Error", Code: e.Code, Ref: e.Ref(), Details: e.Message})
	}
	for _, g := range rep.CategoryGaps {
		items = append(items, Item{
			Type: "Credit gap",
			Ref:  g.Category,
			Details: fmt.Sprintf("%s of %s credits, %s short",
				Credits(g.Actual), Credits(g.Required), Credits(g.Gap)),
		})
	}
	for _, f := range rep.PrereqFindings {
		items = append(items, Item{
			Type:    "Missing " + string(f.Kind),
			Ref:     f.Course,
			Details: fmt.Sprintf("%s %s", f.Missing, f.Reason),
		})
	}
	for _, w := range rep.Warnings {
		items = append(items, Item{Type: "Warning", Code: w.Code, Ref: w.Ref(), Details: w.Message})
	}
	return items
}

// CategoryRow is one line of the category table: planned credits and, for
// required categories that fall short, the requirement and gap.
type CategoryRow struct {
	Category string
	Credits  float64
	Required float64
	Gap      float64
}

// CategoryRows joins totals and gaps by normalized category name. Totals
// keep their order; required categories with no plan rows follow in
// requirement order.
func CategoryRows(rep *core.Report) []CategoryRow {
	if rep == nil {
		return nil
	}

	rows := make([]CategoryRow, 0, len(rep.CategoryTotals))
	pos := make(map[string]int, len(rep.CategoryTotals))
	for _, ct := range rep.CategoryTotals {
		pos[core.NormalizeKey(ct.Category)] = len(rows)
		rows = append(rows, CategoryRow{Category: ct.Category, Credits: ct.Credits})
	}

	for _, g := range rep.CategoryGaps {
		i, ok := pos[core.NormalizeKey(g.Category)]
		if !ok {
			i = len(rows)
			rows = append(rows, CategoryRow{Category: g.Category, Credits: g.Actual})
		}
		rows[i].Required = g.Required
		rows[i].Gap = g.Gap
	}
	return rows
}

// Credits formats a credit value with at most two decimals: 3, 4.5.
func Credits(f float64) string {
	return humanize.FtoaWithDigits(f, 2)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ValidationNote renders the advisor note for one validation report.
func ValidationNote(rep *core.Report, meta Meta) string {
	if rep == nil {
		rep = &core.Report{}
	}
	items := Items(rep)

	var b strings.Builder
	fmt.Fprintf(&b, "Advisor Assistant validation note (%s)\n", meta.stamp())
	fmt.Fprintf(&b, "Program: %s | Catalog: %s\n", orDash(meta.Program), orDash(meta.CatalogYear))
	if meta.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", meta.Source)
	}
	s := rep.Summary
	fmt.Fprintf(&b, "Rows: %s (%s valid) | Credits: %s | Completed: %s | Planned: %s\n",
		humanize.Comma(int64(s.Rows)), humanize.Comma(int64(s.ValidRows)), Credits(s.TotalCredits),
		humanize.Comma(int64(s.Completed)), humanize.Comma(int64(s.Planned)))
	fmt.Fprintf(&b, "Issue count: %s\n", humanize.Comma(int64(len(items))))
	b.WriteString(rule + "\n")

	if len(items) == 0 {
		b.WriteString("No issues detected.\n")
	}
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}

	if counts := rep.CountByKind(); len(counts) > 0 {
		b.WriteString("\nSummary by kind:\n")
		for _, c := range counts {
			fmt.Fprintf(&b, "- %s %s: %s\n", c.Code, c.Kind, humanize.Comma(int64(c.Count)))
		}
	}

	if len(rep.CategoryTotals) > 0 {
		b.WriteString("\nCategory totals:\n")
		for _, ct := range rep.CategoryTotals {
			fmt.Fprintf(&b, "- %s: %s\n", ct.Category, Credits(ct.Credits))
		}
	}

	return b.String()
}

// FAQLog renders the questions asked during a session.
func FAQLog(interactions []session.Interaction, meta Meta) string {
	answered := 0
	for _, in := range interactions {
		if in.Result.Found {
			answered++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Advisor Assistant FAQ log (%s)\n", meta.stamp())
	fmt.Fprintf(&b, "Questions asked: %s | Answered: %s\n",
		humanize.Comma(int64(len(interactions))), humanize.Comma(int64(answered)))
	b.WriteString(rule + "\n")

	if len(interactions) == 0 {
		b.WriteString("No questions asked.\n")
	}
	for i, in := range interactions {
		fmt.Fprintf(&b, "%d. [%s] Q: %s\n", i+1, in.AskedAt.Format("15:04"), in.Query)
		if in.Result.Found {
			fmt.Fprintf(&b, "   A: %s (%s, score %.2f)\n", in.Result.Answer, in.Result.Method, in.Result.Score)
			continue
		}
		b.WriteString("   No answer found.")
		if len(in.Result.Suggestions) > 0 {
			parts := make([]string, len(in.Result.Suggestions))
			for j, s := range in.Result.Suggestions {
				parts[j] = fmt.Sprintf("%s (%.2f)", s.Question, s.Score)
			}
			fmt.Fprintf(&b, " Closest: %s", strings.Join(parts, "; "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FullReport combines the latest validation note, the FAQ log and the
// advisor's notes. Sections with no content are left out; the result is ""
// when there is nothing to export.
func FullReport(snap session.Snapshot, meta Meta) string {
	var parts []string

	if run, ok := snap.LastRun(); ok {
		m := meta
		if m.Source == "" {
			m.Source = run.Source
		}
		parts = append(parts, strings.TrimRight(ValidationNote(&run.Report, m), "\n"))
	}
	if len(snap.Interactions) > 0 {
		parts = append(parts, strings.TrimRight(FAQLog(snap.Interactions, meta), "\n"))
	}
	if notes := strings.TrimSpace(snap.Notes); notes != "" {
		parts = append(parts, "Advisor Notes:\n"+notes)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}
