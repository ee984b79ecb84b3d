package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// merge returns a catalog holding c overlaid with extra. Requisite lists for
// the same course are unioned, keeping first-seen order.
func (c Catalog) merge(extra Catalog) Catalog {
	out := make(Catalog, len(c)+len(extra))
	for id, e := range c {
		out[id] = e
	}
	for id, e := range extra {
		cur, ok := out[id]
		if !ok {
			out[id] = e
			continue
		}
		cur.Prerequisites = unionIDs(cur.Prerequisites, e.Prerequisites)
		cur.Corequisites = unionIDs(cur.Corequisites, e.Corequisites)
		if cur.Title == "" {
			cur.Title = e.Title
		}
		out[id] = cur
	}
	return out
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range append(append([]string{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// planCatalog builds catalog entries from prerequisite and corequisite
// columns carried by the plan itself.
func planCatalog(rows []planRow, schema Schema) Catalog {
	if !schema.Has(FieldPrerequisites) && !schema.Has(FieldCorequisites) {
		return nil
	}

	cat := make(Catalog)
	for _, r := range rows {
		if r.courseID == "" {
			continue
		}
		pre := normalizeIDs(splitList(r.rec.Get(FieldPrerequisites)))
		co := normalizeIDs(splitList(r.rec.Get(FieldCorequisites)))
		if len(pre) == 0 && len(co) == 0 {
			continue
		}
		cat = cat.merge(Catalog{r.courseID: {
			CourseID:      r.courseID,
			Title:         r.rec.Get(FieldTitle),
			Prerequisites: pre,
			Corequisites:  co,
		}})
	}
	return cat
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeCourseID(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// checkRequisites checks every plan row not yet completed against the catalog.
//
// A prerequisite is met by a Completed row for that course in an earlier
// term. When either term is blank the order cannot be known and Completed
// alone is accepted. A corequisite is met by any row for that course in the
// same or an earlier term.
func checkRequisites(rows []planRow, catalog Catalog, less TermLess) []PrereqFinding {
	byCourse := make(map[string][]planRow)
	for _, r := range rows {
		if r.courseID != "" {
			byCourse[r.courseID] = append(byCourse[r.courseID], r)
		}
	}

	var findings []PrereqFinding
	for _, r := range rows {
		if r.courseID == "" || r.status == StatusCompleted {
			continue
		}
		entry, ok := catalog[r.courseID]
		if !ok {
			continue
		}

		for _, pre := range entry.Prerequisites {
			if reason, met := prerequisiteMet(r, byCourse[pre], less); !met {
				findings = append(findings, PrereqFinding{
					Row: r.index, Course: r.course, Missing: pre, Kind: Prerequisite, Reason: reason,
				})
			}
		}
		for _, co := range entry.Corequisites {
			if reason, met := corequisiteMet(r, byCourse[co], less); !met {
				findings = append(findings, PrereqFinding{
					Row: r.index, Course: r.course, Missing: co, Kind: Corequisite, Reason: reason,
				})
			}
		}
	}

	return findings
}

func prerequisiteMet(r planRow, candidates []planRow, less TermLess) (string, bool) {
	if len(candidates) == 0 {
		return "not in plan", false
	}

	reason := "not completed"
	for _, c := range candidates {
		if c.status != StatusCompleted {
			continue
		}
		if r.term == "" || c.term == "" || less(c.term, r.term) {
			return "", true
		}
		reason = fmt.Sprintf("completed in %s, not before %s", c.term, r.term)
	}
	return reason, false
}

func corequisiteMet(r planRow, candidates []planRow, less TermLess) (string, bool) {
	if len(candidates) == 0 {
		return "not in plan", false
	}

	for _, c := range candidates {
		if r.term == "" || c.term == "" || c.term == r.term || less(c.term, r.term) {
			return "", true
		}
	}
	return fmt.Sprintf("scheduled after %s", r.term), false
}

var termPattern = regexp.MustCompile(`(?i)^(winter|spring|summer|fall|autumn)\s*'?(\d{2}|\d{4})$|^(\d{4})\s*(winter|spring|summer|fall|autumn)$`)

var seasonOrder = map[string]int{
	"winter": 0,
	"spring": 1,
	"summer": 2,
	"fall":   3,
	"autumn": 3,
}

// SeasonalTermLess orders terms written as "Fall 2024", "Spring2025" or
// "2025 Summer" by year, then season (winter, spring, summer, fall). Terms it
// cannot parse fall back to lexical order after all parsed terms.
func SeasonalTermLess(a, b string) bool {
	ya, sa, okA := parseTerm(a)
	yb, sb, okB := parseTerm(b)
	switch {
	case okA && okB:
		if ya != yb {
			return ya < yb
		}
		return sa < sb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

func parseTerm(s string) (year, season int, ok bool) {
	m := termPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}

	name, digits := m[1], m[2]
	if name == "" {
		name, digits = m[4], m[3]
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	if len(digits) == 2 {
		year += 2000
	}
	return year, seasonOrder[strings.ToLower(name)], true
}
