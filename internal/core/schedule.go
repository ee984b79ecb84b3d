package core

import (
	"regexp"
	"strings"
	"time"
)

// dayPattern matches one meeting day. Alternation is leftmost-first, so full
// names win over abbreviations and abbreviations over single letters. "Sa",
// "Su" and "Tu" count only in mixed case: "SU" is Saturday and Sunday.
var dayPattern = regexp.MustCompile(`(?i:mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:rs(?:day)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?|th)|Sa|Su|Tu|(?i:[mtwrfsu])`)

var dayLetters = map[string]string{
	"mon": "M", "tue": "T", "wed": "W", "thu": "R", "th": "R", "fri": "F", "sat": "S", "sun": "U",
	"tu": "T", "sa": "S", "su": "U",
	"m": "M", "t": "T", "w": "W", "r": "R", "f": "F", "s": "S", "u": "U",
}

var dayNames = map[rune]string{
	'M': "Mon", 'T': "Tue", 'W': "Wed", 'R': "Thu", 'F': "Fri", 'S': "Sat", 'U': "Sun",
}

// weekOrder is the canonical order of day letters.
const weekOrder = "MTWRFSU"

// parseDays converts a meeting-days cell ("MWF", "TTh", "Mon/Wed") into a set
// of day letters in week order. Unscheduled markers yield "".
func parseDays(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "tba", "tbd", "arr", "arranged", "online", "async":
		return ""
	}

	found := make(map[string]bool)
	for _, m := range dayPattern.FindAllString(s, -1) {
		key := strings.ToLower(m)
		if len(key) > 3 {
			key = key[:3]
		}
		if letter, ok := dayLetters[key]; ok {
			found[letter] = true
		}
	}

	var b strings.Builder
	for _, r := range weekOrder {
		if found[string(r)] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04 PM", "3PM", "3 PM", "3:04:05 PM"}

// parseClock returns minutes after midnight for "13:30", "1:30 PM" or "9am".
func parseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// meeting is the parsed schedule of one plan row.
type meeting struct {
	row        planRow
	term       string
	days       string
	start, end int
}

// findConflicts reports every pair of rows in the same term that share a
// meeting day and whose time ranges overlap. Rows whose days or times cannot
// be parsed are skipped. Pairs are reported in row order.
func findConflicts(rows []planRow) []ScheduleConflict {
	meetings := make([]meeting, 0, len(rows))
	for _, r := range rows {
		days := parseDays(r.rec.Get(FieldDays))
		start, okStart := parseClock(r.rec.Get(FieldStart))
		end, okEnd := parseClock(r.rec.Get(FieldEnd))
		if days == "" || !okStart || !okEnd || end <= start {
			continue
		}
		meetings = append(meetings, meeting{
			row:   r,
			term:  NormalizeKey(r.term),
			days:  days,
			start: start,
			end:   end,
		})
	}

	var conflicts []ScheduleConflict
	for i := 0; i < len(meetings); i++ {
		a := meetings[i]
		for j := i + 1; j < len(meetings); j++ {
			b := meetings[j]
			if a.term != b.term || a.start >= b.end || b.start >= a.end {
				continue
			}
			shared := sharedDays(a.days, b.days)
			if shared == "" {
				continue
			}
			conflicts = append(conflicts, ScheduleConflict{
				Term:    a.row.term,
				Day:     shared,
				RowA:    a.row.index,
				RowB:    b.row.index,
				CourseA: a.row.course,
				CourseB: b.row.course,
			})
		}
	}
	return conflicts
}

func sharedDays(a, b string) string {
	var out strings.Builder
	for _, r := range a {
		if strings.ContainsRune(b, r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// dayName expands day letters for messages: "MW" -> "Mon/Wed".
func dayName(days string) string {
	names := make([]string, 0, len(days))
	for _, r := range days {
		if n, ok := dayNames[r]; ok {
			names = append(names, n)
		}
	}
	return strings.Join(names, "/")
}
