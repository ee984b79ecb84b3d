package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MWF", "MWF"},
		{"TR", "TR"},
		{"TTh", "TR"},
		{"Mon/Wed", "MW"},
		{"Tuesday, Thursday", "TR"},
		{"Thurs", "R"},
		{"M W F", "MWF"},
		{"FWM", "MWF"},
		{"Sat", "S"},
		{"Su", "U"},
		{"Sa", "S"},
		{"SSu", "SU"},
		{"SaSu", "SU"},
		{"TuTh", "TR"},
		{"SU", "SU"},
		{"MTWRFSU", "MTWRFSU"},
		{"sun", "U"},
		{"TBA", ""},
		{"online", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDays(tt.input))
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"09:00", 540, true},
		{"13:30", 810, true},
		{"1:30 PM", 810, true},
		{"1:30pm", 810, true},
		{"9am", 540, true},
		{"9 a.m.", 540, true},
		{"12:00 PM", 720, true},
		{"noonish", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseClock(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_TimeConflicts(t *testing.T) {
	plan := tbl([]string{"Course", "Credits", "Category", "Term", "Days", "Start", "End"},
		[]string{"BIO 1060", "3", "Core", "Fall 2025", "MWF", "09:00", "09:50"},
		[]string{"CHEM 1080", "3", "Core", "Fall 2025", "MW", "9:30 AM", "10:45 AM"},
		[]string{"PSY 1010", "3", "Elective", "Fall 2025", "TR", "09:00", "10:15"},
		[]string{"ENG 1010", "3", "Core", "Spring 2026", "MWF", "09:00", "09:50"},
		[]string{"MATH 1050", "3", "Core", "Fall 2025", "F", "09:50", "10:40"},
		[]string{"SEM 1000", "1", "Elective", "Fall 2025", "TBA", "", ""},
	)

	rep := Validate(plan, nil)

	require.Len(t, rep.Conflicts, 1)
	c := rep.Conflicts[0]
	assert.Equal(t, ScheduleConflict{
		Term: "Fall 2025", Day: "MW", RowA: 1, RowB: 2, CourseA: "BIO 1060", CourseB: "CHEM 1080",
	}, c)

	conflicts := warningsOf(rep, KindTimeConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 2, conflicts[0].Row)
	assert.Equal(t, "meets at the same time as BIO 1060 on Mon/Wed", conflicts[0].Message)
}

func TestValidate_WeekendDaysDoNotOverlap(t *testing.T) {
	plan := tbl([]string{"Course", "Credits", "Category", "Term", "Days", "Start", "End"},
		[]string{"CLIN 1000", "1", "Core", "Summer 2026", "Sa", "08:00", "12:00"},
		[]string{"CLIN 1010", "1", "Core", "Summer 2026", "Su", "08:00", "12:00"},
	)

	rep := Validate(plan, nil)

	assert.Empty(t, rep.Conflicts)
	assert.Empty(t, warningsOf(rep, KindTimeConflict))
}

func TestValidate_NoScheduleColumns(t *testing.T) {
	plan := tbl([]string{"Credits", "Category", "Days"},
		[]string{"3", "Core", "MWF"},
		[]string{"3", "Core", "MWF"},
	)

	assert.Nil(t, Validate(plan, nil).Conflicts)
}
