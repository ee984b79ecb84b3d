package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequirements(t *testing.T) {
	table := tbl([]string{"Category", "RequiredCredits"},
		[]string{"Core", "60"},
		[]string{"Lab", "2"},
		[]string{"", ""},
		[]string{"Elective", "six"},
		[]string{"core", "10"},
		[]string{"IP", "-2"},
		[]string{"", "4"},
	)

	reqs, issues := LoadRequirements(table, nil)

	assert.Equal(t, Requirements{
		{Category: "Core", RequiredCredits: 60},
		{Category: "Lab", RequiredCredits: 2},
	}, reqs)

	require.Len(t, issues, 4)
	assert.Equal(t, KindBadCredits, issues[0].Kind)
	assert.Equal(t, 4, issues[0].Row)
	assert.Contains(t, issues[1].Message, "already defined on row 1")
	assert.Contains(t, issues[2].Message, "RequiredCredits failed gte")
	assert.Contains(t, issues[3].Message, "Category failed required")
}

func TestLoadRequirements_Aliases(t *testing.T) {
	reqs, issues := LoadRequirements(tbl([]string{"Area", "Min Credits"}, []string{"Core", "6"}), DefaultAliases())

	assert.Empty(t, issues)
	assert.Equal(t, Requirements{{Category: "Core", RequiredCredits: 6}}, reqs)
}

func TestLoadRequirements_MissingColumn(t *testing.T) {
	reqs, issues := LoadRequirements(tbl([]string{"Category", "Notes"}, []string{"Core", "x"}), nil)

	assert.Nil(t, reqs)
	require.Len(t, issues, 1)
	assert.Equal(t, KindMissingColumn, issues[0].Kind)
	assert.Contains(t, issues[0].Message, "required column not found")
}

func TestLoadRequirements_HeaderOnly(t *testing.T) {
	reqs, issues := LoadRequirements(tbl([]string{"Category", "RequiredCredits"}), nil)

	assert.NotNil(t, reqs)
	assert.Empty(t, reqs)
	assert.Empty(t, issues)
}

func TestLoadCatalog(t *testing.T) {
	table := tbl([]string{"CourseID", "Title", "Credits", "Category", "Requires", "Coreqs"},
		[]string{"DPT 2213", "Kinesiology", "3", "Core", "ANAT 1000", ""},
		[]string{"bio 1065", "Biology Lab", "1", "Lab", "", "BIO 1060"},
		[]string{"CHEM 1085", "Chem Lab", "1", "Lab", "chem 1080 | CHEM 1000", ""},
		[]string{"", "Orphan", "3", "Core", "X", ""},
	)

	cat, issues := LoadCatalog(table, nil)

	require.Len(t, cat, 3)
	assert.Equal(t, []string{"ANAT 1000"}, cat["DPT 2213"].Prerequisites)
	assert.Equal(t, []string{"BIO 1060"}, cat["BIO 1065"].Corequisites)
	assert.Equal(t, []string{"CHEM 1080", "CHEM 1000"}, cat["CHEM 1085"].Prerequisites)
	assert.Equal(t, "Kinesiology", cat["DPT 2213"].Title)

	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Row)
	assert.Contains(t, issues[0].Message, "CourseID failed required")
}

func TestLoadCatalog_MissingColumn(t *testing.T) {
	cat, issues := LoadCatalog(tbl([]string{"Title"}, []string{"x"}), nil)
	assert.Nil(t, cat)
	require.Len(t, issues, 1)
	assert.Equal(t, "VAL001", issues[0].Code)
}

func TestLoadFAQ(t *testing.T) {
	table := tbl([]string{"Question", "Answer", "Tags"},
		[]string{"How do I study abroad?", "Visit Global Programs.", "Study Abroad; exchange, travel"},
		[]string{"Empty answer?", "", ""},
		[]string{"Who is my advisor?", "Check your portal.", ""},
	)

	entries, issues := LoadFAQ(table, nil)

	require.Len(t, entries, 2)
	assert.Equal(t, []string{"study abroad", "exchange", "travel"}, entries[0].Tags)
	assert.Nil(t, entries[1].Tags)

	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Row)
	assert.Contains(t, issues[0].Message, "Answer failed required")
}

func TestLoadFAQ_MissingColumn(t *testing.T) {
	entries, issues := LoadFAQ(tbl([]string{"Question"}, []string{"x"}), nil)
	assert.Nil(t, entries)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "answer")
}
