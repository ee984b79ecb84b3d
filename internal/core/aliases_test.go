package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAliases(t *testing.T) {
	catalog := DefaultAliases()
	for _, kind := range []string{TablePlan, TableRequirements, TableCatalog, TableFAQ} {
		_, ok := catalog.Kind(kind)
		assert.True(t, ok, "kind %s", kind)
	}

	plan := catalog.Plan()
	assert.Equal(t, FieldCourseID, plan.FieldNames()[0])
	assert.Contains(t, plan.Aliases(FieldCredits), "Credit Hours")
}

func TestAliasMap_Lookup(t *testing.T) {
	plan := DefaultAliases().Plan()

	tests := []struct {
		header string
		want   Field
		ok     bool
	}{
		{"Credit Hours", FieldCredits, true},
		{"CR.", FieldCredits, true},
		{"credit-hours", FieldCredits, true},
		{"UNITS", FieldCredits, true},
		{"credits", FieldCredits, true},
		{"Course ID", FieldCourseID, true},
		{"CourseID", FieldCourseID, true},
		{"course_id", FieldCourseID, true},
		{"Core Category", FieldCategory, true},
		{"Planned/Completed", FieldStatus, true},
		{"Semester", FieldTerm, true},
		{"Requires", FieldPrerequisites, true},
		{"Instructor", "", false},
		{"", "", false},
		{"---", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := plan.Lookup(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAliasMap_Conflict(t *testing.T) {
	_, err := NewAliasMap("plan", []AliasSet{
		{Field: FieldCredits, Aliases: []string{"Hours"}},
		{Field: FieldStart, Aliases: []string{"hours"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claimed by both")
}

func TestParseAliases(t *testing.T) {
	data := []byte(`
plan:
  credits: [Cr Hrs]
  category: [Bucket]
`)
	catalog, err := ParseAliases(data)
	require.NoError(t, err)

	plan, ok := catalog.Kind(TablePlan)
	require.True(t, ok)
	assert.Equal(t, []Field{FieldCredits, FieldCategory}, plan.FieldNames())

	f, ok := plan.Lookup("bucket")
	assert.True(t, ok)
	assert.Equal(t, FieldCategory, f)
}

func TestParseAliases_Invalid(t *testing.T) {
	_, err := ParseAliases([]byte("- just\n- a list\n"))
	assert.Error(t, err)

	_, err = ParseAliases([]byte("plan: [credits]\n"))
	assert.Error(t, err)

	_, err = ParseAliases([]byte(""))
	assert.Error(t, err)
}

func TestLoadAliasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("faq:\n  question: [Prompt]\n  answer: [Reply]\n"), 0o600))

	catalog, err := LoadAliasFile(path)
	require.NoError(t, err)

	faq, _ := catalog.Kind(TableFAQ)
	f, ok := faq.Lookup("Prompt")
	assert.True(t, ok)
	assert.Equal(t, FieldQuestion, f)

	// Kinds absent from the file keep the embedded map.
	assert.Same(t, DefaultAliases().Plan(), catalog.Plan())
}
