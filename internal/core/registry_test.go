package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	assert.Equal(t, 6, TableCount())

	plan, ok := Get(TablePlan)
	require.True(t, ok)
	assert.Equal(t, []Field{FieldCredits, FieldCategory}, plan.Required)
	assert.Equal(t, "Course", plan.Columns[0])
	assert.Contains(t, plan.Columns, "Credits")

	reqs, ok := Get(TableRequirements)
	require.True(t, ok)
	assert.Equal(t, []string{"Category", "RequiredCredits"}, reqs.Columns)

	contacts, ok := Get("contacts")
	require.True(t, ok)
	assert.True(t, contacts.PassThrough)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("transcripts")
	require.Error(t, err)
	assert.Equal(t, "TBL001", MapError(err).Code)
}

func TestAll_Sorted(t *testing.T) {
	var keys []string
	for _, def := range All() {
		keys = append(keys, def.Key)
	}
	assert.Equal(t, []string{"catalog", "plan", "requirements", "contacts", "faq", "policies"}, keys)

	assert.Len(t, ByGroup(GroupInput), 3)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(TableDefinition{Key: TablePlan})
	})
}
