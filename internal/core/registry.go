package core

import (
	"fmt"
	"sort"
	"sync"
)

// Table groups.
const (
	GroupInput     = "Input"
	GroupReference = "Reference"
)

// TableDefinition describes one kind of uploadable table.
type TableDefinition struct {
	Key         string
	Label       string
	Group       string
	Description string

	// Required fields must resolve for the table to be usable.
	Required []Field
	// Columns is the header written to downloadable templates.
	Columns []string
	// PassThrough tables are displayed as-is and never validated.
	PassThrough bool
}

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

func init() {
	registerDefaults(DefaultAliases())
}

// registerDefaults registers the built-in table kinds. Template columns use
// the first alias of each field, which is its display name.
func registerDefaults(aliases AliasCatalog) {
	defs := []TableDefinition{
		{
			Key:         TablePlan,
			Label:       "Student Plan",
			Group:       GroupInput,
			Description: "One row per planned or completed course",
			Required:    []Field{FieldCredits, FieldCategory},
		},
		{
			Key:         TableRequirements,
			Label:       "Category Requirements",
			Group:       GroupInput,
			Description: "Credits required per category",
			Required:    []Field{FieldCategory, FieldRequiredCredits},
		},
		{
			Key:         TableCatalog,
			Label:       "Course Catalog",
			Group:       GroupInput,
			Description: "Prerequisites and corequisites per course",
			Required:    []Field{FieldCourseID},
		},
		{
			Key:         TableFAQ,
			Label:       "FAQ",
			Group:       GroupReference,
			Description: "Questions and answers for the advising assistant",
			Required:    []Field{FieldQuestion, FieldAnswer},
		},
		{
			Key:         "policies",
			Label:       "Policies",
			Group:       GroupReference,
			Description: "Program policies shown for reference",
			Columns:     []string{"Policy", "Summary", "Link"},
			PassThrough: true,
		},
		{
			Key:         "contacts",
			Label:       "Contacts",
			Group:       GroupReference,
			Description: "Offices and people students can contact",
			Columns:     []string{"Office", "Contact", "Email", "Phone"},
			PassThrough: true,
		},
	}

	for _, def := range defs {
		if m, ok := aliases.Kind(def.Key); ok && len(def.Columns) == 0 {
			def.Columns = templateColumns(m)
		}
		Register(def)
	}
}

func templateColumns(m *AliasMap) []string {
	cols := make([]string, 0, len(m.Fields))
	for _, set := range m.Fields {
		if len(set.Aliases) > 0 {
			cols = append(cols, set.Aliases[0])
		} else {
			cols = append(cols, string(set.Field))
		}
	}
	return cols
}

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Get returns a table definition by key.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Lookup is Get returning an error for unknown keys.
func Lookup(key string) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("unknown table: %s", key)
	}
	return def, nil
}

// All returns all registered table definitions, sorted by group then key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// ByGroup returns the definitions in one group, sorted by key.
func ByGroup(group string) []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []TableDefinition
	for _, def := range registry {
		if def.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
