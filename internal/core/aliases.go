package core

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table kinds known to the alias catalog.
const (
	TablePlan         = "plan"
	TableRequirements = "requirements"
	TableCatalog      = "catalog"
	TableFAQ          = "faq"
)

//go:embed aliases.yaml
var embeddedAliases []byte

var defaultAliases = mustParseAliases(embeddedAliases)

// AliasSet is the accepted headers for one canonical field.
type AliasSet struct {
	Field   Field
	Aliases []string
}

// AliasMap maps canonical fields of one table kind to accepted header aliases.
// Fields keep the order they were declared in.
type AliasMap struct {
	Kind   string
	Fields []AliasSet

	// lookup maps a compact alias key to its field.
	lookup map[string]Field
}

// AliasCatalog holds the alias maps for every table kind.
type AliasCatalog map[string]*AliasMap

// DefaultAliases returns the embedded alias catalog.
func DefaultAliases() AliasCatalog {
	return defaultAliases
}

// Kind returns the alias map for a table kind.
func (c AliasCatalog) Kind(kind string) (*AliasMap, bool) {
	m, ok := c[kind]
	return m, ok
}

// Plan returns the plan alias map, falling back to the embedded one.
func (c AliasCatalog) Plan() *AliasMap {
	if m, ok := c[TablePlan]; ok {
		return m
	}
	return defaultAliases[TablePlan]
}

// Lookup returns the canonical field a header resolves to.
func (m *AliasMap) Lookup(header string) (Field, bool) {
	key := compactKey(header)
	if key == "" {
		return "", false
	}
	f, ok := m.lookup[key]
	return f, ok
}

// FieldNames returns the canonical fields in declaration order.
func (m *AliasMap) FieldNames() []Field {
	out := make([]Field, len(m.Fields))
	for i, s := range m.Fields {
		out[i] = s.Field
	}
	return out
}

// Aliases returns the declared aliases for a field.
func (m *AliasMap) Aliases(f Field) []string {
	for _, s := range m.Fields {
		if s.Field == f {
			return s.Aliases
		}
	}
	return nil
}

// NewAliasMap builds an alias map from ordered alias sets.
// The canonical field name is always accepted as an alias.
// Returns an error if one alias would resolve to two different fields.
func NewAliasMap(kind string, sets []AliasSet) (*AliasMap, error) {
	m := &AliasMap{
		Kind:   kind,
		Fields: sets,
		lookup: make(map[string]Field),
	}

	for _, set := range sets {
		if set.Field == "" {
			return nil, fmt.Errorf("%s: empty field name", kind)
		}
		keys := append([]string{string(set.Field)}, set.Aliases...)
		for _, alias := range keys {
			key := compactKey(alias)
			if key == "" {
				continue
			}
			if owner, exists := m.lookup[key]; exists && owner != set.Field {
				return nil, fmt.Errorf("%s: alias %q claimed by both %s and %s", kind, alias, owner, set.Field)
			}
			m.lookup[key] = set.Field
		}
	}

	return m, nil
}

// ParseAliases decodes an alias catalog from YAML:
//
//	plan:
//	  credits: [Credits, Credit Hours, Cr]
//
// Field order within each table kind is preserved.
func ParseAliases(data []byte) (AliasCatalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("parse aliases: empty document")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse aliases: top level must be a mapping")
	}

	catalog := make(AliasCatalog)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		kind := doc.Content[i].Value
		fieldsNode := doc.Content[i+1]
		if fieldsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse aliases: %s must be a mapping of field to aliases", kind)
		}

		sets := make([]AliasSet, 0, len(fieldsNode.Content)/2)
		for j := 0; j+1 < len(fieldsNode.Content); j += 2 {
			var aliases []string
			if err := fieldsNode.Content[j+1].Decode(&aliases); err != nil {
				return nil, fmt.Errorf("parse aliases: %s.%s: %w", kind, fieldsNode.Content[j].Value, err)
			}
			sets = append(sets, AliasSet{
				Field:   Field(fieldsNode.Content[j].Value),
				Aliases: aliases,
			})
		}

		m, err := NewAliasMap(kind, sets)
		if err != nil {
			return nil, fmt.Errorf("parse aliases: %w", err)
		}
		catalog[kind] = m
	}

	return catalog, nil
}

// LoadAliasFile reads an alias catalog from a YAML file. Table kinds missing
// from the file keep their embedded definitions.
func LoadAliasFile(path string) (AliasCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	parsed, err := ParseAliases(data)
	if err != nil {
		return nil, err
	}

	merged := make(AliasCatalog, len(defaultAliases))
	for kind, m := range defaultAliases {
		merged[kind] = m
	}
	for kind, m := range parsed {
		merged[kind] = m
	}
	return merged, nil
}

func mustParseAliases(data []byte) AliasCatalog {
	c, err := ParseAliases(data)
	if err != nil {
		panic(fmt.Sprintf("embedded aliases: %v", err))
	}
	return c
}
