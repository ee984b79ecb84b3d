// Package sample ships demonstration tables: a student plan, a course
// catalog, category requirements and the default FAQ. The dashboard falls
// back to them when no file is uploaded or configured.
package sample

import (
	"embed"
	"fmt"
	"path"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/tabular"
)

//go:embed data/*.csv
var files embed.FS

// Kinds lists the table kinds with a bundled sample.
var Kinds = []string{core.TablePlan, core.TableCatalog, core.TableRequirements, core.TableFAQ}

// FileName returns the download name of a sample table.
func FileName(kind string) string {
	return "sample_" + kind + ".csv"
}

// Bytes returns the raw CSV for a table kind.
func Bytes(kind string) ([]byte, error) {
	data, err := files.ReadFile(path.Join("data", kind+".csv"))
	if err != nil {
		return nil, fmt.Errorf("no sample for table %s: %w", kind, err)
	}
	return data, nil
}

// Table parses the sample for a table kind.
func Table(kind string) (core.Table, error) {
	data, err := Bytes(kind)
	if err != nil {
		return core.Table{}, err
	}
	t, err := tabular.ReadBytes(FileName(kind), data)
	if err != nil {
		return core.Table{}, fmt.Errorf("parse sample %s: %w", kind, err)
	}
	return t, nil
}

// MustTable is Table panicking on error. Samples are embedded at build time.
func MustTable(kind string) core.Table {
	t, err := Table(kind)
	if err != nil {
		panic(err)
	}
	return t
}

// Plan returns the sample student plan.
func Plan() core.Table {
	return MustTable(core.TablePlan)
}

// Requirements returns the sample category requirements.
func Requirements() core.Requirements {
	reqs, _ := core.LoadRequirements(MustTable(core.TableRequirements), core.DefaultAliases())
	return reqs
}

// Catalog returns the sample course catalog.
func Catalog() core.Catalog {
	cat, _ := core.LoadCatalog(MustTable(core.TableCatalog), core.DefaultAliases())
	return cat
}

// FAQ returns the default FAQ entries.
func FAQ() []core.FAQEntry {
	entries, _ := core.LoadFAQ(MustTable(core.TableFAQ), core.DefaultAliases())
	return entries
}
