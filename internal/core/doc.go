// Package core provides the advising engines: plan validation and FAQ lookup.
//
// This package holds all decision logic independent of any UI or transport
// layer. It works on already-parsed tables ([Table]) and returns structured
// results; it performs no I/O beyond reading an optional alias file and holds
// no state between calls.
//
// # Column Normalization
//
// Uploaded headers are mapped onto canonical fields with an [AliasMap]. The
// default maps are declared in aliases.yaml and embedded at build time:
//
//	schema := core.ResolveColumns(table.Header, core.DefaultAliases().Plan())
//	credits := schema.Value(row, core.FieldCredits)
//
// Headers are compared after accent folding, lowercasing and removing
// punctuation, so "Credit-Hours", "credit hours" and "CR." all resolve.
//
// # Plan Validation
//
// [PlanValidator.Validate] checks a plan against an optional requirement
// table and catalog:
//
//	v := core.NewPlanValidator(core.ValidatorConfig{MinTotalCredits: 12})
//	report := v.Validate(plan, reqs, catalog)
//
// Problems never abort the run. Structural problems (missing, non-numeric or
// negative credits, blank category) are errors and the row is left out of the
// totals. Soft problems (duplicates, zero credits, unmapped categories, low
// load, time conflicts) are warnings. Unmet prerequisites and corequisites
// are findings. Only a missing credits or category column stops row checks.
//
// # FAQ Matching
//
// [FAQIndex.Match] returns the best answer for a free-text question. Exact
// question and tag matches win outright; otherwise the blended [Score] picks
// the closest question, and scores under [AcceptThreshold] are not found.
//
// # Error Handling
//
// Every [Issue] carries a stable code (VAL001-VAL006, WARN001-WARN006).
// Errors that stop a request are mapped to user messages with [MapError].
package core
