// Package application wires configuration, reference tables and the core
// engines into the Service used by the dashboard and the CLI.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/sample"
	"github.com/JonMunkholm/advisor/internal/tabular"
)

// Source names where a reference table came from.
const SourceBuiltIn = "built-in sample"

// Service holds the reference data for one running process. It is read-only
// after New and safe for concurrent use.
type Service struct {
	aliases   core.AliasCatalog
	validator *core.PlanValidator
	faq       *core.FAQIndex
	reqs      core.Requirements
	catalog   core.Catalog
	policies  core.Table
	contacts  core.Table

	program     string
	catalogYear string
	sources     map[string]string
	issues      []core.Issue
	now         func() time.Time
}

// Inputs are per-request tables that replace the configured reference data.
type Inputs struct {
	Source       string
	Requirements *core.Table
	Catalog      *core.Table
}

// New loads aliases and reference tables described by cfg. Missing files fall
// back to the built-in samples; files that exist but cannot be read are errors.
func New(cfg *config.Config) (*Service, error) {
	s := &Service{
		program:     cfg.Validation.Program,
		catalogYear: cfg.Validation.CatalogYear,
		sources:     make(map[string]string),
		now:         time.Now,
	}

	s.aliases = core.DefaultAliases()
	if cfg.Data.AliasFile != "" {
		aliases, err := core.LoadAliasFile(cfg.Data.AliasFile)
		if err != nil {
			return nil, fmt.Errorf("load aliases: %w", err)
		}
		s.aliases = aliases
	}

	s.validator = core.NewPlanValidator(core.ValidatorConfig{
		Aliases:         s.aliases.Plan(),
		TermLess:        TermOrder(cfg.Validation.TermOrder),
		MinTotalCredits: cfg.Validation.MinTotalCredits,
	})

	data := cfg.Data

	faqTable, err := s.readReference(core.TableFAQ, data.Path(data.FAQFile))
	if err != nil {
		return nil, err
	}
	var entries []core.FAQEntry
	if faqTable != nil {
		var issues []core.Issue
		entries, issues = core.LoadFAQ(*faqTable, s.aliases)
		s.addIssues(core.TableFAQ, issues)
	}
	if len(entries) == 0 {
		entries = sample.FAQ()
		s.sources[core.TableFAQ] = SourceBuiltIn
	}
	s.faq = core.NewFAQIndex(entries)

	reqTable, err := s.readReference(core.TableRequirements, data.Path(data.RequirementsFile))
	if err != nil {
		return nil, err
	}
	if reqTable != nil {
		var issues []core.Issue
		s.reqs, issues = core.LoadRequirements(*reqTable, s.aliases)
		s.addIssues(core.TableRequirements, issues)
	}
	if s.reqs == nil {
		s.reqs = sample.Requirements()
		s.sources[core.TableRequirements] = SourceBuiltIn
	}

	catTable, err := s.readReference(core.TableCatalog, data.Path(data.CatalogFile))
	if err != nil {
		return nil, err
	}
	if catTable != nil {
		var issues []core.Issue
		s.catalog, issues = core.LoadCatalog(*catTable, s.aliases)
		s.addIssues(core.TableCatalog, issues)
	}
	if s.catalog == nil {
		s.catalog = sample.Catalog()
		s.sources[core.TableCatalog] = SourceBuiltIn
	}

	if s.policies, err = s.readPassThrough("policies", data.Path(data.PoliciesFile)); err != nil {
		return nil, err
	}
	if s.contacts, err = s.readPassThrough("contacts", data.Path(data.ContactsFile)); err != nil {
		return nil, err
	}

	return s, nil
}

// TermOrder returns the term comparator for a configured order name.
func TermOrder(name string) core.TermLess {
	if strings.EqualFold(name, "lexical") {
		return core.LexicalTermLess
	}
	return core.SeasonalTermLess
}

func (s *Service) readReference(kind, path string) (*core.Table, error) {
	t, ok, err := tabular.ReadOptional(path)
	if err != nil {
		return nil, fmt.Errorf("read %s table %s: %w", kind, path, err)
	}
	if !ok {
		return nil, nil
	}
	s.sources[kind] = path
	return &t, nil
}

func (s *Service) readPassThrough(kind, path string) (core.Table, error) {
	t, err := s.readReference(kind, path)
	if err != nil || t == nil {
		return core.Table{}, err
	}
	return *t, nil
}

func (s *Service) addIssues(kind string, issues []core.Issue) {
	s.issues = append(s.issues, TableIssues(kind, issues)...)
}

// TableIssues rewrites issues from an auxiliary table so they read as
// table-level entries next to plan issues.
func TableIssues(kind string, issues []core.Issue) []core.Issue {
	out := make([]core.Issue, 0, len(issues))
	for _, is := range issues {
		where := kind + " table"
		if is.Row > 0 {
			where = fmt.Sprintf("%s table row %d", kind, is.Row)
		}
		is.Message = where + ": " + is.Message
		is.Row = 0
		is.Course = ""
		out = append(out, is)
	}
	return out
}

// LogSummary logs what was loaded and any reference table issues.
func (s *Service) LogSummary() {
	slog.Info("reference data loaded",
		"faq_entries", s.faq.Len(),
		"requirements", len(s.reqs),
		"catalog_courses", len(s.catalog),
		"policies", len(s.policies.Rows),
		"contacts", len(s.contacts.Rows),
	)
	for kind, src := range s.sources {
		slog.Debug("reference table", "table", kind, "source", src)
	}
	for _, is := range s.issues {
		slog.Warn("reference table issue", "code", is.Code, "message", is.Message)
	}
}

// Validate checks a plan against the configured requirements and catalog,
// or against the tables in in when supplied.
func (s *Service) Validate(ctx context.Context, plan core.Table, in Inputs) *core.Report {
	start := s.now()
	reqs, catalog := s.reqs, s.catalog

	var extra []core.Issue
	if in.Requirements != nil {
		loaded, issues := core.LoadRequirements(*in.Requirements, s.aliases)
		extra = append(extra, TableIssues(core.TableRequirements, issues)...)
		reqs = loaded
	}
	if in.Catalog != nil {
		loaded, issues := core.LoadCatalog(*in.Catalog, s.aliases)
		extra = append(extra, TableIssues(core.TableCatalog, issues)...)
		catalog = loaded
	}

	rep := s.validator.Validate(plan, reqs, catalog)
	rep.Warnings = append(rep.Warnings, extra...)

	logging.WithFields(ctx, "table", core.TablePlan, "source", in.Source, "rows", rep.Summary.Rows).
		Info("validation completed",
			"errors", len(rep.Errors),
			"warnings", len(rep.Warnings),
			"gaps", len(rep.CategoryGaps),
			"findings", len(rep.PrereqFindings),
			"duration_ms", s.now().Sub(start).Milliseconds(),
		)
	return rep
}

// Ask looks up an FAQ answer.
func (s *Service) Ask(ctx context.Context, question string) core.MatchResult {
	result := s.faq.Match(question)
	logging.FromContext(ctx).Info("faq lookup",
		"method", result.Method,
		"score", result.Score,
		"found", result.Found,
	)
	return result
}

// Meta returns note metadata for the current time.
func (s *Service) Meta(source string) report.Meta {
	return report.Meta{
		Timestamp:   s.now(),
		Program:     s.program,
		CatalogYear: s.catalogYear,
		Source:      source,
	}
}

// FAQ returns the FAQ index.
func (s *Service) FAQ() *core.FAQIndex { return s.faq }

// Requirements returns the configured category requirements.
func (s *Service) Requirements() core.Requirements { return s.reqs }

// Catalog returns the configured course catalog.
func (s *Service) Catalog() core.Catalog { return s.catalog }

// Policies returns the pass-through policy table.
func (s *Service) Policies() core.Table { return s.policies }

// Contacts returns the pass-through contact table.
func (s *Service) Contacts() core.Table { return s.contacts }

// Aliases returns the alias catalog in use.
func (s *Service) Aliases() core.AliasCatalog { return s.aliases }

// Sources maps table kinds to the file or sample they were loaded from.
func (s *Service) Sources() map[string]string {
	out := make(map[string]string, len(s.sources))
	for k, v := range s.sources {
		out[k] = v
	}
	return out
}

// Issues returns problems found in the reference tables at load time.
func (s *Service) Issues() []core.Issue {
	return append([]core.Issue(nil), s.issues...)
}
