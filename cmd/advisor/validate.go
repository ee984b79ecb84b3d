package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/JonMunkholm/advisor/internal/application"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/tabular"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a student plan",
	Long: "Validates a plan file (CSV or XLSX) against category requirements and a course catalog " +
		"and prints an advisor note, the issue list as CSV, or the full report as JSON.",
	RunE: runValidate,
}

var (
	validatePlan         string
	validateRequirements string
	validateCatalog      string
	validateFormat       string
	validateStrict       bool
)

// errPlanHasErrors is returned in strict mode when the report has errors.
var errPlanHasErrors = errors.New("plan has errors")

func init() {
	validateCmd.Flags().StringVarP(&validatePlan, "plan", "i", "", "Path to the student plan (required)")
	validateCmd.Flags().StringVarP(&validateRequirements, "requirements", "r", "", "Path to a requirements table (optional)")
	validateCmd.Flags().StringVarP(&validateCatalog, "catalog", "c", "", "Path to a course catalog (optional)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format: text, csv or json")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with an error when the plan has errors")

	if err := validateCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	switch validateFormat {
	case "text", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q: use text, csv or json", validateFormat)
	}

	plan, err := tabular.ReadFile(validatePlan)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}

	in := application.Inputs{Source: filepath.Base(validatePlan)}
	if in.Requirements, err = readOptionalTable(validateRequirements); err != nil {
		return fmt.Errorf("read requirements: %w", err)
	}
	if in.Catalog, err = readOptionalTable(validateCatalog); err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	service, err := application.New(cfg)
	if err != nil {
		return err
	}

	rep := service.Validate(cmd.Context(), plan, in)
	if err := writeReport(cmd.OutOrStdout(), validateFormat, rep, service.Meta(in.Source)); err != nil {
		return err
	}

	if validateStrict && len(rep.Errors) > 0 {
		return fmt.Errorf("%w: %d", errPlanHasErrors, len(rep.Errors))
	}
	return nil
}

func readOptionalTable(path string) (*core.Table, error) {
	if path == "" {
		return nil, nil
	}
	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeReport(w io.Writer, format string, rep *core.Report, meta report.Meta) error {
	switch format {
	case "csv":
		return report.WriteIssuesCSV(w, rep)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		_, err := io.WriteString(w, report.ValidationNote(rep, meta)+"\n")
		return err
	}
}
