package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/sample"
	"github.com/JonMunkholm/advisor/internal/tabular"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template KIND",
	Short: "Write an empty template or the bundled sample for a table kind",
	Long:  "Writes the header row for a table kind (plan, requirements, catalog, faq, policies, contacts).",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplate,
}

var (
	templateFormat string
	templateOut    string
	templateSample bool
)

func init() {
	templateCmd.Flags().StringVarP(&templateFormat, "format", "f", "csv", "Output format: csv or xlsx")
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Output file (default: stdout)")
	templateCmd.Flags().BoolVar(&templateSample, "sample", false, "Write the bundled sample data instead of an empty template")

	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) (err error) {
	def, err := core.Lookup(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if templateOut != "" {
		f, createErr := os.Create(templateOut)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", templateOut, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", templateOut, closeErr)
			}
		}()
		w = f
	}

	if templateSample {
		data, err := sample.Bytes(def.Key)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	switch tabular.Format(templateFormat) {
	case tabular.FormatCSV:
		return tabular.WriteCSV(w, def.Columns, nil)
	case tabular.FormatXLSX:
		return tabular.WriteXLSX(w, def.Label, def.Columns, nil)
	default:
		return fmt.Errorf("unknown format %q: use csv or xlsx", templateFormat)
	}
}
