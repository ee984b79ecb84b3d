// Package main is the advisor command: the dashboard server plus offline
// plan checks, FAQ lookups and template downloads.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Advising assistant for degree plans and student questions",
	Long: "advisor checks student course plans against category requirements and a course catalog, " +
		"answers common questions from an FAQ table and produces notes advisors can paste into records.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c

	// Subcommands print results on stdout; logs go to stderr.
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	return nil
}

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorText(err))
		os.Exit(1)
	}
}

// errorText pairs a known error's user message and code with the
// underlying error; anything else prints as is.
func errorText(err error) string {
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	return fmt.Sprintf("%s\n  %v", core.FormatUserError(err), err)
}
