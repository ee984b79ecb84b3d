package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/advisor/internal/application"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION...",
	Short: "Look up an answer in the FAQ",
	Long:  "Matches a free-text question against the FAQ table and prints the answer or the closest questions.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var (
	askFAQ  string
	askJSON bool
)

func init() {
	askCmd.Flags().StringVar(&askFAQ, "faq", "", "Path to an FAQ table (overrides ADVISOR_FAQ_FILE)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the match result as JSON")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("empty question")
	}

	if askFAQ != "" {
		cfg.Data.FAQFile = askFAQ
	}
	service, err := application.New(cfg)
	if err != nil {
		return err
	}
	if service.FAQ().Len() == 0 {
		return errors.New("no faq entries loaded")
	}

	result := service.Ask(cmd.Context(), question)
	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printMatch(cmd.OutOrStdout(), result)
}

func printMatch(w io.Writer, r core.MatchResult) error {
	var b strings.Builder
	if r.Found {
		fmt.Fprintf(&b, "%s\n", r.Answer)
		fmt.Fprintf(&b, "(%s match on %q, score %.2f)\n", r.Method, r.MatchedQuestion, r.Score)
	} else {
		b.WriteString("No answer found.\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "  Did you mean: %s (%.2f)\n", s.Question, s.Score)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
