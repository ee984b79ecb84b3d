package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())

	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const scenarioPlan = "Credits,Category\n3,Core\n2,Core\nabc,Elective\n"

func TestValidateCommand_Text(t *testing.T) {
	plan := writeFile(t, "plan.csv", scenarioPlan)

	out, err := execute(t, "validate", "--plan", plan)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Advisor Assistant validation note ("))
	assert.Contains(t, out, "Source: plan.csv")
	assert.Contains(t, out, `[VAL003] Error - row 3: credits "abc" are not numeric`)
	assert.Contains(t, out, "- Core: 5")
}

func TestValidateCommand_Strict(t *testing.T) {
	plan := writeFile(t, "plan.csv", scenarioPlan)

	_, err := execute(t, "validate", "--plan", plan, "--strict")

	require.Error(t, err)
	assert.ErrorIs(t, err, errPlanHasErrors)
}

func TestValidateCommand_CSVWithRequirements(t *testing.T) {
	plan := writeFile(t, "plan.csv", scenarioPlan)
	reqs := writeFile(t, "reqs.csv", "Category,Required Credits\nCore,8\n")

	out, err := execute(t, "validate", "-i", plan, "-r", reqs, "-f", "csv")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, strings.Join(report.IssueColumns, ","), lines[0])
	assert.Contains(t, out, "gap,,Core,,,category,3,5 of 8 credits")
}

func TestValidateCommand_Errors(t *testing.T) {
	_, err := execute(t, "validate")
	assert.ErrorContains(t, err, `required flag(s) "plan" not set`)

	_, err = execute(t, "validate", "--plan", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "read plan")

	plan := writeFile(t, "plan.csv", scenarioPlan)
	_, err = execute(t, "validate", "--plan", plan, "--format", "pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

func TestAskCommand(t *testing.T) {
	out, err := execute(t, "ask", "Who", "clears", "my", "advising", "hold?")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Your advisor clears it"))
	assert.Contains(t, out, "(exact match on \"Who clears my advising hold?\", score 1.00)")
}

func TestAskCommand_CustomFAQ(t *testing.T) {
	faq := writeFile(t, "faq.csv", "Question,Answer\nWhere is the library?,Building C.\n")

	out, err := execute(t, "ask", "--faq", faq, "xylophone quartz zebra")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "No answer found.\n"))
}

func TestTemplateCommand(t *testing.T) {
	out, err := execute(t, "template", "requirements")
	require.NoError(t, err)
	assert.Equal(t, "Category,RequiredCredits\n", out)

	out, err = execute(t, "template", "plan", "--sample")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CourseID,Title,Credits"))

	_, err = execute(t, "template", "grades")
	assert.ErrorContains(t, err, "unknown table: grades")

	_, err = execute(t, "template", "policies", "--sample")
	assert.ErrorContains(t, err, "no sample for table policies")
}

func TestTemplateCommand_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contacts.xlsx")

	stdout, err := execute(t, "template", "contacts", "--format", "xlsx", "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	wb, err := tabular.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Office", "Contact", "Email", "Phone"}, wb.Header)

	_, err = execute(t, "template", "faq", "--out", filepath.Join(t.TempDir(), "missing", "faq.csv"))
	assert.ErrorContains(t, err, "create ")
}

func TestErrorText(t *testing.T) {
	err := fmt.Errorf("read plan: %w", tabular.ErrEmptyFile)
	assert.Equal(t,
		"The file is empty (Code: FILE005). Upload a file with a header row\n  read plan: empty file",
		errorText(err))

	assert.Equal(t, `unknown command "grade" for "advisor"`,
		errorText(errors.New(`unknown command "grade" for "advisor"`)))
}

func TestErrorText_CommandErrors(t *testing.T) {
	_, err := execute(t, "ask", "--faq", writeFile(t, "faq.csv", "\n\n"), "hello")
	require.Error(t, err)
	assert.Contains(t, errorText(err), "(Code: FILE005)")

	plan := writeFile(t, "plan.pdf", "%PDF-1.4")
	_, err = execute(t, "validate", "--plan", plan)
	require.Error(t, err)
	assert.Contains(t, errorText(err), "(Code: FILE006)")
}
