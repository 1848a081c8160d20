package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ptf/internal/harness"
)

// ValidationIssue describes one invalid scenario file.
type ValidationIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationResult holds validation results over all inputs.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// String renders the result for text output.
func (r ValidationResult) String() string {
	if r.Valid {
		return fmt.Sprintf("%d scenario file(s) valid", r.Files)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d scenario file(s) invalid\n", len(r.Issues), r.Files)
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "  %s: %s\n", issue.Path, issue.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files without executing them.

Checks required fields, member declarations, step cross-references,
and assertion shapes. Unknown YAML fields are rejected so typos
surface here instead of as silently skipped steps.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Files: len(paths)}

	for _, path := range paths {
		formatter.VerboseLog("validating %s", path)
		if _, err := harness.LoadScenario(path); err != nil {
			result.Valid = false
			result.Issues = append(result.Issues, ValidationIssue{Path: path, Message: err.Error()})
		}
	}

	if err := formatter.Success(result); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitCommandError, fmt.Sprintf("%d invalid scenario file(s)", len(result.Issues)))
	}
	return nil
}
