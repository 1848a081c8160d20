package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ptf/internal/harness"
	"github.com/roach88/ptf/internal/report"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// Archive, when set, persists every scenario trace to this SQLite
	// database.
	Archive string
}

// ScenarioOutcome summarizes one executed scenario.
type ScenarioOutcome struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	RunID  string   `json:"run_id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// RunSummary is the aggregate result over all scenarios.
type RunSummary struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// String renders the summary for text output.
func (s RunSummary) String() string {
	var b strings.Builder
	for _, sc := range s.Scenarios {
		verdict := "PASS"
		if !sc.Pass {
			verdict = "FAIL"
		}
		fmt.Fprintf(&b, "%s  %s", verdict, sc.Name)
		if sc.RunID != "" {
			fmt.Fprintf(&b, "  (run %s)", sc.RunID)
		}
		b.WriteByte('\n')
		for _, msg := range sc.Errors {
			fmt.Fprintf(&b, "      %s\n", strings.ReplaceAll(msg, "\n", "\n      "))
		}
	}
	fmt.Fprintf(&b, "%d scenarios: %d passed, %d failed", s.Total, s.Passed, s.Failed)
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Execute conformance scenarios",
		Long: `Execute one or more conformance scenarios against the oracle.

Each scenario runs in isolation with a deterministic clock. With
--archive, every scenario's trace is persisted as one run in the
SQLite archive.

Example:
  ptf run testdata/scenarios/greeting.yaml
  ptf run --archive ./runs.db scenarios/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Archive, "archive", "", "path to SQLite archive for run traces")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var archive *report.Archive
	if opts.Archive != "" {
		var err error
		archive, err = report.OpenArchive(opts.Archive)
		if err != nil {
			formatter.Error(ErrCodeArchive, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open archive", err)
		}
		defer func() {
			if closeErr := archive.Close(); closeErr != nil {
				slog.Error("error closing archive", "error", closeErr)
			}
		}()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary := RunSummary{Scenarios: make([]ScenarioOutcome, 0, len(paths))}

	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			formatter.Error(ErrCodeLoad, err.Error(), map[string]string{"path": path})
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load scenario %s", path), err)
		}

		formatter.VerboseLog("running scenario %s (%s)", scenario.Name, path)

		var result *harness.Result
		var runID string
		if archive != nil {
			result, runID, err = harness.RunArchived(ctx, scenario, archive)
		} else {
			result, err = harness.Run(scenario)
		}
		if err != nil {
			formatter.Error(ErrCodeRun, err.Error(), map[string]string{"scenario": scenario.Name})
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run scenario %s", scenario.Name), err)
		}

		outcome := ScenarioOutcome{
			Name:   scenario.Name,
			Pass:   result.Pass,
			RunID:  runID,
			Errors: result.Errors,
		}
		summary.Scenarios = append(summary.Scenarios, outcome)
		summary.Total++
		if result.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if err := formatter.Success(summary); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", summary.Failed, summary.Total))
	}
	return nil
}
