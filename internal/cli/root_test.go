package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ptf")
	assert.Contains(t, stdout, "run")
	assert.Contains(t, stdout, "validate")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := executeCommand("validate", "--format", "xml", "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_ValidFormats(t *testing.T) {
	for _, format := range ValidFormats {
		t.Run(format, func(t *testing.T) {
			cmd := NewRootCommand()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs([]string{"--format", format, "--help"})
			assert.NoError(t, cmd.Execute())
		})
	}
}

func TestRootCommand_SubcommandsRegistered(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "validate")
}

func TestRunCommand_RequiresArgs(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"run"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	err := cmd.Execute()
	require.Error(t, err)
}

// silenceUsage ensures command errors carry exit codes rather than
// cobra usage noise.
func TestCommands_SilenceUsage(t *testing.T) {
	cmd := NewRootCommand()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		assertSilenced(t, sub)
	}
}

func assertSilenced(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	assert.True(t, cmd.SilenceUsage, "%s should silence usage", cmd.Name())
	assert.True(t, cmd.SilenceErrors, "%s should silence errors", cmd.Name())
}
