package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `name: greeting
description: "Greeting event matches on arguments"
members:
  - name: Greeted
    kind: event
    params: [string]
steps:
  - feed_event:
      member: Greeted
      args: ["hello"]
  - expect_event:
      patterns:
        - member: Greeted
          args: ["hello"]
      expect_match: 0
`

const invalidYAML = `name: broken
description: "References an undeclared member"
members:
  - name: Greeted
    kind: event
steps:
  - feed_event:
      member: Missing
      args: []
`

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand_Valid(t *testing.T) {
	path := writeScenario(t, "ok.yaml", validYAML)

	stdout, _, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 scenario file(s) valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeScenario(t, "broken.yaml", invalidYAML)

	stdout, _, err := executeCommand("validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "undeclared member")
}

func TestValidateCommand_MixedInputs(t *testing.T) {
	good := writeScenario(t, "ok.yaml", validYAML)
	bad := writeScenario(t, "broken.yaml", invalidYAML)

	stdout, _, err := executeCommand("validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, stdout, "1 of 2 scenario file(s) invalid")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, _, err := executeCommand("validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	path := writeScenario(t, "ok.yaml", validYAML)

	stdout, _, err := executeCommand("validate", "--format", "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Files)
}
