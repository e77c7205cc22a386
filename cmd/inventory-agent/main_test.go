package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	cmd := newCommand()
	for _, name := range []string{"config", "env-file", "verbose", "transcript"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, ".env", cmd.Flags().Lookup("env-file").DefValue)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MODEL_DEPLOYMENT_NAME", "from-process")
	t.Setenv("PROJECT_ENDPOINT", "")
	require.NoError(t, os.Unsetenv("PROJECT_ENDPOINT"))

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte(
		"PROJECT_ENDPOINT=https://contoso.services.ai.azure.com/api/projects/p1\n"+
			"MODEL_DEPLOYMENT_NAME=from-file\n"), 0o600))

	require.NoError(t, loadEnv(file))
	assert.Equal(t, "https://contoso.services.ai.azure.com/api/projects/p1", os.Getenv("PROJECT_ENDPOINT"))
	// the process environment wins
	assert.Equal(t, "from-process", os.Getenv("MODEL_DEPLOYMENT_NAME"))

	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, loadEnv(""))
}

func TestTranscriptCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`chat_id: "1001"
agent_name: inventory-agent
created_at: 2025-11-15T10:00:00Z
updated_at: 2025-11-15T10:01:00Z
messages:
  - role: user
    content: Which products need restock?
    time: 2025-11-15T10:00:00Z
  - role: tool_call
    content: "{}"
    call_id: c1
    tool: get_inventory_levels
    time: 2025-11-15T10:00:01Z
  - role: tool_output
    content: '{"Shampoo":8}'
    call_id: c1
    tool: get_inventory_levels
    time: 2025-11-15T10:00:02Z
  - role: assistant
    content: Restock Shampoo.
    response_id: resp_2
    time: 2025-11-15T10:00:03Z
`), 0o600))

	var out bytes.Buffer
	cmd := newCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"transcript", file})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, `Chat 1001 with inventory-agent
[user] Which products need restock?
[tool_call get_inventory_levels] {}
[tool_output get_inventory_levels] {"Shampoo":8}
[assistant] Restock Shampoo.
`, out.String())

	cmd = newCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"transcript", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, cmd.Execute())
}
