package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/mcpagent/tools/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitClaim(t *testing.T) {
	var out bytes.Buffer
	tool := expense.NewSubmitClaim(&out)
	assert.Equal(t, expense.SubmitClaimToolName, tool.Name())
	assert.NotEmpty(t, tool.Description())

	res, err := tool.Call(context.Background(), "```json\n"+
		`{"to":"expenses@contoso.com","subject":"Expense Claim","body":"Taxi 24.00\nTotal 24.00"}`+
		"\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"sent","to":"expenses@contoso.com","subject":"Expense Claim"}`, res)
	assert.Equal(t, "\nTo: expenses@contoso.com\nSubject: Expense Claim\nTaxi 24.00\nTotal 24.00\n\n", out.String())

	sent := tool.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Expense Claim", sent[0].Subject)
}

func TestSubmitClaim_Invalid(t *testing.T) {
	var out bytes.Buffer
	tool := expense.NewSubmitClaim(&out)

	_, err := tool.Call(context.Background(), "")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	_, err = tool.Call(context.Background(), "{to:")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	_, err = tool.Call(context.Background(), `{"to":"not an email","subject":"Expense Claim","body":"Taxi"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid claim")
	assert.Contains(t, err.Error(), "'To'")

	_, err = tool.Run(context.Background(), nil)
	assert.EqualError(t, err, "claim is required")

	assert.Empty(t, out.String())
	assert.Empty(t, tool.Sent())
}

func TestSubmitClaim_Parameters(t *testing.T) {
	tool := expense.NewSubmitClaim(&bytes.Buffer{})

	d, err := tools.LocalDescriptor(tool)
	require.NoError(t, err)
	assert.Equal(t, "function", d.Type)
	assert.Equal(t, expense.SubmitClaimToolName, d.Name)
	assert.True(t, d.Strict)

	var m map[string]any
	require.NoError(t, json.Unmarshal(d.Parameters, &m))
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, false, m["additionalProperties"])
	assert.Equal(t, []any{"to", "subject", "body"}, m["required"])

	props := m["properties"].(map[string]any)
	require.Len(t, props, 3)
	assert.Equal(t, "Who to send the email to", props["to"].(map[string]any)["description"])
	assert.Equal(t, "string", props["body"].(map[string]any)["type"])
}
