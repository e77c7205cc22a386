package tools_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restockInput struct {
	Products []string `json:"products" jsonschema:"description=Product names"`
	Below    int      `json:"below,omitempty"`
}

func TestInputSchema(t *testing.T) {
	s := tools.InputSchema(reflect.TypeOf(&restockInput{}))
	assert.Same(t, s, tools.InputSchema(reflect.TypeOf(restockInput{})), "cached per type")

	js, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(js, &m))
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []any{"products"}, m["required"])

	props := m["properties"].(map[string]any)
	require.Len(t, props, 2)
	products := props["products"].(map[string]any)
	assert.Equal(t, "array", products["type"])
	assert.Equal(t, "Product names", products["description"])
	assert.NotContains(t, m, "$defs")
	assert.NotContains(t, m, "$ref")
	assert.Equal(t, false, m["additionalProperties"])

	// below is optional
	assert.False(t, tools.IsStrict(s))
}

type claimInput struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func TestIsStrict(t *testing.T) {
	assert.True(t, tools.IsStrict(tools.EmptySchema()))
	assert.True(t, tools.IsStrict(tools.InputSchema(reflect.TypeOf(claimInput{}))))
	assert.False(t, tools.IsStrict(nil))
	assert.False(t, tools.IsStrict(tools.SchemaFromJSON(json.RawMessage(`{"type":"object"}`))))
}

func TestEmptyParameters(t *testing.T) {
	assert.JSONEq(t, `{"type":"object","properties":{},"additionalProperties":false}`, string(tools.EmptyParameters()))
	assert.Nil(t, tools.SchemaFromJSON(nil))
	assert.Nil(t, tools.SchemaFromJSON(json.RawMessage(`[1,2]`)))
	s := tools.SchemaFromJSON(json.RawMessage(`{"type":"object"}`))
	require.NotNil(t, s)
	assert.Equal(t, "object", s.Type)
}
