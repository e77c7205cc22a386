package tools_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/mocks/mocktools"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/mcpagent/tools/expense"
	"github.com/effective-security/mcpagent/tools/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewToolset(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocktools.NewMockTransport(ctrl)

	r := tools.Build(transport, []tools.RemoteTool{
		{Name: "get_inventory_levels", Description: "levels"},
		{Name: "get_weekly_sales", Description: "sales"},
	})
	var out bytes.Buffer
	claim := expense.NewSubmitClaim(&out)

	s, err := tools.NewToolset(r, claim)
	require.NoError(t, err)
	assert.Equal(t, []string{"get_inventory_levels", "get_weekly_sales", "submit_claim"}, s.Names())

	descs := s.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, r.Descriptors(), descs[:2])
	assert.True(t, descs[2].Strict)
	assert.NotEqual(t, string(tools.EmptyParameters()), string(descs[2].Parameters))

	list := s.Tools()
	require.Len(t, list, 3)
	assert.Same(t, claim, list[2])

	tool, err := s.Tool("submit_claim")
	require.NoError(t, err)
	assert.Same(t, claim, tool)

	transport.EXPECT().CallTool(gomock.Any(), "get_weekly_sales", gomock.Any()).
		Return(tools.TextResult(`{"Mouse":3}`), nil)
	tool, err = s.Tool("get_weekly_sales")
	require.NoError(t, err)
	res, err := tool.Call(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, `{"Mouse":3}`, res)

	_, err = s.Tool("send_email")
	assert.True(t, errors.Is(err, tools.ErrToolNotFound))
}

func TestNewToolset_LocalOnly(t *testing.T) {
	claim := expense.NewSubmitClaim(&bytes.Buffer{})

	s, err := tools.NewToolset(nil, claim)
	require.NoError(t, err)
	assert.Equal(t, []string{"submit_claim"}, s.Names())
	assert.Len(t, s.Tools(), 1)

	_, err = s.Tool("get_inventory_levels")
	assert.True(t, errors.Is(err, tools.ErrToolNotFound))

	s, err = tools.NewToolset(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Descriptors())
	assert.Empty(t, s.Tools())
}

func TestNewToolset_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := tools.Build(mocktools.NewMockTransport(ctrl), []tools.RemoteTool{
		{Name: "submit_claim"},
	})

	_, err := tools.NewToolset(r, expense.NewSubmitClaim(&bytes.Buffer{}))
	assert.EqualError(t, err, `tool "submit_claim" is already registered`)

	_, err = tools.NewToolset(nil, expense.NewSubmitClaim(&bytes.Buffer{}), expense.NewSubmitClaim(&bytes.Buffer{}))
	assert.EqualError(t, err, `tool "submit_claim" is already registered`)
}

func TestLocalDescriptor(t *testing.T) {
	ctrl := gomock.NewController(t)

	// products are optional, the schema can not be strict
	d, err := tools.LocalDescriptor(inventory.NewInventoryLevels(inventory.DefaultCatalog()))
	require.NoError(t, err)
	assert.False(t, d.Strict)
	assert.Contains(t, string(d.Parameters), `"products"`)

	raw := mocktools.NewMockITool(ctrl)
	raw.EXPECT().Name().Return("raw").AnyTimes()
	raw.EXPECT().Description().Return("raw schema").AnyTimes()
	raw.EXPECT().Parameters().Return(json.RawMessage(`{"type":"object","properties":{"sku":{"type":"string"}}}`))
	d, err = tools.LocalDescriptor(raw)
	require.NoError(t, err)
	assert.False(t, d.Strict)
	assert.JSONEq(t, `{"type":"object","properties":{"sku":{"type":"string"}}}`, string(d.Parameters))

	raw.EXPECT().Parameters().Return(json.RawMessage(`[1]`))
	_, err = tools.LocalDescriptor(raw)
	assert.EqualError(t, err, `invalid parameters of tool "raw"`)

	raw.EXPECT().Parameters().Return(nil)
	d, err = tools.LocalDescriptor(raw)
	require.NoError(t, err)
	assert.True(t, d.Strict)
	assert.Equal(t, tools.EmptyParameters(), d.Parameters)
}
