package mcp

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T, calls *atomic.Int32) *Client {
	t.Helper()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "inventory-test", Version: "test"}, nil)
	registerTestTools(server, calls)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		session, err := server.Connect(ctx, serverTransport, nil)
		ready <- err
		if err != nil {
			return
		}
		<-ctx.Done()
		_ = session.Close()
	}()
	require.NoError(t, <-ready)

	original := transportBuilder
	transportBuilder = func(context.Context, string) (mcpsdk.Transport, error) {
		return clientTransport, nil
	}
	t.Cleanup(func() { transportBuilder = original })

	client, err := Connect(context.Background(), "inmemory")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		cancel()
		<-done
	})
	return client
}

func registerTestTools(server *mcpsdk.Server, calls *atomic.Int32) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "get_inventory_levels",
		Description: "Returns inventory levels",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sku": map[string]any{"type": "string"},
			},
		},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		if calls != nil {
			calls.Add(1)
		}
		var args map[string]any
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return nil, err
		}
		if sku, ok := args["sku"].(string); ok {
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: sku + ": 12"}},
			}, nil
		}
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: `{"aspirin": 12, "ibuprofen": 3}`}},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "get_logo",
		Description: "Returns image",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.ImageContent{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
		}, nil
	})
}

func TestClient_ListTools(t *testing.T) {
	client := setupTestClient(t, nil)

	list, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	byName := map[string]tools.RemoteTool{}
	for _, rt := range list {
		byName[rt.Name] = rt
	}
	inv, ok := byName["get_inventory_levels"]
	require.True(t, ok)
	assert.Equal(t, "Returns inventory levels", inv.Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(inv.InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestClient_CallTool(t *testing.T) {
	var calls atomic.Int32
	client := setupTestClient(t, &calls)
	ctx := context.Background()

	res, err := client.CallTool(ctx, "get_inventory_levels", nil)
	require.NoError(t, err)
	txt, err := tools.ExtractFirstText(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aspirin": 12, "ibuprofen": 3}`, txt)

	res, err = client.CallTool(ctx, "get_inventory_levels", map[string]any{"sku": "aspirin"})
	require.NoError(t, err)
	txt, err = tools.ExtractFirstText(res)
	require.NoError(t, err)
	assert.Equal(t, "aspirin: 12", txt)
	assert.Equal(t, int32(2), calls.Load())

	res, err = client.CallTool(ctx, "get_logo", nil)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "image", res.Content[0].Type)
	assert.Equal(t, "image/png", res.Content[0].MIMEType)
	_, err = tools.ExtractFirstText(res)
	assert.True(t, errors.Is(err, tools.ErrToolInvocation))

	// unknown tool fails the call, not the session
	_, err = client.CallTool(ctx, "get_weather", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTransportUnavailable))

	_, err = client.ListTools(ctx)
	assert.NoError(t, err)
}

func TestClient_Registry(t *testing.T) {
	client := setupTestClient(t, nil)
	ctx := context.Background()

	r, err := tools.Discover(ctx, client)
	require.NoError(t, err)
	assert.Len(t, r.Tools(), 2)

	res, err := r.Invoke(ctx, "get_inventory_levels", map[string]any{"sku": "ibuprofen"})
	require.NoError(t, err)
	txt, err := tools.ExtractFirstText(res)
	require.NoError(t, err)
	assert.Equal(t, "ibuprofen: 12", txt)
}

func TestClient_Closed(t *testing.T) {
	client := setupTestClient(t, nil)
	_ = client.Close()
	// second close is a no-op
	require.NoError(t, client.Close())

	_, err := client.ListTools(context.Background())
	assert.True(t, errors.Is(err, ErrTransportUnavailable))
	_, err = client.CallTool(context.Background(), "get_inventory_levels", nil)
	assert.True(t, errors.Is(err, ErrTransportUnavailable))
}

func TestClient_CloseNil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
	assert.NoError(t, (&Client{}).Close())
}

type failingTransport struct{}

func (failingTransport) Connect(context.Context) (mcpsdk.Connection, error) {
	return nil, errors.New("connect failed")
}

func TestConnect_Errors(t *testing.T) {
	original := transportBuilder
	t.Cleanup(func() { transportBuilder = original })

	_, err := Connect(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransportUnavailable))
	assert.EqualError(t, err, "failed to build transport: transport spec is empty")

	transportBuilder = func(context.Context, string) (mcpsdk.Transport, error) {
		return failingTransport{}, nil
	}
	_, err = Connect(context.Background(), "bad-connect")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransportUnavailable))
	assert.Contains(t, err.Error(), `failed to connect to "bad-connect"`)
}
