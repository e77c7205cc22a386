package foundry_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newServer(t *testing.T, status int, reply string, calls *[]recorded) *foundry.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*calls = append(*calls, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	c, err := foundry.New(srv.URL+"/api/projects/lab/", "token123",
		foundry.WithAPIVersion("2025-05-15-preview"),
		foundry.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	_, err := foundry.New("", "t")
	assert.EqualError(t, err, "project endpoint is required")

	_, err = foundry.New("not a url", "t")
	assert.EqualError(t, err, `invalid project endpoint: "not a url"`)

	c, err := foundry.New("https://lab.services.ai.azure.com/api/projects/lab/", "t")
	require.NoError(t, err)
	assert.Equal(t, "https://lab.services.ai.azure.com/api/projects/lab", c.Endpoint())
}

func TestCreateAgent(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"id":"inventory-agent:3","name":"inventory-agent","version":"3"}`, &calls)

	res, err := c.CreateAgent(context.Background(), &foundry.AgentDefinition{
		Name:         "inventory-agent",
		Model:        "gpt-4.1",
		Instructions: "manage inventory",
		Tools: []tools.Descriptor{
			{Type: "function", Name: "get_inventory_levels", Parameters: tools.EmptyParameters(), Strict: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "inventory-agent", res.Name)
	assert.Equal(t, "3", res.Version)

	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/projects/lab/agents/inventory-agent/versions", call.Path)
	assert.Equal(t, "api-version=2025-05-15-preview", call.Query)
	assert.Equal(t, "Bearer token123", call.Header.Get("Authorization"))
	assert.NotEmpty(t, call.Header.Get("x-ms-client-request-id"))

	body := gjson.ParseBytes(call.Body)
	assert.Equal(t, "prompt", body.Get("definition.kind").String())
	assert.Equal(t, "gpt-4.1", body.Get("definition.model").String())
	assert.Equal(t, "manage inventory", body.Get("definition.instructions").String())
	assert.Equal(t, "get_inventory_levels", body.Get("definition.tools.0.name").String())
	assert.Equal(t, "function", body.Get("definition.tools.0.type").String())
	assert.True(t, body.Get("definition.tools.0.strict").Bool())
	assert.False(t, body.Get("definition.tools.0.parameters.additionalProperties").Bool())

	_, err = c.CreateAgent(context.Background(), &foundry.AgentDefinition{})
	assert.EqualError(t, err, "agent name is required")
}

func TestCreateAgent_Rejected(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusBadRequest, `{"error":{"code":"invalid_model","message":"model not deployed"}}`, &calls)

	_, err := c.CreateAgent(context.Background(), &foundry.AgentDefinition{Name: "a", Model: "x"})
	require.Error(t, err)

	var apiErr *foundry.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_model", apiErr.Code)
	assert.Equal(t, "API returned unexpected status code: 400: invalid_model: model not deployed", err.Error())
}

func TestAPIError_NoBody(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusInternalServerError, ``, &calls)

	_, err := c.CreateConversation(context.Background())
	assert.EqualError(t, err, "API returned unexpected status code: 500")
}

func TestDeleteAgent(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"name":"inventory-agent","version":"3","deleted":true}`, &calls)

	err := c.DeleteAgent(context.Background(), "inventory-agent", "3")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/api/projects/lab/agents/inventory-agent/versions/3", calls[0].Path)

	err = c.DeleteAgent(context.Background(), "inventory-agent", "")
	assert.EqualError(t, err, "agent name and version are required")
	assert.Len(t, calls, 1)
}

func TestCreateConversation(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"id":"conv_123","object":"conversation"}`, &calls)

	conv, err := c.CreateConversation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "conv_123", conv.ID)
	assert.Equal(t, "/api/projects/lab/openai/conversations", calls[0].Path)
}

const functionCallResponse = `{
	"id": "resp_1",
	"object": "response",
	"status": "completed",
	"output": [
		{"type": "function_call", "id": "fc_1", "call_id": "call_1", "name": "get_inventory_levels", "arguments": "{}", "status": "completed"}
	]
}`

func TestCreateResponse(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, functionCallResponse, &calls)

	res, err := c.CreateResponse(context.Background(), &foundry.ResponseRequest{
		Agent:        "inventory-agent",
		Conversation: "conv_123",
		Prompt:       "What should I restock?",
	})
	require.NoError(t, err)
	assert.Equal(t, "resp_1", res.ID)
	require.Len(t, res.Output, 1)
	fc := res.Output[0].AsFunctionCall()
	assert.Equal(t, "call_1", fc.CallID)
	assert.Equal(t, "get_inventory_levels", fc.Name)

	require.Len(t, calls, 1)
	assert.Equal(t, "/api/projects/lab/openai/responses", calls[0].Path)
	body := gjson.ParseBytes(calls[0].Body)
	assert.Equal(t, "inventory-agent", body.Get("agent.name").String())
	assert.Equal(t, "agent_reference", body.Get("agent.type").String())
	assert.Equal(t, "conv_123", body.Get("conversation").String())
	assert.Equal(t, "What should I restock?", body.Get("input").String())
	assert.False(t, body.Get("previous_response_id").Exists())
	assert.False(t, body.Get("model").Exists())
}

func TestResponseRequest_FollowUp(t *testing.T) {
	r := &foundry.ResponseRequest{
		Agent:              "inventory-agent",
		PreviousResponseID: "resp_1",
		Items: []foundry.InputItem{
			foundry.FunctionCallOutput("call_1", `{"Mouse": 25}`),
			foundry.FunctionCallOutput("call_2", "8"),
		},
	}
	body, err := json.Marshal(r)
	require.NoError(t, err)

	js := gjson.ParseBytes(body)
	assert.Equal(t, "resp_1", js.Get("previous_response_id").String())
	items := js.Get("input").Array()
	require.Len(t, items, 2)
	assert.Equal(t, "function_call_output", items[0].Get("type").String())
	assert.Equal(t, "call_1", items[0].Get("call_id").String())
	assert.Equal(t, `{"Mouse": 25}`, items[0].Get("output").String())
	assert.Equal(t, "call_2", items[1].Get("call_id").String())

	_, err = (&foundry.ResponseRequest{}).MarshalJSON()
	assert.EqualError(t, err, "agent reference is required")
}
