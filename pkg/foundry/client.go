// Package foundry provides the HTTP client for the Azure AI Foundry project endpoint:
// agent versions, conversations and responses.
package foundry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
	"github.com/tidwall/sjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg", "foundry")

const (
	// DefaultAPIVersion is the API version used when none is configured
	DefaultAPIVersion = "2025-11-15-preview"

	headerRequestID = "x-ms-client-request-id"
)

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the project endpoint of the agent service.
type Client struct {
	endpoint   string
	apiVersion string
	token      string
	httpClient Doer
}

// Option is an option for the client.
type Option func(*Client)

// WithAPIVersion specifies the API version
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithHTTPClient specifies the HTTP client
func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New returns a new client for the project endpoint
func New(endpoint, token string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("project endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid project endpoint: %q", endpoint)
	}

	c := &Client{
		endpoint:   endpoint,
		apiVersion: DefaultAPIVersion,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the project endpoint
func (c *Client) Endpoint() string {
	return c.endpoint
}

// AgentDefinition is the definition of the prompt agent
type AgentDefinition struct {
	Name         string
	Model        string
	Instructions string
	Tools        []tools.Descriptor
}

// AgentVersion is the registered version of the agent
type AgentVersion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Conversation is the remote conversation
type Conversation struct {
	ID string `json:"id"`
}

// InputItem is the item of the response input
type InputItem struct {
	Type   string `json:"type"`
	CallID string `json:"call_id,omitempty"`
	Output string `json:"output,omitempty"`
	Role   string `json:"role,omitempty"`
	// Content is used for message items
	Content string `json:"content,omitempty"`
}

// InputTypeFunctionCallOutput is the type of the tool output item
const InputTypeFunctionCallOutput = "function_call_output"

// FunctionCallOutput returns the input item with the tool output
func FunctionCallOutput(callID, output string) InputItem {
	return InputItem{
		Type:   InputTypeFunctionCallOutput,
		CallID: callID,
		Output: output,
	}
}

// ResponseRequest is the request to create a response by the agent
type ResponseRequest struct {
	// Agent is the name of the referenced agent
	Agent string
	// Conversation is the optional ID of the conversation
	Conversation string
	// PreviousResponseID is the optional ID of the response to continue
	PreviousResponseID string
	// Prompt is the text input, used when Items is empty
	Prompt string
	// Items are the input items
	Items []InputItem
}

type agentPayload struct {
	Definition agentDefinitionPayload `json:"definition"`
}

type agentDefinitionPayload struct {
	Kind         string             `json:"kind"`
	Model        string             `json:"model"`
	Instructions string             `json:"instructions,omitempty"`
	Tools        []tools.Descriptor `json:"tools"`
}

type agentReference struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateAgent registers a new version of the agent
func (c *Client) CreateAgent(ctx context.Context, def *AgentDefinition) (*AgentVersion, error) {
	if def == nil || def.Name == "" {
		return nil, errors.New("agent name is required")
	}
	payload := agentPayload{
		Definition: agentDefinitionPayload{
			Kind:         "prompt",
			Model:        def.Model,
			Instructions: def.Instructions,
			Tools:        def.Tools,
		},
	}
	if payload.Definition.Tools == nil {
		payload.Definition.Tools = []tools.Descriptor{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	var res AgentVersion
	err = c.do(ctx, "create_agent", http.MethodPost, "/agents/"+url.PathEscape(def.Name)+"/versions", body, &res)
	if err != nil {
		return nil, err
	}
	if res.Name == "" {
		res.Name = def.Name
	}
	return &res, nil
}

// DeleteAgent deletes the version of the agent
func (c *Client) DeleteAgent(ctx context.Context, name, version string) error {
	if name == "" || version == "" {
		return errors.New("agent name and version are required")
	}
	path := "/agents/" + url.PathEscape(name) + "/versions/" + url.PathEscape(version)
	return c.do(ctx, "delete_agent", http.MethodDelete, path, nil, nil)
}

// CreateConversation creates a new conversation
func (c *Client) CreateConversation(ctx context.Context) (*Conversation, error) {
	var res Conversation
	err := c.do(ctx, "create_conversation", http.MethodPost, "/openai/conversations", []byte("{}"), &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateResponse creates a response by the referenced agent
func (c *Client) CreateResponse(ctx context.Context, r *ResponseRequest) (*responses.Response, error) {
	body, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var res responses.Response
	err = c.do(ctx, "create_response", http.MethodPost, "/openai/responses", body, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarshalJSON returns the body of the response request
func (r *ResponseRequest) MarshalJSON() ([]byte, error) {
	if r == nil || r.Agent == "" {
		return nil, errors.New("agent reference is required")
	}

	var params responses.ResponseNewParams
	if r.PreviousResponseID != "" {
		params.PreviousResponseID = param.NewOpt(r.PreviousResponseID)
	}
	body, err := json.Marshal(&params)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	// the model is defined by the agent
	body, err = sjson.DeleteBytes(body, "model")
	if err != nil {
		return nil, errors.Wrap(err, "delete model")
	}

	body, err = sjson.SetBytes(body, "agent", agentReference{Name: r.Agent, Type: "agent_reference"})
	if err != nil {
		return nil, errors.Wrap(err, "set agent")
	}
	if r.Conversation != "" {
		body, err = sjson.SetBytes(body, "conversation", r.Conversation)
		if err != nil {
			return nil, errors.Wrap(err, "set conversation")
		}
	}
	if len(r.Items) > 0 {
		body, err = sjson.SetBytes(body, "input", r.Items)
	} else {
		body, err = sjson.SetBytes(body, "input", r.Prompt)
	}
	if err != nil {
		return nil, errors.Wrap(err, "set input")
	}
	return body, nil
}

// APIError is returned when the service replies with non-2xx status
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API returned unexpected status code: %d", e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

type errorMessage struct {
	Error APIError `json:"error"`
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s%s?api-version=%s", c.endpoint, path, url.QueryEscape(c.apiVersion))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(headerRequestID, uuid.NewString())
}

func (c *Client) do(ctx context.Context, method, httpMethod, path string, body []byte, res any) error {
	defer metricskey.PerfAgentRequest.MeasureSince(time.Now(), method)

	u := c.buildURL(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, u, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	c.setHeaders(req)

	logger.ContextKV(ctx, xlog.DEBUG,
		"method", method,
		"url", u,
		"request_id", req.Header.Get(headerRequestID),
	)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "send %s request", method)
	}
	defer func() { _ = r.Body.Close() }()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}

	if r.StatusCode < 200 || r.StatusCode > 299 {
		apiErr := &APIError{StatusCode: r.StatusCode}
		var errResp errorMessage
		if len(data) > 0 && json.Unmarshal(data, &errResp) == nil {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"method", method,
			"status", r.StatusCode,
			"err", apiErr.Error(),
		)
		return apiErr
	}

	if res == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, res); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
