// Package mcp provides the tool transport over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "mcp")

// ErrTransportUnavailable is returned when the tool transport
// can not be established or was dropped
var ErrTransportUnavailable = errors.New("tool transport unavailable")

// Implementation identifies the client to MCP servers
var Implementation = &mcpsdk.Implementation{Name: "mcpagent", Version: "v1"}

// Client is the MCP client session to the tool-execution server
type Client struct {
	spec    string
	lock    sync.RWMutex
	session *mcpsdk.ClientSession
}

var _ tools.Transport = (*Client)(nil)

// Connect builds the transport for the spec and initializes the MCP session.
// The context must outlive the client for the stdio transport,
// as it controls the lifetime of the subprocess.
func Connect(ctx context.Context, spec string) (*Client, error) {
	transport, err := transportBuilder(ctx, spec)
	if err != nil {
		return nil, errors.Mark(errors.WithMessage(err, "failed to build transport"), ErrTransportUnavailable)
	}

	impl := mcpsdk.NewClient(Implementation, nil)
	session, err := impl.Connect(ctx, transport, nil)
	if err != nil {
		return nil, errors.Mark(errors.WithMessagef(err, "failed to connect to %q", spec), ErrTransportUnavailable)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "connected",
		"spec", spec,
	)
	return &Client{spec: spec, session: session}, nil
}

// ListTools returns the tools advertised by the server
func (c *Client) ListTools(ctx context.Context) ([]tools.RemoteTool, error) {
	session, err := c.getSession()
	if err != nil {
		return nil, err
	}

	var list []tools.RemoteTool
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, c.convertError(err, "failed to list tools")
		}
		list = append(list, toRemoteTool(tool))
	}
	return list, nil
}

// CallTool invokes the tool and returns its result
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*tools.Result, error) {
	session, err := c.getSession()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, c.convertError(err, "failed to call tool")
	}
	return toResult(res), nil
}

// Close releases the session and the subprocess.
// It is safe to call Close multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.lock.Lock()
	session := c.session
	c.session = nil
	c.lock.Unlock()

	if session == nil {
		return nil
	}
	logger.KV(xlog.DEBUG, "status", "closing", "spec", c.spec)
	return errors.WithStack(session.Close())
}

func (c *Client) getSession() (*mcpsdk.ClientSession, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.session == nil {
		return nil, errors.Mark(errors.New("session is closed"), ErrTransportUnavailable)
	}
	return c.session, nil
}

func (c *Client) convertError(err error, msg string) error {
	err = errors.WithMessage(err, msg)
	if errors.Is(err, mcpsdk.ErrConnectionClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return errors.Mark(err, ErrTransportUnavailable)
	}
	return err
}

func toRemoteTool(tool *mcpsdk.Tool) tools.RemoteTool {
	if tool == nil {
		return tools.RemoteTool{}
	}
	rt := tools.RemoteTool{
		Name:        tool.Name,
		Description: tool.Description,
	}
	if tool.InputSchema != nil {
		if js, err := json.Marshal(tool.InputSchema); err == nil {
			rt.InputSchema = js
		}
	}
	return rt
}

func toResult(res *mcpsdk.CallToolResult) *tools.Result {
	r := &tools.Result{}
	if res == nil {
		return r
	}
	r.IsError = res.IsError
	for _, content := range res.Content {
		switch c := content.(type) {
		case *mcpsdk.TextContent:
			r.Content = append(r.Content, tools.ContentBlock{Type: tools.ContentTypeText, Text: c.Text})
		case *mcpsdk.ImageContent:
			r.Content = append(r.Content, tools.ContentBlock{Type: "image", MIMEType: c.MIMEType})
		case *mcpsdk.AudioContent:
			r.Content = append(r.Content, tools.ContentBlock{Type: "audio", MIMEType: c.MIMEType})
		default:
			r.Content = append(r.Content, tools.ContentBlock{Type: "unsupported"})
		}
	}
	return r
}
