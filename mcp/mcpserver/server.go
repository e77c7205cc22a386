// Package mcpserver exposes tools over MCP on stdio.
package mcpserver

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "mcpserver")

// Register registers the tools with the MCP server
func Register(registrator tools.McpServerRegistrator, list ...tools.IMCPTool) error {
	for _, t := range list {
		if err := t.RegisterMCP(registrator); err != nil {
			return errors.WithMessagef(err, "failed to register tool %q", t.Name())
		}
		logger.KV(xlog.DEBUG, "status", "registered", "tool", t.Name())
	}
	return nil
}

// Serve serves the tools over stdio until the context is cancelled
// or the client closes stdin.
func Serve(ctx context.Context, list ...tools.IMCPTool) error {
	return ServeIO(ctx, os.Stdin, os.Stdout, list...)
}

// ServeIO serves the tools reading the requests from in and writing
// the responses to out, until the context is cancelled or in is exhausted.
func ServeIO(ctx context.Context, in io.Reader, out io.Writer, list ...tools.IMCPTool) error {
	r := newClosingReader(in)
	server := mcp.NewServer(stdio.NewStdioServerTransportWithIO(r, out))
	if err := Register(server, list...); err != nil {
		return err
	}
	if err := server.Serve(); err != nil {
		return errors.Wrap(err, "failed to serve")
	}

	logger.ContextKV(ctx, xlog.INFO, "status", "serving", "tools", len(list))
	select {
	case <-ctx.Done():
		logger.ContextKV(ctx, xlog.INFO, "status", "stopped")
	case <-r.done:
		logger.ContextKV(ctx, xlog.INFO, "status", "input_closed")
	}
	return nil
}

// closingReader signals done when the reader fails or reaches EOF,
// the stdio transport stops reading silently in that case.
type closingReader struct {
	r    io.Reader
	done chan struct{}
	once sync.Once
}

func newClosingReader(r io.Reader) *closingReader {
	return &closingReader{
		r:    r,
		done: make(chan struct{}),
	}
}

func (c *closingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if err != nil {
		c.once.Do(func() { close(c.done) })
	}
	return n, err
}
