package mcp

import (
	"context"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	stdioSchemePrefix = "stdio://"
	sseSchemePrefix   = "sse://"
	sseSuffix         = "+sse://"
)

// transportBuilder is replaced in tests
var transportBuilder = buildTransport

// buildTransport returns the MCP transport for the spec:
//
//	stdio://<command args> or <command args>: spawned subprocess
//	sse://host/path or http+sse://host/path: Server-Sent Events
//	http://host/path or https://host/path: streamable HTTP
func buildTransport(ctx context.Context, spec string) (mcpsdk.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("transport spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return buildStdioTransport(ctx, spec[len(stdioSchemePrefix):])
	case strings.HasPrefix(lowered, sseSchemePrefix):
		endpoint, err := normalizeHTTPURL(spec[len(sseSchemePrefix):], true)
		if err != nil {
			return nil, errors.WithMessage(err, "invalid SSE endpoint")
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	case strings.HasPrefix(lowered, "http+sse://"), strings.HasPrefix(lowered, "https+sse://"):
		// the scheme is matched case-insensitive, the rest of the URL is kept as is
		i := strings.Index(lowered, sseSuffix)
		endpoint, err := normalizeHTTPURL(lowered[:i]+"://"+spec[i+len(sseSuffix):], false)
		if err != nil {
			return nil, errors.WithMessage(err, "invalid SSE endpoint")
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	case strings.HasPrefix(lowered, "http://"), strings.HasPrefix(lowered, "https://"):
		endpoint, err := normalizeHTTPURL(spec, false)
		if err != nil {
			return nil, errors.WithMessage(err, "invalid HTTP endpoint")
		}
		return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
	}

	return buildStdioTransport(ctx, spec)
}

func buildStdioTransport(ctx context.Context, cmdSpec string) (mcpsdk.Transport, error) {
	parts := strings.Fields(cmdSpec)
	if len(parts) == 0 {
		return nil, errors.New("stdio command is empty")
	}
	// #nosec G204 -- the command comes from the trusted configuration
	command := exec.CommandContext(ctx, parts[0], parts[1:]...)
	// the subprocess inherits the environment, and logs to our stderr
	command.Stderr = os.Stderr
	return &mcpsdk.CommandTransport{Command: command}, nil
}

func normalizeHTTPURL(raw string, allowSchemeGuess bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("endpoint is empty")
	}
	if allowSchemeGuess && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", errors.WithStack(err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", errors.Newf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.New("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
