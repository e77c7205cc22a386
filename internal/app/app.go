// Package app runs the inventory agent application:
// it connects the tools transport, registers the agent,
// and runs the interactive loop until quit.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/callbacks"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/internal/repl"
	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/config"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/effective-security/mcpagent/store"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/internal", "app")

// Transport is the tools transport owned by the application
type Transport interface {
	tools.Transport
	Close() error
}

// ConnectFunc connects to the tools server
type ConnectFunc func(ctx context.Context, spec string) (Transport, error)

// Deps are the collaborators of the application,
// the nil values are created from the configuration.
type Deps struct {
	Connect  ConnectFunc
	Service  agent.Service
	Store    store.MessageStore
	Callback dispatch.Callback

	// Verbose prints the tool inputs and outputs, and the run stats
	Verbose bool
	// TranscriptFile is the optional file to export the chat on exit
	TranscriptFile string
}

func connectMCP(ctx context.Context, spec string) (Transport, error) {
	client, err := mcp.Connect(ctx, spec)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Run connects the transport, discovers the tools, opens the agent session,
// and runs the prompt loop. The agent and the transport are released
// in reverse order on every exit path.
func Run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, deps Deps) (err error) {
	instructions, err := cfg.Instructions()
	if err != nil {
		return err
	}

	connect := deps.Connect
	if connect == nil {
		connect = connectMCP
	}
	service := deps.Service
	if service == nil {
		client, err := foundry.New(cfg.Project.Endpoint, cfg.Project.Token, foundry.WithAPIVersion(cfg.Project.APIVersion))
		if err != nil {
			return err
		}
		service = client
	}
	st := deps.Store
	if st == nil {
		var closeStore func() error
		st, closeStore, err = OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		defer func() {
			_ = closeStore()
		}()
	}

	// cancelled on the fatal errors of the turns
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	transport, err := connect(ctx, cfg.MCP.Server)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := transport.Close(); cerr != nil {
			logger.ContextKV(ctx, xlog.WARNING, "status", "transport_close_failed", "err", cerr.Error())
		}
	}()

	registry, err := tools.Discover(ctx, transport, tools.WithSchemaForwarding(cfg.Agent.ForwardSchema))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nConnected to server with tools: %v\n", registry.Names())
	logger.ContextKV(ctx, xlog.DEBUG, "status", "tools", "descriptions", tools.GetDescriptions(registry.Tools()...))

	session, err := agent.Open(ctx, service, agent.Definition{
		Name:         cfg.Agent.Name,
		Model:        cfg.Agent.Model,
		Instructions: instructions,
		Tools:        registry.Descriptors(),
	})
	if err != nil {
		return err
	}
	defer func() {
		fmt.Fprintln(out, "Cleaning up agents:")
		// the agent must be deleted even when the run was cancelled
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			fmt.Fprintf(out, "Failed to delete agent: %s\n", cerr.Error())
			if err == nil {
				err = cerr
			}
			return
		}
		fmt.Fprintf(out, "Deleted agent %s.\n", session.Name())
	}()

	chatCtx := chatmodel.NewChatContext(session.Name(), chatmodel.NewChatID(), nil)
	ctx = chatmodel.WithChatContext(ctx, chatCtx)

	mode := callbacks.ModeDefault
	if deps.Verbose {
		mode = callbacks.ModeVerbose
	}
	scratchpad := callbacks.NewScratchpad(mode)
	fanout := callbacks.NewFanout(scratchpad, callbacks.NewPackageLogger(logger))
	if deps.Callback != nil {
		fanout.Add(deps.Callback)
	} else {
		fanout.Add(callbacks.NewPrinter(out, mode))
	}

	loop := dispatch.New(session, registry,
		dispatch.WithCallback(fanout),
		dispatch.WithStore(st),
		dispatch.WithFailureOutputs(cfg.Agent.FailureOutputs),
	)

	scratchpad.StartRun(ctx)
	err = repl.Run(ctx, in, out, &guard{runner: loop, cancel: cancel})

	stats, trace := scratchpad.EndRun(ctx)
	if deps.Verbose && stats != nil {
		_, _ = out.Write(trace)
	}

	if deps.TranscriptFile != "" {
		if xerr := store.ExportFile(context.WithoutCancel(ctx), st, deps.TranscriptFile); xerr != nil {
			logger.ContextKV(ctx, xlog.ERROR, "status", "export_failed", "file", deps.TranscriptFile, "err", xerr.Error())
		}
	}

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		// fatal error of the turn
		return cause
	}
	if errors.Is(err, context.Canceled) {
		// interrupted by the signal
		return nil
	}
	return err
}

// OpenStore returns the transcript store for the configuration:
// Redis when the URL is configured, the in-memory store otherwise.
func OpenStore(cfg config.StoreConfig) (store.MessageStore, func() error, error) {
	if cfg.RedisURL == "" {
		return store.NewMemoryStore(), func() error { return nil }, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid redis URL")
	}
	client := redis.NewClient(opts)
	return store.NewRedisStore(client, cfg.Prefix, cfg.MaxMessages), client.Close, nil
}

// guard cancels the run on the errors the session can not recover from
type guard struct {
	runner repl.Runner
	cancel context.CancelCauseFunc
}

func (g *guard) RunTurn(ctx context.Context, prompt string) (*dispatch.TurnResult, error) {
	res, err := g.runner.RunTurn(ctx, prompt)
	if IsFatal(err) {
		logger.ContextKV(ctx, xlog.ERROR, "status", "fatal", "err", err.Error())
		g.cancel(err)
	}
	return res, err
}

// IsFatal returns true if the session can not continue after the error
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var callErrs *dispatch.CallErrors
	if errors.As(err, &callErrs) {
		for _, ce := range callErrs.Errors {
			if IsFatal(ce.Err) {
				return true
			}
		}
		return false
	}
	return errors.Is(err, mcp.ErrTransportUnavailable) ||
		errors.Is(err, agent.ErrRemoteRegistration)
}
