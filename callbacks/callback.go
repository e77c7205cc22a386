package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ dispatch.Callback = (*Noop)(nil)
	_ tools.Callback    = (*Noop)(nil)
	_ dispatch.Callback = (*Printer)(nil)
	_ tools.Callback    = (*Printer)(nil)
	_ dispatch.Callback = (*PackageLogger)(nil)
	_ tools.Callback    = (*PackageLogger)(nil)
	_ dispatch.Callback = (*Fanout)(nil)
	_ tools.Callback    = (*Fanout)(nil)
	_ dispatch.Callback = (*Scratchpad)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []dispatch.Callback
}

func NewFanout(callbacks ...dispatch.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback dispatch.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnTurnStart(ctx context.Context, agentName, prompt string) {
	for _, callback := range l.callbacks {
		callback.OnTurnStart(ctx, agentName, prompt)
	}
}

func (l *Fanout) OnTurnEnd(ctx context.Context, agentName string, result *dispatch.TurnResult) {
	for _, callback := range l.callbacks {
		callback.OnTurnEnd(ctx, agentName, result)
	}
}

func (l *Fanout) OnTurnError(ctx context.Context, agentName, prompt string, err error) {
	for _, callback := range l.callbacks {
		callback.OnTurnError(ctx, agentName, prompt, err)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, agentName, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, agentName, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, agentName, input, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, agentName, tool string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, agentName, tool)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnTurnStart(ctx context.Context, agentName, prompt string) {}
func (l *Noop) OnTurnEnd(ctx context.Context, agentName string, result *dispatch.TurnResult) {
}
func (l *Noop) OnTurnError(ctx context.Context, agentName, prompt string, err error) {}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
}
func (l *Noop) OnToolNotFound(ctx context.Context, agentName, tool string) {}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnTurnStart(ctx context.Context, agentName, prompt string) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Start: %s\n", agentName)
	fmt.Fprintf(l.Out, "Input: %s\n", prompt)
}

func (l *Printer) OnTurnEnd(ctx context.Context, agentName string, result *dispatch.TurnResult) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn End: %s: %d tool calls, follow-up: %t\n", agentName, len(result.Calls), result.FollowUp)
}

func (l *Printer) OnTurnError(ctx context.Context, agentName, prompt string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Error: %s: %s\n", agentName, err.Error())
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s (%s)\n", tool.Name(), agentName)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Input: %s\n", input)
	}
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s (%s)\n", tool.Name(), agentName)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s (%s): %s\n", tool.Name(), agentName, err.Error())
}

func (l *Printer) OnToolNotFound(ctx context.Context, agentName, tool string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Not Found: %s (%s)\n", tool, agentName)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnTurnStart(ctx context.Context, agentName, prompt string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "turn_start",
		"agent", agentName,
		"input", prompt,
	)
}

func (l *PackageLogger) OnTurnEnd(ctx context.Context, agentName string, result *dispatch.TurnResult) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "turn_end",
		"agent", agentName,
		"response_id", result.ResponseID,
		"calls", len(result.Calls),
		"follow_up", result.FollowUp,
	)
}

func (l *PackageLogger) OnTurnError(ctx context.Context, agentName, prompt string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "turn_error",
		"agent", agentName,
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"agent", agentName,
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"agent", agentName,
		"tool", tool.Name(),
		"output", output,
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"agent", agentName,
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, agentName, tool string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "tool_not_found",
		"agent", agentName,
		"tool", tool,
	)
}
