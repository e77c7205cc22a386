// Package dispatch runs the turn with the agent: submits the prompt,
// resolves the function calls against the registered tools,
// and submits the tool outputs back to the agent.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/store"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "dispatch")

// Session is the agent session the turn is run against
type Session interface {
	Name() string
	Submit(ctx context.Context, prompt string) (*agent.Response, error)
	SubmitFollowUp(ctx context.Context, results []agent.FunctionCallResult, previousResponseID string) (*agent.Response, error)
}

// Toolset resolves the tool by the name of the function call
type Toolset interface {
	Tool(name string) (tools.ITool, error)
}

// CallOutcome is the outcome of a single function call
type CallOutcome struct {
	CallID string
	Tool   string
	Output string
	Err    error
}

// TurnResult is the result of the turn
type TurnResult struct {
	Prompt string
	// Output is the output text of the final response
	Output string
	// ResponseID is the ID of the final response
	ResponseID string
	// FollowUp is true when the tool outputs were submitted
	FollowUp bool
	Calls    []CallOutcome
}

// Loop runs the turns with the agent, one at a time
type Loop struct {
	session Session
	toolset Toolset
	cfg     Config
}

// New returns the Loop for the session and the tools
func New(session Session, toolset Toolset, opts ...Option) *Loop {
	l := &Loop{
		session: session,
		toolset: toolset,
	}
	for _, opt := range opts {
		opt(&l.cfg)
	}
	if l.cfg.CallbackHandler == nil {
		l.cfg.CallbackHandler = noopCallback{}
	}
	return l
}

// RunTurn submits the prompt, invokes the requested tools in order,
// and submits their outputs in a single follow-up.
// The failed calls do not abort the turn: the result is returned
// together with *CallErrors.
func (l *Loop) RunTurn(ctx context.Context, prompt string) (*TurnResult, error) {
	name := l.session.Name()
	defer metricskey.PerfTurn.MeasureSince(time.Now(), name)

	cb := l.cfg.CallbackHandler
	cb.OnTurnStart(ctx, name, prompt)
	l.record(ctx, store.Message{Role: store.RoleUser, Content: prompt})

	res, err := l.runTurn(ctx, name, prompt)
	if err != nil && res == nil {
		metricskey.StatsTurnsFailed.IncrCounter(1, name)
		cb.OnTurnError(ctx, name, prompt, err)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "turn_failed",
			"agent", name,
			"err", err.Error(),
		)
		return nil, err
	}

	metricskey.StatsTurnsSucceeded.IncrCounter(1, name)
	l.record(ctx, store.Message{Role: store.RoleAssistant, Content: res.Output, ResponseID: res.ResponseID})
	cb.OnTurnEnd(ctx, name, res)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "turn_completed",
		"agent", name,
		"response_id", res.ResponseID,
		"calls", len(res.Calls),
		"follow_up", res.FollowUp,
		"output", slices.StringUpto(res.Output, 64),
	)
	return res, err
}

func (l *Loop) runTurn(ctx context.Context, name, prompt string) (*TurnResult, error) {
	resp, err := l.session.Submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if err = resp.Err(); err != nil {
		return nil, err
	}

	res := &TurnResult{
		Prompt:     prompt,
		Output:     resp.OutputText,
		ResponseID: resp.ID,
	}

	var results []agent.FunctionCallResult
	var failed []*CallError
	for _, item := range resp.Items {
		switch call := item.(type) {
		case agent.FunctionCall:
			outcome := l.call(ctx, name, call)
			res.Calls = append(res.Calls, outcome)

			if outcome.Err == nil {
				results = append(results, agent.FunctionCallResult{CallID: call.CallID, Output: outcome.Output})
				continue
			}
			failed = append(failed, &CallError{CallID: call.CallID, Tool: call.Name, Err: outcome.Err})
			if l.cfg.FailureOutputs {
				results = append(results, agent.FunctionCallResult{CallID: call.CallID, Output: failureOutput(call.Name, outcome.Err)})
			}
		case agent.TextItem:
			// the final answer is read from the output text of the response
		}
	}

	if len(results) > 0 {
		metricskey.StatsFollowUps.IncrCounter(1, name)
		final, err := l.session.SubmitFollowUp(ctx, results, resp.ID)
		if err != nil {
			return nil, err
		}
		if err = final.Err(); err != nil {
			return nil, err
		}
		res.FollowUp = true
		res.Output = final.OutputText
		res.ResponseID = final.ID
	}

	if len(failed) > 0 {
		return res, &CallErrors{Errors: failed}
	}
	return res, nil
}

// call invokes the tool for the function call
func (l *Loop) call(ctx context.Context, name string, call agent.FunctionCall) CallOutcome {
	cb := l.cfg.CallbackHandler
	outcome := CallOutcome{
		CallID: call.CallID,
		Tool:   call.Name,
	}
	l.record(ctx, store.Message{Role: store.RoleToolCall, Content: call.Arguments, CallID: call.CallID, Tool: call.Name})

	tool, err := l.toolset.Tool(call.Name)
	if err != nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, call.Name)
		cb.OnToolNotFound(ctx, name, call.Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", name,
			"status", "tool_not_found",
			"tool", call.Name,
			"call_id", call.CallID,
		)
		outcome.Err = err
		return outcome
	}

	cb.OnToolStart(ctx, tool, name, call.Arguments)
	started := time.Now()
	output, err := tool.Call(ctx, call.Arguments)
	metricskey.PerfToolCall.MeasureSince(started, call.Name)

	if err != nil {
		if !errors.Is(err, tools.ErrToolInvocation) && !errors.Is(err, tools.ErrFailedUnmarshalInput) {
			err = errors.Mark(err, tools.ErrToolInvocation)
		}
		metricskey.StatsToolCallsFailed.IncrCounter(1, call.Name)
		cb.OnToolError(ctx, tool, name, call.Arguments, err)
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", name,
			"status", "tool_failed",
			"tool", call.Name,
			"call_id", call.CallID,
			"err", err.Error(),
		)
		outcome.Err = err
		return outcome
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, call.Name)
	cb.OnToolEnd(ctx, tool, name, call.Arguments, output)
	l.record(ctx, store.Message{Role: store.RoleToolOutput, Content: output, CallID: call.CallID, Tool: call.Name})

	outcome.Output = output
	return outcome
}

func (l *Loop) record(ctx context.Context, msg store.Message) {
	if l.cfg.Store == nil {
		return
	}
	if err := l.cfg.Store.Add(ctx, msg); err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "record_failed",
			"role", msg.Role,
			"err", err.Error(),
		)
	}
}

func failureOutput(tool string, err error) string {
	if errors.Is(err, tools.ErrToolNotFound) {
		return fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match.", tool)
	}
	if errors.Is(err, tools.ErrFailedUnmarshalInput) {
		return fmt.Sprintf("Tool `%s` failed to parse the arguments, check the JSON schema and try again: %s", tool, err.Error())
	}
	return fmt.Sprintf("Tool `%s` failed: %s", tool, err.Error())
}
