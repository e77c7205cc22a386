package dispatch

import (
	"context"

	"github.com/effective-security/mcpagent/tools"
)

//go:generate mockgen -destination=../mocks/mockdispatch/dispatch_mock.gen.go -package mockdispatch github.com/effective-security/mcpagent/dispatch Callback,Session,Toolset

// Callback receives the events of the turn and of the tool calls
type Callback interface {
	tools.Callback

	OnTurnStart(ctx context.Context, agentName, prompt string)
	OnTurnEnd(ctx context.Context, agentName string, result *TurnResult)
	OnTurnError(ctx context.Context, agentName, prompt string, err error)
	OnToolNotFound(ctx context.Context, agentName, tool string)
}

type noopCallback struct{}

func (noopCallback) OnTurnStart(context.Context, string, string) {}
func (noopCallback) OnTurnEnd(context.Context, string, *TurnResult) {}
func (noopCallback) OnTurnError(context.Context, string, string, error) {}
func (noopCallback) OnToolNotFound(context.Context, string, string) {}
func (noopCallback) OnToolStart(context.Context, tools.ITool, string, string) {}
func (noopCallback) OnToolEnd(context.Context, tools.ITool, string, string, string) {}
func (noopCallback) OnToolError(context.Context, tools.ITool, string, string, error) {}
