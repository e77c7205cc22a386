package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/tools"
)

var TimeNowFn = time.Now

type RunStats struct {
	ChatID    string
	AgentName string

	Duration            time.Duration
	Turns               uint32
	TurnsSucceeded      uint32
	TurnsFailed         uint32
	FollowUps           uint32
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsFailed    uint32
	ToolNotFound        uint32
}

// Scratchpad collects the events and the stats of the chat run.
// The run is identified by the chatmodel.ChatContext in the context.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

func (l *Scratchpad) StartRun(ctx context.Context) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	r := &run{
		stats: RunStats{
			ChatID:    chatCtx.GetChatID(),
			AgentName: chatCtx.GetAgentName(),
		},
		chatCtx: chatCtx,
		started: time.Now(),
	}
	l.runs[chatCtx.GetChatID()] = r
	r.print("*** Run Started ***")
}

func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	stats := run.stats
	stats.Duration = time.Since(run.started)

	run.print(fmt.Sprintf("Turns: %d, Failed: %d, Follow-ups: %d",
		stats.Turns,
		stats.TurnsFailed,
		stats.FollowUps,
	))
	run.print(fmt.Sprintf("Tool calls: %d, Failed: %d, Not Found: %d",
		stats.ToolsCalls,
		stats.ToolsCallsFailed,
		stats.ToolNotFound,
	))
	run.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	l.lock.Lock()
	delete(l.runs, run.chatCtx.GetChatID())
	l.lock.Unlock()

	return &stats, run.w.Bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[chatCtx.GetChatID()]
}

func (l *Scratchpad) OnTurnStart(ctx context.Context, agentName, prompt string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.Turns, 1)
	run.print(agentName, "*** Turn Start ***")
	run.print(agentName, "Input:", prompt)
}

func (l *Scratchpad) OnTurnEnd(ctx context.Context, agentName string, result *dispatch.TurnResult) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.TurnsSucceeded, 1)
	if result.FollowUp {
		atomic.AddUint32(&run.stats.FollowUps, 1)
	}
	if l.mode == ModeVerbose {
		run.print(agentName, "Output:", result.Output)
	}
	run.print(agentName, "*** Turn End ***", result.ResponseID)
}

func (l *Scratchpad) OnTurnError(ctx context.Context, agentName, prompt string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.TurnsFailed, 1)
	run.print(agentName, "*** Turn Error ***", err.Error())
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCalls, 1)
	run.print(agentName, tool.Name(), "*** Tool Start ***")
	run.print(agentName, tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCallsSucceeded, 1)
	if l.mode == ModeVerbose {
		run.print(agentName, tool.Name(), "Output:", output)
	}
	run.print(agentName, tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCallsFailed, 1)
	run.print(agentName, tool.Name(), "*** Tool Error ***", err.Error())
}

func (l *Scratchpad) OnToolNotFound(ctx context.Context, agentName, tool string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolNotFound, 1)
	run.print(agentName, "*** Tool Not Found ***", tool)
}

type run struct {
	chatCtx chatmodel.ChatContext
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's output.
// The entries are written in the following format:
// timestamp chatID entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.chatCtx.GetChatID())
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}
