package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsTurnsSucceeded is base for counter metric for dispatch turns completed
	StatsTurnsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_turns_succeeded",
		Help:         "stats_turns_succeeded provides total dispatch turns succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsTurnsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_turns_failed",
		Help:         "stats_turns_failed provides total dispatch turns failed",
		RequiredTags: []string{"agent"},
	}

	StatsFollowUps = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_follow_ups",
		Help:         "stats_follow_ups provides total follow-up submissions with tool outputs",
		RequiredTags: []string{"agent"},
	}

	StatsResponsesFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_responses_failed",
		Help:         "stats_responses_failed provides total responses returned with failed status",
		RequiredTags: []string{"agent"},
	}

	StatsAgentsCreated = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agents_created",
		Help:         "stats_agents_created provides total agent versions registered",
		RequiredTags: []string{"agent"},
	}

	StatsAgentsDeleted = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agents_deleted",
		Help:         "stats_agents_deleted provides total agent versions deleted",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfTurn = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_turn",
		Help:         "perf_turn provides duration of a dispatch turn",
		RequiredTags: []string{"agent"},
	}

	PerfAgentRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_request",
		Help:         "perf_agent_request provides duration of a request to the agent service",
		RequiredTags: []string{"method"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentRequest,
	&PerfToolCall,
	&PerfTurn,
	&StatsAgentsCreated,
	&StatsAgentsDeleted,
	&StatsFollowUps,
	&StatsResponsesFailed,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsTurnsFailed,
	&StatsTurnsSucceeded,
}
