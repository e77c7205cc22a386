// Package agent provides the session with the remote agent:
// the agent registration, the conversation and the response cycle.
package agent

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3/responses"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "agent")

//go:generate mockgen -destination=../mocks/mockagent/agent_mock.gen.go -package mockagent github.com/effective-security/mcpagent/agent Service

var (
	// ErrRemoteRegistration is returned when the service rejects the agent definition
	ErrRemoteRegistration = errors.New("agent registration failed")
	// ErrRemoteRequestFailure is returned when the service reports the response as failed
	ErrRemoteRequestFailure = errors.New("agent request failed")
	// ErrNoResults is returned when the follow-up has no results to submit
	ErrNoResults = errors.New("no function call results to submit")
	// ErrClosed is returned when the session is used after Close
	ErrClosed = errors.New("agent session is closed")
)

// Service is the remote agent service
type Service interface {
	CreateAgent(ctx context.Context, def *foundry.AgentDefinition) (*foundry.AgentVersion, error)
	DeleteAgent(ctx context.Context, name, version string) error
	CreateConversation(ctx context.Context) (*foundry.Conversation, error)
	CreateResponse(ctx context.Context, r *foundry.ResponseRequest) (*responses.Response, error)
}

// Definition of the agent
type Definition struct {
	Name         string
	Model        string
	Instructions string
	Tools        []tools.Descriptor
}

// Handle is the registration record of the agent
type Handle struct {
	Name    string
	Version string
}

// Session owns one agent registration and one conversation
type Session struct {
	service        Service
	handle         Handle
	conversationID string

	lock   sync.Mutex
	closed bool
}

// Open registers the agent version and creates the conversation.
// The caller must Close the session.
func Open(ctx context.Context, service Service, def Definition) (*Session, error) {
	ver, err := service.CreateAgent(ctx, &foundry.AgentDefinition{
		Name:         def.Name,
		Model:        def.Model,
		Instructions: def.Instructions,
		Tools:        def.Tools,
	})
	if err != nil {
		return nil, errors.Mark(errors.WithMessagef(err, "failed to create agent %q", def.Name), ErrRemoteRegistration)
	}
	metricskey.StatsAgentsCreated.IncrCounter(1, def.Name)

	s := &Session{
		service: service,
		handle: Handle{
			Name:    ver.Name,
			Version: ver.Version,
		},
	}
	if s.handle.Name == "" {
		s.handle.Name = def.Name
	}

	logger.ContextKV(ctx, xlog.INFO,
		"status", "agent_created",
		"agent", s.handle.Name,
		"version", s.handle.Version,
		"tools", len(def.Tools),
	)

	conv, err := service.CreateConversation(ctx)
	if err != nil {
		// the agent is registered, release it before failing
		_ = s.Close(context.WithoutCancel(ctx))
		return nil, errors.Mark(errors.WithMessage(err, "failed to create conversation"), ErrRemoteRegistration)
	}
	// the conversation is held for the lifetime of the agent,
	// the turns are correlated by the response IDs
	s.conversationID = conv.ID
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "conversation_created",
		"agent", s.handle.Name,
		"conversation", s.conversationID,
	)

	return s, nil
}

// Name returns the agent name
func (s *Session) Name() string {
	return s.handle.Name
}

// Handle returns the registration record
func (s *Session) Handle() Handle {
	return s.handle
}

// Submit sends the prompt to the agent.
// The failed response is returned with StatusFailed, not as error.
func (s *Session) Submit(ctx context.Context, prompt string) (*Response, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	// turns are not chained by the conversation,
	// the follow-up is correlated by the previous response ID only
	return s.create(ctx, &foundry.ResponseRequest{
		Agent:  s.handle.Name,
		Prompt: prompt,
	})
}

// SubmitFollowUp sends the function call results correlated
// by the ID of the response the calls came from.
func (s *Session) SubmitFollowUp(ctx context.Context, results []FunctionCallResult, previousResponseID string) (*Response, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if s.isClosed() {
		return nil, ErrClosed
	}

	items := make([]foundry.InputItem, 0, len(results))
	for _, r := range results {
		items = append(items, foundry.FunctionCallOutput(r.CallID, r.Output))
	}
	return s.create(ctx, &foundry.ResponseRequest{
		Agent:              s.handle.Name,
		PreviousResponseID: previousResponseID,
		Items:              items,
	})
}

func (s *Session) create(ctx context.Context, req *foundry.ResponseRequest) (*Response, error) {
	res, err := s.service.CreateResponse(ctx, req)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create response")
	}

	r := fromResponse(res)
	if r.Status == StatusFailed {
		metricskey.StatsResponsesFailed.IncrCounter(1, s.handle.Name)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", r.Status,
		"agent", s.handle.Name,
		"response_id", r.ID,
		"previous_response_id", req.PreviousResponseID,
		"items", len(r.Items),
	)
	return r, nil
}

// Close deletes the agent version.
// Subsequent calls do nothing.
func (s *Session) Close(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.service.DeleteAgent(ctx, s.handle.Name, s.handle.Version)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "delete_agent_failed",
			"agent", s.handle.Name,
			"version", s.handle.Version,
			"err", err.Error(),
		)
		return errors.WithMessagef(err, "failed to delete agent %q version %q", s.handle.Name, s.handle.Version)
	}
	metricskey.StatsAgentsDeleted.IncrCounter(1, s.handle.Name)

	logger.ContextKV(ctx, xlog.INFO,
		"status", "agent_deleted",
		"agent", s.handle.Name,
		"version", s.handle.Version,
	)
	return nil
}

func (s *Session) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}
