package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

var (
	// ErrInvalidChatContext is returned when the context does not carry a ChatContext
	ErrInvalidChatContext = errors.New("invalid chat context")
)

// ChatContext is the context for the conversation with the agent.
// It contains the chat ID used to group the transcript,
// and the name of the agent serving the chat.
type ChatContext interface {
	GetChatID() string
	SetChatID(chatID string)
	GetAgentName() string
	// AppData returns immutable app data
	AppData() any
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type chatContext struct {
	lock      sync.RWMutex
	chatID    string
	agentName string
	metadata  sync.Map
	appData   any
}

func (c *chatContext) GetChatID() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.chatID
}

func (c *chatContext) SetChatID(chatID string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.chatID = chatID
}

func (c *chatContext) GetAgentName() string {
	return c.agentName
}

func (c *chatContext) AppData() any {
	return c.appData
}

func (c *chatContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *chatContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// NewChatContext returns a new ChatContext,
// if chatID is empty, a new one is generated.
func NewChatContext(agentName, chatID string, appData any) ChatContext {
	return &chatContext{
		chatID:    values.StringsCoalesce(chatID, NewChatID()),
		agentName: agentName,
		appData:   appData,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// GetChatID retrieves the chat ID from the provided context.
// If the context does not contain a ChatContext, it returns ErrInvalidChatContext.
func GetChatID(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v.GetChatID(), nil
	}
	return "", ErrInvalidChatContext
}

// SetChatID updates the chat ID of the ChatContext in the context
func SetChatID(ctx context.Context, chatID string) (context.Context, error) {
	v, ok := ctx.Value(keyContext).(ChatContext)
	if !ok {
		return ctx, ErrInvalidChatContext
	}
	v.SetChatID(chatID)
	return ctx, nil
}

// NewChatID generates a new chat ID using the flake ID generator.
func NewChatID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
