// Package store provides the append-only transcript of the conversation
// with the agent, backed by memory or Redis.
package store

import (
	"context"
	"time"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "store")

// Role of the transcript entry
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolCall   Role = "tool_call"
	RoleToolOutput Role = "tool_output"
)

// Message is a single entry of the transcript
type Message struct {
	Role       Role      `json:"role" yaml:"role" toml:"role" validate:"required,oneof=user assistant tool_call tool_output"`
	Content    string    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	CallID     string    `json:"call_id,omitempty" yaml:"call_id,omitempty" toml:"call_id,omitempty"`
	Tool       string    `json:"tool,omitempty" yaml:"tool,omitempty" toml:"tool,omitempty"`
	ResponseID string    `json:"response_id,omitempty" yaml:"response_id,omitempty" toml:"response_id,omitempty"`
	Time       time.Time `json:"time" yaml:"time" toml:"time"`
}

// ChatInfo describes a chat and optionally its messages
type ChatInfo struct {
	ChatID    string         `json:"chat_id" yaml:"chat_id" toml:"chat_id" validate:"required"`
	AgentName string         `json:"agent_name,omitempty" yaml:"agent_name,omitempty" toml:"agent_name,omitempty"`
	Title     string         `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	Messages  []Message      `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty" validate:"dive"`
}

// MessageStore keeps the transcript of the chat identified by
// the chatmodel.ChatContext in the context.
type MessageStore interface {
	// Messages returns the transcript of the current chat
	Messages(ctx context.Context) []Message
	// Add appends messages to the transcript of the current chat
	Add(ctx context.Context, msgs ...Message) error
	// Reset removes the current chat
	Reset(ctx context.Context) error
	// UpdateChat creates or updates the chat title and metadata
	UpdateChat(ctx context.Context, title string, metadata map[string]any) error
	// ListChats returns IDs of the chats served by the agent of the current chat
	ListChats(ctx context.Context) ([]string, error)
	// GetChatInfo returns the chat with its messages,
	// if id is empty then the current chat is returned.
	GetChatInfo(ctx context.Context, id string) (*ChatInfo, error)
}

const defaultTitle = "New Chat"

func stamp(msgs []Message) []Message {
	now := time.Now().UTC()
	res := make([]Message, len(msgs))
	for i, m := range msgs {
		if m.Time.IsZero() {
			m.Time = now
		}
		res[i] = m
	}
	return res
}
