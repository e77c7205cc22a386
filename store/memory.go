package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/x/values"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]*ChatInfo
}

// NewMemoryStore returns MessageStore that keeps transcripts in memory
func NewMemoryStore() MessageStore {
	return &inMemory{}
}

func (m *inMemory) Messages(ctx context.Context) []Message {
	chatID, err := chatmodel.GetChatID(ctx)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if chat := m.storage[chatID]; chat != nil {
		return slices.Clone(chat.Messages)
	}
	return nil
}

func (m *inMemory) Add(ctx context.Context, msgs ...Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, err := m.getOrCreate(ctx)
	if err != nil {
		return err
	}
	chat.Messages = append(chat.Messages, stamp(msgs)...)
	chat.UpdatedAt = time.Now()
	return nil
}

func (m *inMemory) Reset(ctx context.Context) error {
	chatID, err := chatmodel.GetChatID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.storage, chatID)
	return nil
}

func (m *inMemory) UpdateChat(ctx context.Context, title string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, err := m.getOrCreate(ctx)
	if err != nil {
		return err
	}
	if title != "" {
		chat.Title = title
	}
	for k, v := range metadata {
		if chat.Metadata == nil {
			chat.Metadata = make(map[string]any)
		}
		chat.Metadata[k] = v
	}
	chat.UpdatedAt = time.Now()
	return nil
}

func (m *inMemory) ListChats(ctx context.Context) ([]string, error) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return nil, chatmodel.ErrInvalidChatContext
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []string
	for id, chat := range m.storage {
		if chat.AgentName == chatCtx.GetAgentName() {
			list = append(list, id)
		}
	}
	slices.Sort(list)
	return list, nil
}

func (m *inMemory) GetChatInfo(ctx context.Context, id string) (*ChatInfo, error) {
	chatID, err := chatmodel.GetChatID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	chat := m.storage[values.StringsCoalesce(id, chatID)]
	if chat == nil {
		return nil, nil
	}

	c := *chat
	c.Messages = slices.Clone(chat.Messages)
	c.Metadata = maps.Clone(chat.Metadata)
	return &c, nil
}

// getOrCreate must be called under the write lock
func (m *inMemory) getOrCreate(ctx context.Context) (*ChatInfo, error) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return nil, chatmodel.ErrInvalidChatContext
	}
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]*ChatInfo)
	}
	chatID := chatCtx.GetChatID()
	chat := m.storage[chatID]
	if chat == nil {
		now := time.Now()
		chat = &ChatInfo{
			ChatID:    chatID,
			AgentName: chatCtx.GetAgentName(),
			Title:     defaultTitle,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.storage[chatID] = chat
	}
	return chat, nil
}
