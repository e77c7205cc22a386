package store

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxMessages is the number of the most recent messages kept per chat
const DefaultMaxMessages = 200

// The redis store implements the MessageStore interface using Redis as the backend.
// The keys namespace is organized as follows:
// - `/<prefix>/transcripts/<agent>/messages/<chatID>` list of the chat messages
// - `/<prefix>/transcripts/<agent>/info/<chatID>` chat metadata
// - `/<prefix>/transcripts/<agent>/chats` set of chat IDs served by the agent

type redisStore struct {
	client      redis.UniversalClient
	prefix      string
	maxMessages int64
}

// NewRedisStore returns MessageStore backed by Redis,
// maxMessages limits the length of the transcript, if 0 then DefaultMaxMessages is used.
func NewRedisStore(client redis.UniversalClient, prefix string, maxMessages int64) MessageStore {
	return &redisStore{
		client:      client,
		prefix:      prefix,
		maxMessages: values.NumbersCoalesce(maxMessages, DefaultMaxMessages),
	}
}

func (m *redisStore) messagesKey(agent, chatID string) string {
	return path.Join("/", m.prefix, "transcripts", agent, "messages", chatID)
}

func (m *redisStore) infoKey(agent, chatID string) string {
	return path.Join("/", m.prefix, "transcripts", agent, "info", chatID)
}

func (m *redisStore) chatListKey(agent string) string {
	return path.Join("/", m.prefix, "transcripts", agent, "chats")
}

func chatKeys(ctx context.Context) (agent string, chatID string, err error) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return "", "", chatmodel.ErrInvalidChatContext
	}
	return chatCtx.GetAgentName(), chatCtx.GetChatID(), nil
}

func (m *redisStore) Messages(ctx context.Context) []Message {
	agent, chatID, err := chatKeys(ctx)
	if err != nil {
		return nil
	}
	return m.messages(ctx, agent, chatID)
}

func (m *redisStore) messages(ctx context.Context, agent, chatID string) []Message {
	data, err := m.client.LRange(ctx, m.messagesKey(agent, chatID), 0, -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "lrange", "chat", chatID, "err", err.Error())
		return nil
	}

	var messages []Message
	for _, item := range data {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal", "chat", chatID, "err", err.Error())
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (m *redisStore) Add(ctx context.Context, msgs ...Message) error {
	agent, chatID, err := chatKeys(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	items := make([]any, 0, len(msgs))
	for _, msg := range stamp(msgs) {
		data, err := json.Marshal(msg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal message")
		}
		items = append(items, data)
	}

	key := m.messagesKey(agent, chatID)
	pipe := m.client.TxPipeline()
	pipe.RPush(ctx, key, items...)
	pipe.LTrim(ctx, key, -m.maxMessages, -1)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to store message in Redis")
	}

	return m.UpdateChat(ctx, "", nil)
}

func (m *redisStore) Reset(ctx context.Context) error {
	agent, chatID, err := chatKeys(ctx)
	if err != nil {
		return err
	}

	pipe := m.client.TxPipeline()
	pipe.Del(ctx, m.messagesKey(agent, chatID))
	pipe.Del(ctx, m.infoKey(agent, chatID))
	pipe.SRem(ctx, m.chatListKey(agent), chatID)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to reset chat in Redis")
	}
	return nil
}

func (m *redisStore) UpdateChat(ctx context.Context, title string, metadata map[string]any) error {
	agent, chatID, err := chatKeys(ctx)
	if err != nil {
		return err
	}

	chat, isNew, err := m.getChatInfo(ctx, agent, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		now := time.Now()
		chat = &ChatInfo{
			ChatID:    chatID,
			AgentName: agent,
			Title:     defaultTitle,
			CreatedAt: now,
		}
		isNew = true
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

	return m.putChat(ctx, chat, isNew)
}

func (m *redisStore) putChat(ctx context.Context, chat *ChatInfo, isNew bool) error {
	chat.Messages = nil
	data, err := json.Marshal(chat)
	if err != nil {
		return errors.Wrap(err, "failed to marshal chat info")
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, m.infoKey(chat.AgentName, chat.ChatID), data, 0)
	if isNew {
		pipe.SAdd(ctx, m.chatListKey(chat.AgentName), chat.ChatID)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to store chat info in Redis")
	}
	return nil
}

func (m *redisStore) ListChats(ctx context.Context) ([]string, error) {
	agent, _, err := chatKeys(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := m.client.SMembers(ctx, m.chatListKey(agent)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list chats from Redis")
	}
	return ids, nil
}

func (m *redisStore) GetChatInfo(ctx context.Context, id string) (*ChatInfo, error) {
	agent, chatID, err := chatKeys(ctx)
	if err != nil {
		return nil, err
	}
	id = values.StringsCoalesce(id, chatID)

	chat, _, err := m.getChatInfo(ctx, agent, id)
	if err != nil || chat == nil {
		return nil, err
	}
	chat.Messages = m.messages(ctx, agent, id)
	return chat, nil
}

// getChatInfo returns the chat without messages, or nil if the chat does not exist
func (m *redisStore) getChatInfo(ctx context.Context, agent, chatID string) (*ChatInfo, bool, error) {
	data, err := m.client.Get(ctx, m.infoKey(agent, chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to get chat info from Redis")
	}

	chat := &ChatInfo{}
	if err = json.Unmarshal([]byte(data), chat); err != nil {
		return nil, false, errors.Wrap(err, "failed to unmarshal chat info")
	}
	return chat, false, nil
}
