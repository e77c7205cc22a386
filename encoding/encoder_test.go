package encoding_test

import (
	"testing"
	"time"

	"github.com/effective-security/mcpagent/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Role    string    `json:"role" yaml:"role" toml:"role" validate:"required"`
	Content string    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Time    time.Time `json:"time" yaml:"time" toml:"time"`
}

type transcript struct {
	ChatID   string  `json:"chat_id" yaml:"chat_id" toml:"chat_id" validate:"required"`
	Messages []entry `json:"messages" yaml:"messages" toml:"messages" validate:"dive"`
}

func Test_ModeFromPath(t *testing.T) {
	tcases := []struct {
		path string
		exp  encoding.Mode
	}{
		{"chat.json", encoding.ModeJSON},
		{"chat.YAML", encoding.ModeYAML},
		{"/tmp/chat.yml", encoding.ModeYAML},
		{"chat.toml", encoding.ModeTOML},
		{"chat", encoding.ModeDefault},
		{"chat.txt", encoding.ModeDefault},
	}
	for _, tc := range tcases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.exp, encoding.ModeFromPath(tc.path))
		})
	}
}

func Test_NewEncoder_Unsupported(t *testing.T) {
	_, err := encoding.NewEncoder("xml")
	assert.EqualError(t, err, `unsupported encoding: "xml"`)
}

func Test_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	val := transcript{
		ChatID: "123",
		Messages: []entry{
			{Role: "user", Content: "How many aspirin?", Time: ts},
			{Role: "assistant", Content: "12 units", Time: ts},
		},
	}

	for _, mode := range []encoding.Mode{encoding.ModeJSON, encoding.ModeYAML, encoding.ModeTOML} {
		t.Run(mode, func(t *testing.T) {
			enc, err := encoding.NewEncoder(mode)
			require.NoError(t, err)

			bs, err := enc.Marshal(val)
			require.NoError(t, err)
			assert.Contains(t, string(bs), "How many aspirin?")

			var got transcript
			require.NoError(t, encoding.Decode(mode, bs, &got))
			assert.Equal(t, val.ChatID, got.ChatID)
			require.Len(t, got.Messages, len(val.Messages))
			for i, m := range val.Messages {
				assert.Equal(t, m.Role, got.Messages[i].Role)
				assert.Equal(t, m.Content, got.Messages[i].Content)
				assert.True(t, m.Time.Equal(got.Messages[i].Time))
			}
		})
	}
}

func Test_Decode(t *testing.T) {
	var got transcript
	err := encoding.Decode(encoding.ModeJSON, []byte("Here is the chat:\n```json\n{\"chat_id\":\"1\",\"messages\":[]}\n```"), &got)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ChatID)

	var noID transcript
	err = encoding.Decode(encoding.ModeYAML, []byte("messages: []\n"), &noID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate")

	err = encoding.Decode(encoding.ModeTOML, []byte("chat_id = "), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode toml")

	err = encoding.Decode("xml", []byte("<a/>"), &got)
	assert.EqualError(t, err, `unsupported encoding: "xml"`)
}
