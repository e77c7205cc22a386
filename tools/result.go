package tools

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// RemoteTool is the tool as advertised by the transport
type RemoteTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ContentBlock is a single block of the tool result
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

// Result is the raw result of the remote tool call
type Result struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentTypeText is the type of the text content block
const ContentTypeText = "text"

// ExtractFirstText returns the text of the first content block of the result
func ExtractFirstText(res *Result) (string, error) {
	if res == nil || len(res.Content) == 0 {
		return "", errors.Mark(errors.New("tool returned no content"), ErrToolInvocation)
	}
	block := res.Content[0]
	if block.Type != ContentTypeText {
		return "", errors.Mark(errors.Newf("tool returned %q content, expected text", block.Type), ErrToolInvocation)
	}
	return block.Text, nil
}

// TextResult returns Result with a single text block
func TextResult(text string) *Result {
	return &Result{
		Content: []ContentBlock{{Type: ContentTypeText, Text: text}},
	}
}
