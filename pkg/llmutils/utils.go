// Package llmutils provides the helpers to clean up and format
// the text exchanged with the models and the tools.
package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CleanJSON returns the JSON object or array found in the text,
// the model can reply like `Here you go: {json}`.
// The text is returned as is if it has no JSON delimiters.
func CleanJSON(bs []byte) []byte {
	start := firstIndex(bs, '{', '[')
	if start >= 0 {
		bs = bs[start:]
	}
	if end := max(bytes.LastIndexByte(bs, '}'), bytes.LastIndexByte(bs, ']')); end >= 0 {
		bs = bs[:end+1]
	}
	return bs
}

func firstIndex(bs []byte, chars ...byte) int {
	idx := -1
	for _, c := range chars {
		if i := bytes.IndexByte(bs, c); i >= 0 && (idx < 0 || i < idx) {
			idx = i
		}
	}
	return idx
}

var fence = []byte("```")

// TrimBackticks removes the code fence, like ```json or ```
func TrimBackticks(text string) string {
	bs := []byte(text)
	start := bytes.Index(bs, fence)
	if start < 0 {
		return text
	}
	bs = bs[start+len(fence):]

	// skip the language tag, unless the content starts on the fence line
	if nl := bytes.IndexByte(bs, '\n'); nl >= 0 && firstIndex(bs[:nl], '{', '[') < 0 {
		bs = bs[nl+1:]
	}
	if end := bytes.LastIndex(bs, fence); end >= 0 {
		bs = bs[:end]
	}
	return string(bytes.TrimSpace(bs))
}

// ToJSON returns the compact JSON of the value
func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

// ToJSONIndent returns the JSON of the value indented with tabs
func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

// BackticksJSON wraps the JSON in the json code fence
func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}
