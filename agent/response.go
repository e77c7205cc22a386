package agent

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	"github.com/openai/openai-go/v3/responses"
)

// Status of the response
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Item is the output item of the response, either TextItem or FunctionCall
type Item interface {
	isItem()
}

// TextItem is the text output of the agent
type TextItem struct {
	Text string
}

// FunctionCall is the request from the agent to invoke a tool
type FunctionCall struct {
	CallID    string
	Name      string
	Arguments string
}

func (TextItem) isItem()     {}
func (FunctionCall) isItem() {}

// Args decodes the arguments of the call
func (c FunctionCall) Args() (map[string]any, error) {
	return tools.DecodeArgs(c.Arguments)
}

// FunctionCallResult is the output of the tool invocation for the call
type FunctionCallResult struct {
	CallID string
	Output string
}

// Response is the response of the agent
type Response struct {
	ID         string
	Status     Status
	Items      []Item
	OutputText string

	ErrorCode   string
	ErrorDetail string
}

// FunctionCalls returns the function call items, in order
func (r *Response) FunctionCalls() []FunctionCall {
	var list []FunctionCall
	for _, item := range r.Items {
		if fc, ok := item.(FunctionCall); ok {
			list = append(list, fc)
		}
	}
	return list
}

// Err returns *RequestFailure if the response failed, nil otherwise
func (r *Response) Err() error {
	if r.Status != StatusFailed {
		return nil
	}
	return errors.Mark(&RequestFailure{
		ResponseID: r.ID,
		Code:       r.ErrorCode,
		Detail:     r.ErrorDetail,
	}, ErrRemoteRequestFailure)
}

// RequestFailure describes the failed response
type RequestFailure struct {
	ResponseID string
	Code       string
	Detail     string
}

func (e *RequestFailure) Error() string {
	switch {
	case e.Code != "" && e.Detail != "":
		return fmt.Sprintf("response failed: %s: %s", e.Code, e.Detail)
	case e.Detail != "":
		return "response failed: " + e.Detail
	case e.Code != "":
		return "response failed: " + e.Code
	}
	return "response failed"
}

// fromResponse converts the service response
func fromResponse(res *responses.Response) *Response {
	r := &Response{
		ID:     res.ID,
		Status: StatusOK,
	}

	switch res.Status {
	case responses.ResponseStatusFailed, responses.ResponseStatusCancelled:
		r.Status = StatusFailed
		r.ErrorCode = string(res.Error.Code)
		r.ErrorDetail = res.Error.Message
		if r.ErrorCode == "" && r.ErrorDetail == "" {
			r.ErrorDetail = "status " + string(res.Status)
		}
	}

	for _, item := range res.Output {
		switch item.Type {
		case "function_call":
			fc := item.AsFunctionCall()
			r.Items = append(r.Items, FunctionCall{
				CallID:    fc.CallID,
				Name:      fc.Name,
				Arguments: fc.Arguments,
			})
		case "message":
			msg := item.AsMessage()
			for _, content := range msg.Content {
				if content.Type == "output_text" {
					r.Items = append(r.Items, TextItem{Text: content.Text})
				}
			}
		}
	}

	r.OutputText = res.OutputText()
	return r
}

// String returns JSON representation of the response, for logs
func (r *Response) String() string {
	type item struct {
		Type      string `json:"type"`
		Text      string `json:"text,omitempty"`
		CallID    string `json:"call_id,omitempty"`
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	}
	v := struct {
		ID     string `json:"id"`
		Status Status `json:"status"`
		Items  []item `json:"items,omitempty"`
	}{ID: r.ID, Status: r.Status}
	for _, it := range r.Items {
		switch typ := it.(type) {
		case TextItem:
			v.Items = append(v.Items, item{Type: "text", Text: typ.Text})
		case FunctionCall:
			v.Items = append(v.Items, item{Type: "function_call", CallID: typ.CallID, Name: typ.Name, Arguments: typ.Arguments})
		}
	}
	js, _ := json.Marshal(v)
	return string(js)
}
