package dispatch

import (
	"fmt"
	"strings"
)

// CallError is the failure of a single function call
type CallError struct {
	CallID string
	Tool   string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call %s to tool %q failed: %s", e.CallID, e.Tool, e.Err.Error())
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// CallErrors is the list of the failed calls in a turn
type CallErrors struct {
	Errors []*CallError
}

func (e *CallErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, ce := range e.Errors {
		msgs = append(msgs, ce.Error())
	}
	return fmt.Sprintf("%d tool calls failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the errors of the calls, for errors.Is and errors.As
func (e *CallErrors) Unwrap() []error {
	list := make([]error, 0, len(e.Errors))
	for _, ce := range e.Errors {
		list = append(list, ce)
	}
	return list
}
