package tools

import "github.com/cockroachdb/errors"

var (
	// ErrToolNotFound is returned when the function call names a tool absent from the registry
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolInvocation is returned when the tool call fails or returns unextractable content
	ErrToolInvocation = errors.New("tool invocation failed")
	// ErrFailedUnmarshalInput is returned when the tool arguments can not be decoded
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
)
