package dispatch

import (
	"github.com/effective-security/mcpagent/store"
)

// Option is a function that can be used to modify the Loop config.
type Option func(*Config)

type Config struct {
	// FailureOutputs sends the readable failure text as the output of the failed call,
	// otherwise the failed calls are not included in the follow-up.
	FailureOutputs bool

	// CallbackHandler receives the turn and tool events
	CallbackHandler Callback

	// Store records the transcript of the turns
	Store store.MessageStore
}

// WithFailureOutputs specifies to submit the failure text for the failed calls
func WithFailureOutputs(enabled bool) Option {
	return func(c *Config) {
		c.FailureOutputs = enabled
	}
}

// WithCallback specifies the callback handler
func WithCallback(callback Callback) Option {
	return func(c *Config) {
		c.CallbackHandler = callback
	}
}

// WithStore specifies the transcript store
func WithStore(st store.MessageStore) Option {
	return func(c *Config) {
		c.Store = st
	}
}
