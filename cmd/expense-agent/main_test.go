package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommand(t *testing.T) {
	cmd := newCommand()
	for _, name := range []string{"config", "env-file", "data", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "data.txt", cmd.Flags().Lookup("data").DefValue)
}
