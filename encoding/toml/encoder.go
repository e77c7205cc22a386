package toml

import (
	"github.com/BurntSushi/toml"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/go-playground/validator/v10"
)

type Encoder struct {
	validate *validator.Validate
}

func NewEncoder() *Encoder {
	return &Encoder{validate: validator.New()}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.TrimBackticks(string(bs))
	return toml.Unmarshal([]byte(data), ret)
}

func (e *Encoder) Validate(req any) error {
	return e.validate.Struct(req)
}
