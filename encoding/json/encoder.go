package json

import (
	"encoding/json"

	"github.com/bububa/ljson"
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
	return json.MarshalIndent(v, "", "\t")
}

// Unmarshal is lenient to the text around JSON and to minor syntax errors
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.CleanJSON(bs)
	return ljson.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	return e.validate.Struct(req)
}
