// Package encoding provides the codecs used to export and import transcripts.
package encoding

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/mcpagent/encoding/json"
	tomlenc "github.com/effective-security/mcpagent/encoding/toml"
	yamlenc "github.com/effective-security/mcpagent/encoding/yaml"
)

type Encoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal([]byte, any) error
}

type Validator interface {
	Validate(any) error
}

type Mode = string

const (
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeTOML Mode = "toml"
)

// ModeDefault is the mode used when it can not be detected from the file name
var ModeDefault = ModeJSON

// NewEncoder returns the encoder for the mode
func NewEncoder(mode Mode) (Encoder, error) {
	switch mode {
	case ModeJSON:
		return jsonenc.NewEncoder(), nil
	case ModeYAML:
		return yamlenc.NewEncoder(), nil
	case ModeTOML:
		return tomlenc.NewEncoder(), nil
	default:
		return nil, errors.Newf("unsupported encoding: %q", mode)
	}
}

// ModeFromPath returns the encoding mode by the file extension
func ModeFromPath(name string) Mode {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ModeYAML
	case ".toml":
		return ModeTOML
	case ".json":
		return ModeJSON
	default:
		return ModeDefault
	}
}

// Decode unmarshals data into v and validates the result
func Decode(mode Mode, data []byte, v any) error {
	enc, err := NewEncoder(mode)
	if err != nil {
		return err
	}
	if err = enc.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", mode)
	}
	if validator, ok := enc.(Validator); ok {
		if err = validator.Validate(v); err != nil {
			return errors.Wrap(err, "failed to validate")
		}
	}
	return nil
}

var (
	_ Encoder   = (*jsonenc.Encoder)(nil)
	_ Encoder   = (*tomlenc.Encoder)(nil)
	_ Encoder   = (*yamlenc.Encoder)(nil)
	_ Validator = (*jsonenc.Encoder)(nil)
	_ Validator = (*tomlenc.Encoder)(nil)
	_ Validator = (*yamlenc.Encoder)(nil)
)
