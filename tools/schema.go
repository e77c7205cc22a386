package tools

import (
	"encoding/json"
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EmptySchema returns the strict object schema with no properties
func EmptySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           orderedmap.New[string, *jsonschema.Schema](),
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

var emptyParameters = func() json.RawMessage {
	js, err := json.Marshal(EmptySchema())
	if err != nil {
		panic(err)
	}
	return js
}()

// EmptyParameters returns JSON of EmptySchema
func EmptyParameters() json.RawMessage {
	return append(json.RawMessage(nil), emptyParameters...)
}

var (
	schemaCache   = make(map[reflect.Type]*jsonschema.Schema)
	schemaCacheMu sync.Mutex
)

// InputSchema returns the schema of the tool input type,
// as the flat object schema expected by the function tools.
// The schemas are cached per type.
func InputSchema(t reflect.Type) *jsonschema.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if s, ok := schemaCache[t]; ok {
		return s
	}

	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		// same struct names from different packages must not collide in $defs
		Namer: func(t reflect.Type) string {
			if t.Kind() != reflect.Struct {
				return t.Name()
			}
			return t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(t.PkgPath()+"/"+t.Name()), 10)
		},
	}
	raw := r.ReflectFromType(t)

	s := &jsonschema.Schema{
		Type:                 "object",
		Description:          raw.Description,
		Properties:           raw.Properties,
		Required:             raw.Required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if s.Properties == nil {
		s.Properties = orderedmap.New[string, *jsonschema.Schema]()
	}
	schemaCache[t] = s
	return s
}

// IsStrict returns true if the schema satisfies the strict mode of the function tools:
// no additional properties, and every property is required.
func IsStrict(s *jsonschema.Schema) bool {
	if s == nil || s.AdditionalProperties != jsonschema.FalseSchema {
		return false
	}
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if !required[pair.Key] {
				return false
			}
		}
	}
	return true
}

// SchemaFromJSON decodes the schema advertised by the remote tool,
// nil is returned if the schema is empty or invalid.
func SchemaFromJSON(js json.RawMessage) *jsonschema.Schema {
	if len(js) == 0 {
		return nil
	}
	s := new(jsonschema.Schema)
	if err := json.Unmarshal(js, s); err != nil {
		return nil
	}
	return s
}
