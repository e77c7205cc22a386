package tools

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Toolset combines the tools running in process with the remote registry
type Toolset struct {
	descriptors []Descriptor
	local       map[string]ITool
	remote      *Registry
}

// NewToolset returns Toolset with the remote tools of the registry followed by
// the local tools. The registry is optional.
// The name of a local tool must be unique across the local and remote tools.
func NewToolset(remote *Registry, local ...ITool) (*Toolset, error) {
	s := &Toolset{
		local:  make(map[string]ITool, len(local)),
		remote: remote,
	}

	names := make(map[string]bool)
	if remote != nil {
		s.descriptors = remote.Descriptors()
		for _, name := range remote.Names() {
			names[name] = true
		}
	}

	for _, t := range local {
		name := t.Name()
		if names[name] {
			return nil, errors.Newf("tool %q is already registered", name)
		}
		d, err := LocalDescriptor(t)
		if err != nil {
			return nil, err
		}
		names[name] = true
		s.local[name] = t
		s.descriptors = append(s.descriptors, d)
	}
	return s, nil
}

// LocalDescriptor returns the function tool definition of the tool.
// The descriptor is strict when the parameters schema allows it.
func LocalDescriptor(t ITool) (Descriptor, error) {
	d := Descriptor{
		Type:        "function",
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  EmptyParameters(),
		Strict:      true,
	}

	switch p := t.Parameters().(type) {
	case nil:
	case *jsonschema.Schema:
		js, err := json.Marshal(p)
		if err != nil {
			return d, errors.Wrapf(err, "failed to encode parameters of tool %q", d.Name)
		}
		d.Parameters = js
		d.Strict = IsStrict(p)
	case json.RawMessage:
		if SchemaFromJSON(p) == nil {
			return d, errors.Newf("invalid parameters of tool %q", d.Name)
		}
		d.Parameters = append(json.RawMessage(nil), p...)
		d.Strict = false
	default:
		js, err := json.Marshal(p)
		if err != nil {
			return d, errors.Wrapf(err, "failed to encode parameters of tool %q", d.Name)
		}
		d.Parameters = js
		d.Strict = false
	}
	return d, nil
}

// Descriptors returns the descriptors of the remote tools followed by the local tools
func (s *Toolset) Descriptors() []Descriptor {
	return append([]Descriptor(nil), s.descriptors...)
}

// Names returns the tool names in the order of Descriptors
func (s *Toolset) Names() []string {
	names := make([]string, 0, len(s.descriptors))
	for _, d := range s.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// Tools returns the remote proxies followed by the local tools
func (s *Toolset) Tools() []ITool {
	var list []ITool
	if s.remote != nil {
		list = s.remote.Tools()
	}
	for _, d := range s.descriptors {
		if t, ok := s.local[d.Name]; ok {
			list = append(list, t)
		}
	}
	return list
}

// Tool returns the tool by name
func (s *Toolset) Tool(name string) (ITool, error) {
	if t, ok := s.local[name]; ok {
		return t, nil
	}
	if s.remote != nil {
		return s.remote.Tool(name)
	}
	return nil, errors.Mark(errors.Newf("tool %q is not registered", name), ErrToolNotFound)
}
