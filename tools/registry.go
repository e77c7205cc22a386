package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "tools")

// Descriptor is the function tool definition used to register the tool with the agent
type Descriptor struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
	Strict      bool            `json:"strict"`
}

// Option is a function that can be used to modify the Registry config.
type Option func(*Config)

type Config struct {
	// ForwardSchema forwards the input schema advertised by the transport
	// to the descriptors, instead of the empty strict schema.
	ForwardSchema bool
}

// WithSchemaForwarding specifies to forward the remote input schema to descriptors
func WithSchemaForwarding(forward bool) Option {
	return func(c *Config) {
		c.ForwardSchema = forward
	}
}

// Registry holds descriptors and proxies for the remote tools
type Registry struct {
	descriptors []Descriptor
	proxies     map[string]*Proxy
}

// Build returns Registry with one descriptor per tool in the list,
// and one proxy per tool name.
// If the list has duplicate names, the later entry shadows the earlier proxy.
func Build(transport Transport, list []RemoteTool, opts ...Option) *Registry {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{
		descriptors: make([]Descriptor, 0, len(list)),
		proxies:     make(map[string]*Proxy, len(list)),
	}
	for _, rt := range list {
		desc := Descriptor{
			Type:        "function",
			Name:        rt.Name,
			Description: rt.Description,
			Parameters:  EmptyParameters(),
			Strict:      true,
		}
		if cfg.ForwardSchema && SchemaFromJSON(rt.InputSchema) != nil {
			desc.Parameters = append(json.RawMessage(nil), rt.InputSchema...)
			// remote schemas do not guarantee the strict mode requirements
			desc.Strict = false
		}
		r.descriptors = append(r.descriptors, desc)

		if _, ok := r.proxies[rt.Name]; ok {
			logger.KV(xlog.WARNING,
				"status", "duplicate_tool",
				"tool", rt.Name,
			)
		}
		r.proxies[rt.Name] = &Proxy{
			desc:      desc,
			transport: transport,
		}
	}
	return r
}

// Discover lists the tools advertised by the transport, and builds the Registry
func Discover(ctx context.Context, transport Transport, opts ...Option) (*Registry, error) {
	list, err := transport.ListTools(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list tools")
	}
	r := Build(transport, list, opts...)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "discovered",
		"tools", strings.Join(r.Names(), ","),
	)
	return r, nil
}

// Descriptors returns the tool descriptors in the order of the remote listing
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// Names returns the tool names in the order of the remote listing
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// Tools returns the proxies as ITool, in the order of the remote listing
func (r *Registry) Tools() []ITool {
	list := make([]ITool, 0, len(r.proxies))
	seen := make(map[string]bool, len(r.proxies))
	for _, d := range r.descriptors {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		list = append(list, r.proxies[d.Name])
	}
	return list
}

// Lookup returns the proxy by name
func (r *Registry) Lookup(name string) (*Proxy, error) {
	p, ok := r.proxies[name]
	if !ok {
		return nil, errors.Mark(errors.Newf("tool %q is not registered", name), ErrToolNotFound)
	}
	return p, nil
}

// Invoke looks up the proxy by name and invokes it with the arguments
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (*Result, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p.Invoke(ctx, args)
}

// Tool returns the proxy by name as ITool
func (r *Registry) Tool(name string) (ITool, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}
