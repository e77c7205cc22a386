package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// Proxy forwards the tool invocation to the transport.
// Proxy is safe to call multiple times.
type Proxy struct {
	desc      Descriptor
	transport Transport
}

var _ ITool = (*Proxy)(nil)

func (p *Proxy) Name() string {
	return p.desc.Name
}

func (p *Proxy) Description() string {
	return p.desc.Description
}

func (p *Proxy) Parameters() any {
	return p.desc.Parameters
}

// Descriptor returns the descriptor the proxy is bound to
func (p *Proxy) Descriptor() Descriptor {
	return p.desc
}

// Invoke calls the remote tool and returns its result unmodified
func (p *Proxy) Invoke(ctx context.Context, args map[string]any) (*Result, error) {
	res, err := p.transport.CallTool(ctx, p.desc.Name, args)
	if err != nil {
		return nil, errors.Mark(errors.WithMessagef(err, "tool %q", p.desc.Name), ErrToolInvocation)
	}
	return res, nil
}

// Call decodes the JSON arguments, invokes the remote tool,
// and returns the text of the first content block
func (p *Proxy) Call(ctx context.Context, input string) (string, error) {
	args, err := DecodeArgs(input)
	if err != nil {
		return "", err
	}
	res, err := p.Invoke(ctx, args)
	if err != nil {
		return "", err
	}
	return ExtractFirstText(res)
}

// DecodeArgs decodes JSON object of the function call arguments,
// empty input returns nil map.
func DecodeArgs(input string) (map[string]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid arguments"), ErrFailedUnmarshalInput)
	}
	return args, nil
}
