// Package prompts renders the agent instructions from templates.
package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/nikolalohinski/gonja"
)

// Format of the template
type Format string

const (
	// FormatGoTemplate is text/template with sprig functions
	FormatGoTemplate Format = "go-template"
	// FormatJinja2 is jinja2 template
	FormatJinja2 Format = "jinja2"
	// FormatText is the plain text, not rendered
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for unknown template format
var ErrUnsupportedFormat = errors.New("unsupported template format")

// Render returns the template rendered with the values
func Render(format Format, text string, values map[string]any) (string, error) {
	switch format {
	case "", FormatGoTemplate:
		return renderGoTemplate(text, values)
	case FormatJinja2:
		return renderJinja2(text, values)
	case FormatText:
		return text, nil
	}
	return "", errors.Mark(errors.Newf("unsupported template format: %q", format), ErrUnsupportedFormat)
}

func renderGoTemplate(text string, values map[string]any) (string, error) {
	tmpl, err := template.New("prompt").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, values); err != nil {
		return "", errors.Wrap(err, "failed to render template")
	}
	return strings.TrimSpace(buf.String()), nil
}

func renderJinja2(text string, values map[string]any) (string, error) {
	tmpl, err := gonja.FromString(text)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}
	res, err := tmpl.Execute(gonja.Context(values))
	if err != nil {
		return "", errors.Wrap(err, "failed to render template")
	}
	return strings.TrimSpace(res), nil
}
