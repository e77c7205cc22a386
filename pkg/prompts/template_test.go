package prompts_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"restock_below":   10,
		"restock_sales":   15,
		"clearance_above": 20,
		"store":           "downtown",
	}

	tcases := []struct {
		name   string
		format prompts.Format
		text   string
		exp    string
	}{
		{
			name:   "default",
			format: "",
			text:   `Restock if inventory < {{ .restock_below }} and weekly sales > {{ .restock_sales }}`,
			exp:    "Restock if inventory < 10 and weekly sales > 15",
		},
		{
			name:   "sprig",
			format: prompts.FormatGoTemplate,
			text:   "\nYou manage the {{ .store | upper }} store.\n",
			exp:    "You manage the DOWNTOWN store.",
		},
		{
			name:   "jinja2",
			format: prompts.FormatJinja2,
			text:   "Recommend clearance if inventory > {{ clearance_above }} for {{ store }}",
			exp:    "Recommend clearance if inventory > 20 for downtown",
		},
		{
			name:   "text",
			format: prompts.FormatText,
			text:   "As is {{ .x }}",
			exp:    "As is {{ .x }}",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := prompts.Render(tc.format, tc.text, values)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, res)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	_, err := prompts.Render("xml", "x", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompts.ErrUnsupportedFormat))
	assert.EqualError(t, err, `unsupported template format: "xml"`)

	_, err = prompts.Render(prompts.FormatGoTemplate, "{{ .missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")

	_, err = prompts.Render(prompts.FormatGoTemplate, "{{ .missing }}", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render template")
}
