// Package pipeline runs the sequence of agents,
// each one receiving the input and the outputs of the previous agents.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "pipeline")

// Stage is the agent of the pipeline
type Stage struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	Instructions string `json:"instructions" yaml:"instructions" validate:"required"`
}

// StageOutput is the output of the stage
type StageOutput struct {
	Name   string
	Output string
}

const (
	summarizerInstructions = `Summarize the customer's feedback in one short sentence. Keep it neutral and concise.
Example output:
App crashes during photo upload.
User praises dark mode feature.`

	classifierInstructions = `Classify the feedback as one of the following: Positive, Negative, or Feature request.`

	actionInstructions = `Based on the summary and classification, suggest the next action in one short sentence.
Example output:
Escalate as a high-priority bug for the mobile team.
Log as positive feedback to share with design and marketing.
Log as enhancement request for product backlog.`
)

// SampleFeedback is the feedback used when none is provided
const SampleFeedback = "I use the dashboard everyday to monitor metrics, and it works well overall. " +
	"But when I'm working late at night the bright screen is really harsh on my eyes. " +
	"If you added a dark mode option, it would make the experience much more comfortable."

// DefaultStages returns summarizer, classifier and actions stages
func DefaultStages() []Stage {
	return []Stage{
		{Name: "summarizer", Instructions: summarizerInstructions},
		{Name: "classifier", Instructions: classifierInstructions},
		{Name: "actions", Instructions: actionInstructions},
	}
}

// FeedbackPrompt returns the pipeline input for the customer feedback
func FeedbackPrompt(feedback string) string {
	return "Customer feedback: " + feedback
}

// Pipeline runs the stages in order
type Pipeline struct {
	service agent.Service
	model   string
	stages  []Stage
	opts    []dispatch.Option
}

// New returns the pipeline, if no stages provided then DefaultStages are used
func New(service agent.Service, model string, stages ...Stage) *Pipeline {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	return &Pipeline{
		service: service,
		model:   model,
		stages:  stages,
	}
}

// WithDispatchOptions specifies the options for the turns of the stages
func (p *Pipeline) WithDispatchOptions(opts ...dispatch.Option) *Pipeline {
	p.opts = append(p.opts, opts...)
	return p
}

// Stages returns the names of the stages
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return names
}

// Run registers the agents of all stages, runs the stages in order,
// and deletes the agents in reverse order on every exit path.
func (p *Pipeline) Run(ctx context.Context, input string) (outputs []StageOutput, err error) {
	sessions := make([]*agent.Session, 0, len(p.stages))
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		for i := len(sessions) - 1; i >= 0; i-- {
			if cerr := sessions[i].Close(cleanupCtx); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	for _, stage := range p.stages {
		s, err := agent.Open(ctx, p.service, agent.Definition{
			Name:         stage.Name,
			Model:        p.model,
			Instructions: stage.Instructions,
		})
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	// stages do not have tools
	empty := tools.Build(nil, nil)
	for i, s := range sessions {
		prompt := Transcript(input, outputs)
		res, err := dispatch.New(s, empty, p.opts...).RunTurn(ctx, prompt)
		if err != nil {
			return outputs, errors.WithMessagef(err, "stage %q failed", p.stages[i].Name)
		}
		outputs = append(outputs, StageOutput{Name: p.stages[i].Name, Output: res.Output})

		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "stage_completed",
			"stage", p.stages[i].Name,
			"response_id", res.ResponseID,
		)
	}
	return outputs, nil
}

// Transcript returns the input followed by the outputs of the stages
func Transcript(input string, outputs []StageOutput) string {
	var b strings.Builder
	b.WriteString(input)
	for _, o := range outputs {
		fmt.Fprintf(&b, "\n\n[%s]: %s", o.Name, o.Output)
	}
	return b.String()
}

// Format returns the numbered conversation of the run, for the console
func Format(input string, outputs []StageOutput) string {
	var b strings.Builder
	sep := strings.Repeat("-", 60)
	fmt.Fprintf(&b, "%s\n%02d [user]\n%s\n", sep, 1, input)
	for i, o := range outputs {
		fmt.Fprintf(&b, "%s\n%02d [%s]\n%s\n", sep, i+2, o.Name, o.Output)
	}
	return b.String()
}
