package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/mocks/mockagent"
	"github.com/effective-security/mcpagent/pipeline"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/google/go-cmp/cmp"
	"github.com/openai/openai-go/v3/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func textResponse(t *testing.T, id, text string) *responses.Response {
	t.Helper()
	js := fmt.Sprintf(`{
		"id": %q,
		"status": "completed",
		"output": [
			{"type": "message", "id": "msg", "role": "assistant", "status": "completed",
			 "content": [{"type": "output_text", "text": %q, "annotations": []}]}
		]
	}`, id, text)
	var r responses.Response
	require.NoError(t, json.Unmarshal([]byte(js), &r))
	return &r
}

func expectAgents(svc *mockagent.MockService, names ...string) {
	for _, name := range names {
		svc.EXPECT().CreateAgent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *foundry.AgentDefinition) (*foundry.AgentVersion, error) {
				return &foundry.AgentVersion{Name: d.Name, Version: "1"}, nil
			})
		svc.EXPECT().CreateConversation(gomock.Any()).Return(&foundry.Conversation{ID: "conv_" + name}, nil)
	}
}

func TestDefaultStages(t *testing.T) {
	p := pipeline.New(nil, "gpt-4.1")
	assert.Equal(t, []string{"summarizer", "classifier", "actions"}, p.Stages())
	for _, s := range pipeline.DefaultStages() {
		assert.NotEmpty(t, s.Instructions)
	}
	assert.Equal(t, "Customer feedback: hi", pipeline.FeedbackPrompt("hi"))
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	svc := mockagent.NewMockService(ctrl)

	expectAgents(svc, "summarizer", "classifier", "actions")

	input := pipeline.FeedbackPrompt(pipeline.SampleFeedback)
	replies := map[string]string{
		"summarizer": "User requests a dark mode option.",
		"classifier": "Feature request",
		"actions":    "Log as enhancement request for product backlog.",
	}
	var prompts []string
	svc.EXPECT().CreateResponse(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, r *foundry.ResponseRequest) (*responses.Response, error) {
			prompts = append(prompts, r.Prompt)
			return textResponse(t, "resp_"+r.Agent, replies[r.Agent]), nil
		})

	gomock.InOrder(
		svc.EXPECT().DeleteAgent(gomock.Any(), "actions", "1").Return(nil),
		svc.EXPECT().DeleteAgent(gomock.Any(), "classifier", "1").Return(nil),
		svc.EXPECT().DeleteAgent(gomock.Any(), "summarizer", "1").Return(nil),
	)

	outputs, err := pipeline.New(svc, "gpt-4.1").Run(ctx, input)
	require.NoError(t, err)
	exp := []pipeline.StageOutput{
		{Name: "summarizer", Output: "User requests a dark mode option."},
		{Name: "classifier", Output: "Feature request"},
		{Name: "actions", Output: "Log as enhancement request for product backlog."},
	}
	if diff := cmp.Diff(exp, outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, prompts, 3)
	assert.Equal(t, input, prompts[0])
	assert.Equal(t, input+"\n\n[summarizer]: User requests a dark mode option.", prompts[1])
	assert.Equal(t, input+"\n\n[summarizer]: User requests a dark mode option.\n\n[classifier]: Feature request", prompts[2])

	out := pipeline.Format(input, outputs)
	assert.Contains(t, out, "01 [user]\n"+input)
	assert.Contains(t, out, "02 [summarizer]\nUser requests a dark mode option.")
	assert.Contains(t, out, "04 [actions]\nLog as enhancement request for product backlog.")
}

func TestRun_StageFailed(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	svc := mockagent.NewMockService(ctrl)

	stages := []pipeline.Stage{
		{Name: "summarizer", Instructions: "summarize"},
		{Name: "classifier", Instructions: "classify"},
	}
	expectAgents(svc, "summarizer", "classifier")

	gomock.InOrder(
		svc.EXPECT().CreateResponse(gomock.Any(), gomock.Any()).Return(textResponse(t, "resp_1", "summary"), nil),
		svc.EXPECT().CreateResponse(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")),
	)
	// every opened agent is closed
	gomock.InOrder(
		svc.EXPECT().DeleteAgent(gomock.Any(), "classifier", "1").Return(nil),
		svc.EXPECT().DeleteAgent(gomock.Any(), "summarizer", "1").Return(nil),
	)

	outputs, err := pipeline.New(svc, "gpt-4.1", stages...).Run(ctx, "feedback")
	require.Error(t, err)
	assert.Equal(t, `stage "classifier" failed: failed to create response: timeout`, err.Error())
	require.Len(t, outputs, 1)
	assert.Equal(t, "summary", outputs[0].Output)
}

func TestRun_OpenFailed(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	svc := mockagent.NewMockService(ctrl)

	gomock.InOrder(
		svc.EXPECT().CreateAgent(gomock.Any(), gomock.Any()).Return(&foundry.AgentVersion{Name: "summarizer", Version: "4"}, nil),
		svc.EXPECT().CreateConversation(gomock.Any()).Return(&foundry.Conversation{ID: "c"}, nil),
		svc.EXPECT().CreateAgent(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded")),
		svc.EXPECT().DeleteAgent(gomock.Any(), "summarizer", "4").Return(nil),
	)

	_, err := pipeline.New(svc, "gpt-4.1").Run(ctx, "feedback")
	require.Error(t, err)
	assert.True(t, errors.Is(err, agent.ErrRemoteRegistration))
}

func TestRun_CloseError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	svc := mockagent.NewMockService(ctrl)

	stages := []pipeline.Stage{{Name: "summarizer", Instructions: "summarize"}}
	expectAgents(svc, "summarizer")
	svc.EXPECT().CreateResponse(gomock.Any(), gomock.Any()).Return(textResponse(t, "resp_1", "summary"), nil)
	svc.EXPECT().DeleteAgent(gomock.Any(), "summarizer", "1").Return(errors.New("forbidden"))

	outputs, err := pipeline.New(svc, "gpt-4.1", stages...).Run(ctx, "feedback")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
	assert.Len(t, outputs, 1)
}
