// Package expense provides the tool submitting the expense claim email.
package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/tools"
	"github.com/go-playground/validator/v10"
)

const (
	SubmitClaimToolName = "submit_claim"
	// StatusSent is the status of the submitted claim
	StatusSent = "sent"
)

// Claim is the email with the expense claim
type Claim struct {
	To      string `json:"to" yaml:"to" jsonschema:"description=Who to send the email to" validate:"required,email"`
	Subject string `json:"subject" yaml:"subject" jsonschema:"description=The subject of the email." validate:"required"`
	Body    string `json:"body" yaml:"body" jsonschema:"description=The text body of the email." validate:"required"`
}

// Receipt confirms the submitted claim
type Receipt struct {
	Status  string `json:"status" yaml:"status"`
	To      string `json:"to" yaml:"to"`
	Subject string `json:"subject" yaml:"subject"`
}

// SubmitClaim writes the claim email to the output
type SubmitClaim struct {
	lock     sync.Mutex
	out      io.Writer
	validate *validator.Validate
	sent     []Claim
}

var _ tools.Tool[Claim, Receipt] = (*SubmitClaim)(nil)

// NewSubmitClaim returns the tool writing the claims to out
func NewSubmitClaim(out io.Writer) *SubmitClaim {
	return &SubmitClaim{
		out:      out,
		validate: validator.New(),
	}
}

func (t *SubmitClaim) Name() string {
	return SubmitClaimToolName
}

func (t *SubmitClaim) Description() string {
	return "Sends the expense claim email."
}

func (t *SubmitClaim) Parameters() any {
	return tools.InputSchema(reflect.TypeOf(Claim{}))
}

// Sent returns the submitted claims
func (t *SubmitClaim) Sent() []Claim {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]Claim(nil), t.sent...)
}

func (t *SubmitClaim) Run(_ context.Context, claim *Claim) (*Receipt, error) {
	if claim == nil {
		return nil, errors.New("claim is required")
	}
	if err := t.validate.Struct(claim); err != nil {
		return nil, errors.WithMessage(err, "invalid claim")
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, err := fmt.Fprintf(t.out, "\nTo: %s\nSubject: %s\n%s\n\n", claim.To, claim.Subject, claim.Body); err != nil {
		return nil, errors.Wrap(err, "failed to send claim")
	}
	t.sent = append(t.sent, *claim)

	return &Receipt{
		Status:  StatusSent,
		To:      claim.To,
		Subject: claim.Subject,
	}, nil
}

func (t *SubmitClaim) Call(ctx context.Context, input string) (string, error) {
	var claim Claim
	if strings.TrimSpace(input) == "" {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &claim); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &claim)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(res), nil
}
