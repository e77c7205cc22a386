// Package expenses runs the expense claim agent: the agent reads the expenses
// data and submits the claim email with the tool running in process.
package expenses

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/callbacks"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/internal/repl"
	"github.com/effective-security/mcpagent/pkg/config"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/mcpagent/tools/expense"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/internal", "expenses")

// DefaultAgentName is the name of the expense claim agent
const DefaultAgentName = "expenses-agent"

// Instructions of the expense claim agent
const Instructions = `You are an AI assistant for expense claim submission. ` +
	`At the user's request, create an expense claim and use the plug-in function to send an email ` +
	`to expenses@contoso.com with the subject 'Expense Claim' and a body that contains itemized expenses with a total. ` +
	`Then confirm to the user that you've done so. ` +
	`Don't ask for any more information, just use the data provided to create the email.`

// PromptFormat is printed with the expenses data before reading the request
const PromptFormat = "Here is the expenses data in your file:\n\n%s\n\nWhat would you like me to do with it?\n\n"

// Deps are the collaborators of the expense agent,
// the nil values are created from the configuration.
type Deps struct {
	Service  agent.Service
	Callback dispatch.Callback
}

// ReadData returns the expenses data from the file
func ReadData(file string) (string, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return "", errors.Wrap(err, "failed to read expenses data")
	}
	return string(bs) + "\n", nil
}

// Run prints the expenses data, reads the request from in,
// and runs a single turn with the agent. The agent is deleted on exit.
func Run(ctx context.Context, cfg *config.Config, data string, in io.Reader, out io.Writer, deps Deps) (err error) {
	fmt.Fprintf(out, PromptFormat, data)

	prompt, err := bufio.NewReader(in).ReadString('\n')
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.WithStack(err)
		}
		return errors.New("request is empty")
	}

	service := deps.Service
	if service == nil {
		client, err := foundry.New(cfg.Project.Endpoint, cfg.Project.Token, foundry.WithAPIVersion(cfg.Project.APIVersion))
		if err != nil {
			return err
		}
		service = client
	}

	toolset, err := tools.NewToolset(nil, expense.NewSubmitClaim(out))
	if err != nil {
		return err
	}
	logger.ContextKV(ctx, xlog.DEBUG, "status", "tools", "descriptions", tools.GetDescriptions(toolset.Tools()...))

	session, err := agent.Open(ctx, service, agent.Definition{
		Name:         DefaultAgentName,
		Model:        cfg.Agent.Model,
		Instructions: Instructions,
		Tools:        toolset.Descriptors(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			fmt.Fprintf(out, "Failed to delete agent: %s\n", cerr.Error())
			if err == nil {
				err = cerr
			}
		}
	}()

	ctx = chatmodel.WithChatContext(ctx, chatmodel.NewChatContext(session.Name(), chatmodel.NewChatID(), nil))

	cb := deps.Callback
	if cb == nil {
		cb = callbacks.NewPackageLogger(logger)
	}
	loop := dispatch.New(session, toolset,
		dispatch.WithCallback(cb),
		dispatch.WithFailureOutputs(cfg.Agent.FailureOutputs),
	)

	repl.RunTurn(ctx, out, loop, prompt+": "+data)
	return nil
}
