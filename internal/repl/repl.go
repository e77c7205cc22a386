// Package repl runs the interactive prompt loop of the inventory agent.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/internal", "repl")

// Prompt is printed before reading the user input
const Prompt = "\nEnter a prompt for the inventory agent. Use 'quit' to exit.\nUSER: "

// QuitCommand terminates the loop
const QuitCommand = "quit"

// Runner runs one turn with the agent
type Runner interface {
	RunTurn(ctx context.Context, prompt string) (*dispatch.TurnResult, error)
}

// Run reads the prompts from in until quit, EOF or context cancellation.
// The turn errors are printed to out and do not stop the loop.
func Run(ctx context.Context, in io.Reader, out io.Writer, runner Runner) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				var err error
				select {
				case err = <-readErr:
				default:
				}
				return errors.WithStack(err)
			}
			line = strings.TrimSpace(l)
		}

		if strings.EqualFold(line, QuitCommand) {
			fmt.Fprintln(out, "Exiting chat.")
			return nil
		}
		if line == "" {
			continue
		}

		RunTurn(ctx, out, runner, line)
	}
}

// RunTurn runs the prompt and prints the response or the error
func RunTurn(ctx context.Context, out io.Writer, runner Runner, prompt string) {
	res, err := runner.RunTurn(ctx, prompt)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG, "status", "turn_error", "err", err.Error())

		if errors.Is(err, agent.ErrRemoteRequestFailure) {
			fmt.Fprintf(out, "Response failed: %s\n", err.Error())
		} else {
			fmt.Fprintf(out, "Error: %s\n", err.Error())
		}
	}
	if res != nil {
		fmt.Fprintf(out, "\nAgent response: %s\n", res.Output)
	}
}
