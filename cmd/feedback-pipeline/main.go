// Command feedback-pipeline runs the customer feedback
// through the summarizer, classifier and actions agents.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/effective-security/mcpagent/callbacks"
	"github.com/effective-security/mcpagent/dispatch"
	"github.com/effective-security/mcpagent/pipeline"
	"github.com/effective-security/mcpagent/pkg/config"
	"github.com/effective-security/mcpagent/pkg/foundry"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/cmd", "feedback-pipeline")

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var cfgFile, envFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:          "feedback-pipeline [feedback]",
		Short:        "Summarize, classify and suggest the action for the customer feedback",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
			if verbose {
				xlog.SetGlobalLogLevel(xlog.DEBUG)
			} else {
				xlog.SetGlobalLogLevel(xlog.WARNING)
			}

			if envFile != "" {
				if _, err := os.Stat(envFile); err == nil {
					if err = gotenv.Load(envFile); err != nil {
						return err
					}
				}
			}
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			client, err := foundry.New(cfg.Project.Endpoint, cfg.Project.Token, foundry.WithAPIVersion(cfg.Project.APIVersion))
			if err != nil {
				return err
			}

			feedback := pipeline.SampleFeedback
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				feedback = args[0]
			}
			input := pipeline.FeedbackPrompt(feedback)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(client, cfg.Agent.Model, cfg.PipelineStages()...).
				WithDispatchOptions(dispatch.WithCallback(callbacks.NewPackageLogger(logger)))

			outputs, err := p.Run(ctx, input)
			// the completed stages are printed even if the run failed
			fmt.Fprint(cmd.OutOrStdout(), pipeline.Format(input, outputs))
			return err
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file, YAML or JSON")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "file with the environment variables")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print the debug logs")
	return cmd
}
