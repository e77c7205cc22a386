// Command expense-agent submits the expense claim for the expenses data file
// with the agent and the claim tool running in process.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/mcpagent/internal/expenses"
	"github.com/effective-security/mcpagent/pkg/config"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var cfgFile, envFile, dataFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:          "expense-agent",
		Short:        "Submit the expense claim for the expenses data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			data, err := expenses.ReadData(dataFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return expenses.Run(ctx, cfg, data, cmd.InOrStdin(), cmd.OutOrStdout(), expenses.Deps{})
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file, YAML or JSON")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "file with the environment variables")
	cmd.Flags().StringVar(&dataFile, "data", "data.txt", "file with the expenses data")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print the debug logs")
	return cmd
}
