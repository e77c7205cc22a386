// Command inventory-agent runs the interactive inventory agent
// with the tools served by the MCP server.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/mcpagent/internal/app"
	"github.com/effective-security/mcpagent/pkg/config"
	"github.com/effective-security/mcpagent/store"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

type flags struct {
	config     string
	envFile    string
	verbose    bool
	transcript string
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	f := new(flags)
	cmd := &cobra.Command{
		Use:          "inventory-agent",
		Short:        "Chat with the inventory agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "config file, YAML or JSON")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "file with the environment variables")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "print the tool inputs, outputs and the debug logs")
	cmd.Flags().StringVar(&f.transcript, "transcript", "", "file to export the chat on exit: .json, .yaml or .toml")

	cmd.AddCommand(&cobra.Command{
		Use:          "transcript FILE",
		Short:        "Print the chat exported with --transcript",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := store.ImportFile(args[0])
			if err != nil {
				return err
			}
			printTranscript(cmd.OutOrStdout(), info)
			return nil
		},
	})
	return cmd
}

func printTranscript(out io.Writer, info *store.ChatInfo) {
	fmt.Fprintf(out, "Chat %s with %s\n", info.ChatID, info.AgentName)
	for _, m := range info.Messages {
		switch m.Role {
		case store.RoleToolCall, store.RoleToolOutput:
			fmt.Fprintf(out, "[%s %s] %s\n", m.Role, m.Tool, m.Content)
		default:
			fmt.Fprintf(out, "[%s] %s\n", m.Role, m.Content)
		}
	}
}

func run(cmd *cobra.Command, f *flags) error {
	setupLogger(f.verbose)

	if err := loadEnv(f.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), app.Deps{
		Verbose:        f.verbose,
		TranscriptFile: f.transcript,
	})
}

func setupLogger(verbose bool) {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if verbose {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.INFO)
	}
}

// loadEnv loads the env file without overriding the process environment,
// the missing file is ignored.
func loadEnv(file string) error {
	if file == "" {
		return nil
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return nil
	}
	return gotenv.Load(file)
}
