// Package cli wires configuration, logging and the pipeline into the csvgate commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the csvgate command tree and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configDir string
	debug     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "csvgate",
		Short:        "Screen inbox CSV files and split their rows into clean and bad outputs",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts, false)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config", "", "directory holding config.yaml (defaults to the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging with source locations")

	cmd.AddCommand(
		runCmd(opts),
		checkCmd(opts),
		validateCmd(opts),
		watchCmd(opts),
		migrateCmd(opts),
		logsCmd(opts),
	)
	return cmd
}
