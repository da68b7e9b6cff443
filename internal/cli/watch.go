package cli

import (
	"context"

	"github.com/rpattn/csvgate/internal/pipeline"
	"github.com/spf13/cobra"
)

func watchCmd(opts *rootOptions) *cobra.Command {
	var schedule string

	c := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("schedule") {
				schedule = a.cfg.WatchSchedule
			}

			runner := a.runner(a.gatekeeper(), a.validator())
			return pipeline.Watch(cmd.Context(), schedule, func(ctx context.Context) {
				summary, err := runner.Run(ctx)
				if err != nil {
					a.log.Error("pipeline.aborted", "run_id", summary.RunID.String(), "error", err)
					return
				}
				if fileErr := pipeline.FileErrors(summary); fileErr != nil {
					a.log.Warn("pipeline.file_errors", "run_id", summary.RunID.String(), "error", fileErr)
				}
			}, a.log)
		},
	}

	c.Flags().StringVar(&schedule, "schedule", "", `cron spec or descriptor, e.g. "@every 5m" (defaults to watch.schedule)`)
	return c
}
