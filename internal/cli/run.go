package cli

import (
	"fmt"

	"github.com/rpattn/csvgate/internal/pipeline"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var failOnError bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Check every inbox file, then validate the accepted ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts, failOnError)
		},
	}

	c.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when any file could not be moved or validated")
	return c
}

func runPipeline(cmd *cobra.Command, opts *rootOptions, failOnError bool) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.runner(a.gatekeeper(), a.validator()).Run(cmd.Context())
	if err != nil {
		a.log.Error("pipeline.aborted", "run_id", summary.RunID.String(), "error", err)
		return err
	}
	printSummary(cmd.OutOrStdout(), summary)

	if fileErr := pipeline.FileErrors(summary); fileErr != nil {
		a.log.Warn("pipeline.file_errors", "run_id", summary.RunID.String(), "error", fileErr)
		if failOnError {
			return fileErr
		}
	}
	return nil
}

func checkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Classify and move inbox files without validating rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.close()

			paths := a.cfg.Paths
			if err := a.store.EnsureDirs(paths.Inbox, paths.Processed, paths.Invalid); err != nil {
				return fmt.Errorf("failed to prepare directories: %w", err)
			}

			results, err := a.gatekeeper().Run(cmd.Context())
			if err != nil {
				return err
			}
			printVerdicts(cmd.OutOrStdout(), results)

			var failed *multierror.Error
			for _, r := range results {
				if r.Err != nil {
					failed = multierror.Append(failed, r.Err)
				}
			}
			if err := failed.ErrorOrNil(); err != nil {
				a.log.Warn("gatekeeper.move_errors", "count", failed.Len(), "error", err)
			}
			return nil
		},
	}
}

