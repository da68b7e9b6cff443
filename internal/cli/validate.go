package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpattn/csvgate/internal/domain"
	"github.com/rpattn/csvgate/internal/pipeline"
	"github.com/spf13/cobra"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	var failOnError bool

	c := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate rows of the given files, or of every .csv in the processed directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.close()

			paths := args
			if len(paths) == 0 {
				files, err := a.store.List(cmd.Context(), a.cfg.Paths.Processed)
				if err != nil {
					return fmt.Errorf("failed to list processed files: %w", err)
				}
				paths = csvPaths(files)
			}
			if len(paths) == 0 {
				a.log.Info("validate.nothing_to_do", "dir", a.cfg.Paths.Processed)
				return nil
			}

			summary, err := a.runner(nil, a.validator()).Revalidate(cmd.Context(), paths)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)

			if fileErr := pipeline.FileErrors(summary); fileErr != nil {
				a.log.Warn("validate.file_errors", "run_id", summary.RunID.String(), "error", fileErr)
				if failOnError {
					return fileErr
				}
			}
			return nil
		},
	}

	c.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when any file could not be validated")
	return c
}

// csvPaths keeps the files whose name ends in .csv, in listing order.
func csvPaths(files []domain.InboxFile) []string {
	var paths []string
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			paths = append(paths, f.Path)
		}
	}
	return paths
}
