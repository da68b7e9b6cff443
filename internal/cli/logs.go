package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func logsCmd(opts *rootOptions) *cobra.Command {
	var runID string
	var fileName string
	var limit int
	var offset int

	c := &cobra.Command{
		Use:   "logs",
		Short: "List ingestion log entries recorded for a run or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (runID == "") == (fileName == "") {
				return errors.New("exactly one of --run or --file is required")
			}
			var id uuid.UUID
			if runID != "" {
				parsed, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", runID, err)
				}
				id = parsed
			}

			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.close()

			if runID != "" {
				entries, err := a.logRepo.ListByRun(cmd.Context(), id, limit, offset)
				if err != nil {
					return err
				}
				return printLogEntries(cmd.OutOrStdout(), entries)
			}
			entries, err := a.logRepo.ListByFile(cmd.Context(), fileName, limit, offset)
			if err != nil {
				return err
			}
			return printLogEntries(cmd.OutOrStdout(), entries)
		},
	}

	c.Flags().StringVar(&runID, "run", "", "run id printed by csvgate run")
	c.Flags().StringVar(&fileName, "file", "", "inbox file name, e.g. zomato.csv")
	c.Flags().IntVar(&limit, "limit", 200, "maximum number of entries")
	c.Flags().IntVar(&offset, "offset", 0, "number of entries to skip")
	return c
}
