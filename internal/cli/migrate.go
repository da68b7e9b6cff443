package cli

import (
	"fmt"

	"github.com/rpattn/csvgate/internal/config"
	"github.com/rpattn/csvgate/internal/db"
	"github.com/rpattn/csvgate/internal/logging"
	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the ingestion log schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			log, err := logging.New(cmd.ErrOrStderr(), logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Debug:  opts.debug,
			})
			if err != nil {
				return err
			}

			log.Info("migrate.started", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
			version, err := db.RunMigrations(cfg.Database)
			if err != nil {
				return err
			}
			log.Info("migrate.finished", "version", version)
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
}
