package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compsherpa/compsherpa/internal/db"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Long:  "Apply the embedded schema to the configured Postgres database. SQLite databases are migrated when opened.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := context.Background()
			store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if store == nil {
				return fmt.Errorf("no database configured (database.driver is %q)", cfg.Database.Driver)
			}
			defer func() { _ = store.Close() }()

			if pg, ok := store.(*db.DB); ok {
				if err := pg.Migrate(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.Database.Driver)
			return nil
		},
	}
}
