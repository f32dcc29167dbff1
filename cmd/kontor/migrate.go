package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		Long: `Apply any pending schema migrations to the database. Migrations
also run automatically before every command; this makes them explicit,
e.g. after restoring a backup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			slog.Info("Database schema up to date",
				"version", storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
