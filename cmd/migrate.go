package main

import (
	root "botlist"
	"botlist/internal/config"
	"botlist/pkg/logger"
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateListings applies the embedded listings schema and returns its version.
func migrateListings(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(root.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("could not set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return 0, fmt.Errorf("could not migrate listings schema: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("could not get listings schema version: %w", err)
	}

	return version, nil
}

// migrateJobQueue brings the River tables used by the audit and member
// removal jobs to the latest version. It returns the versions applied.
func migrateJobQueue(ctx context.Context, db *sql.DB) ([]int, error) {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create job queue migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return nil, fmt.Errorf("could not migrate job queue schema: %w", err)
	}

	applied := make([]int, 0, len(res.Versions))
	for _, v := range res.Versions {
		applied = append(applied, v.Version)
	}

	return applied, nil
}

// migrateCommand constructs the 'migrate' subcommand that applies the listings
// schema and then the job queue schema.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the listings and job queue schemas to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()
			db := strg.DB.(*sql.DB)

			version, err := migrateListings(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate listings", zap.Error(err))
			}
			logger.Info(ctx, "listings schema is up to date", zap.Int64("version", version))

			applied, err := migrateJobQueue(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate job queue", zap.Error(err))
			}
			logger.Info(ctx, "job queue schema is up to date", zap.Ints("applied", applied))
		},
	}

	return cmd
}
