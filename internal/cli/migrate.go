package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"assessment-client/internal/app"
	"assessment-client/internal/config"
	"assessment-client/internal/domain"
	pgarchive "assessment-client/internal/infra/postgres"
	pgmigrations "assessment-client/internal/infra/postgres/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/sync/errgroup"
)

func newArchiveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Keep a local Postgres copy of results for reporting",
	}
	cmd.AddCommand(newArchiveMigrateCmd(opts))
	cmd.AddCommand(newArchiveSyncCmd(opts))
	cmd.AddCommand(newArchiveRankingsCmd(opts))
	return cmd
}

// newArchiveMigrateCmd applies archive migrations.
func newArchiveMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run archive database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return runMigrationsWithConfig(cmd.Context(), cfg)
		},
	}
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("archive schema up to date")
		return nil
	}
	log.Printf("archive migrated to %s", group)
	return nil
}

func newArchiveSyncCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy accounts and results from the server into the archive (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := runMigrationsWithConfig(ctx, e.cfg); err != nil {
				return err
			}
			archive, closeArchive, err := openArchive(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer closeArchive()

			var (
				accounts []domain.Account
				results  []domain.TestResult
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				accounts, err = e.client.ListAccounts(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				results, err = e.client.Results(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if err := archive.Sync(ctx, accounts, results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d accounts and %d results\n", len(accounts), len(results))
			return nil
		},
	}
}

func newArchiveRankingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Rank archived results without contacting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			archive, closeArchive, err := openArchive(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeArchive()

			view := app.NewDashboard(archive, nil).Load(cmd.Context())
			if view.ResultsErr != nil {
				return view.ResultsErr
			}
			if view.RankingsErr != nil {
				return view.RankingsErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d archived results\n", len(view.Results))
			return printLeaderboard(cmd.OutOrStdout(), view.Leaderboard)
		},
	}
}

func openArchive(ctx context.Context, cfg config.Config) (*pgarchive.Archive, func(), error) {
	if cfg.Postgres.URL == "" {
		return nil, nil, fmt.Errorf("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	return pgarchive.NewArchive(pool), pool.Close, nil
}
