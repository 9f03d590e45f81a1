package main

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/back1ply/Catalog-of-BI-tools/internal/config"
	"github.com/back1ply/Catalog-of-BI-tools/internal/storage"
)

func newExportCmd() *cobra.Command {
	var (
		from   string
		driver string
		dsn    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Store a generated collection as a database snapshot",
		Long: `Export writes every record of a generated collection, with its tags, as a
new run in SQLite or Postgres. The schema is created on first use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			if from == "" {
				from = cfg.Output.Path
			}
			records, err := loadRecords(from)
			if err != nil {
				return err
			}

			spin := StartSpinner("Connecting to database...", outputJSON)
			db, err := openDatabase(ctx, cfg, driver, dsn)
			spin.Stop()
			if err != nil {
				ui.Error("database unavailable: %v", err)
				return err
			}
			defer db.Close()

			bar := NewRecordBar(len(records), "exporting", outputJSON)
			store := storage.NewStore(db).WithProgress(func(done, _ int) { bar.Set(done) })
			run, err := store.SaveSnapshot(ctx, from, cfg.Placement.Seed, records)
			bar.Finish()
			if err != nil {
				ui.Error("export failed: %v", err)
				return err
			}

			logger.Info().
				Str("run_id", run.ID.String()).
				Int("records", run.RecordCount).
				Msg("snapshot exported")

			if outputJSON {
				return printJSON(run)
			}
			ui.Success("Exported %d tools as run %s", run.RecordCount, run.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "collection JSON (default: configured output)")
	cmd.Flags().StringVar(&driver, "driver", "", "sqlite or postgres (default from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database path or connection string (default from config)")

	return cmd
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List exported snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := openDatabase(ctx, cfg, "", "")
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := storage.NewStore(db).Runs(ctx, limit)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(runs)
			}
			if len(runs) == 0 {
				ui.Info("No snapshots exported yet")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, run := range runs {
				rows[i] = []string{
					run.ID.String(),
					run.CreatedAt.Local().Format(time.DateTime),
					run.Source,
					strconv.Itoa(run.RecordCount),
				}
			}
			ui.Table([]string{"Run", "Created", "Source", "Tools"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")

	return cmd
}

// openDatabase opens and migrates the configured database; driver and dsn override the config.
func openDatabase(ctx context.Context, cfg *config.Config, driver, dsn string) (*sql.DB, error) {
	opts := storage.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DatabaseDSN(),
		MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
	}
	if driver != "" && driver != opts.Driver {
		opts.Driver = driver
		opts.DSN = ""
		if driver == storage.DriverSQLite {
			opts.DSN = cfg.Database.SQLite.Path
		}
	}
	if dsn != "" {
		opts.DSN = dsn
	}

	db, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
