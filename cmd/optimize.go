package cmd

import (
	"context"
	"fmt"

	"github.com/bluebarrow/searchd/pkg/config"
	"github.com/bluebarrow/searchd/pkg/storage"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run integrity checks on the catalog database",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quick",
						Usage: "Skip deep FTS5-specific integrity checks",
						Value: false,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						return checkDatabase(store, !c.Bool("quick"))
					})
				},
			},
			{
				Name:  "fts-rebuild",
				Usage: "Rebuild the FTS5 indexes from the content tables",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Force rebuild without checking first (skips integrity check)",
						Value: false,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						return rebuildFTS(store, c.Bool("force"))
					})
				},
			},
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						fmt.Println("Running ANALYZE...")
						if err := store.Analyze(); err != nil {
							return fmt.Errorf("analyzing database: %w", err)
						}
						fmt.Println("Analysis complete")
						return nil
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						fmt.Println("Running VACUUM...")
						if err := store.Vacuum(); err != nil {
							return fmt.Errorf("vacuuming database: %w", err)
						}
						fmt.Println("Vacuum complete")
						return nil
					})
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Truncate the WAL into the main database file",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						if err := store.WALCheckpoint(); err != nil {
							return fmt.Errorf("checkpointing WAL: %w", err)
						}
						fmt.Println("WAL checkpoint complete")
						return nil
					})
				},
			},
			{
				Name:  "all",
				Usage: "Run checks, analyze and checkpoint in one pass",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						if err := checkDatabase(store, true); err != nil {
							return err
						}
						if err := store.Analyze(); err != nil {
							return fmt.Errorf("analyzing database: %w", err)
						}
						if err := store.WALCheckpoint(); err != nil {
							return fmt.Errorf("checkpointing WAL: %w", err)
						}
						if err := store.Optimize(); err != nil {
							return fmt.Errorf("optimizing database: %w", err)
						}
						fmt.Println("Maintenance pass complete")
						return nil
					})
				},
			},
		},
	}
}

func withStore(configPath string, fn func(*storage.Store) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.NewStoreWithMigrations(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	return fn(store)
}

func checkDatabase(store *storage.Store, deep bool) error {
	fmt.Println("Running integrity check...")
	if err := store.IntegrityCheck(); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if deep {
		fmt.Println("Running FTS5 integrity checks...")
		if err := store.FTSIntegrityCheck(); err != nil {
			return fmt.Errorf("FTS integrity check failed: %w", err)
		}
	}
	fmt.Println("All checks passed")
	return nil
}

func rebuildFTS(store *storage.Store, force bool) error {
	if !force {
		if err := checkDatabase(store, false); err != nil {
			return err
		}
	}
	fmt.Println("Rebuilding FTS5 indexes...")
	if err := store.FTSRebuild(); err != nil {
		return fmt.Errorf("rebuilding FTS indexes: %w", err)
	}
	fmt.Println("FTS rebuild complete")
	return nil
}
