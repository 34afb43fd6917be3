package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"abstractdesk/internal/config"
	"abstractdesk/internal/logging"
)

var migrationsPath string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or revert database schema migrations",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&migrationsPath, "path", "p", "db/migrations", "Directory holding migration files")
	cmd.AddCommand(newUpCmd(), newDownCmd(), newStepsCmd(), newVersionCmd())
	return cmd
}

func open() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.Log.Level, "text")

	m, err := migrate.New("file://"+migrationsPath, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// run opens a migrator, applies fn and tolerates ErrNoChange.
func run(fn func(m *migrate.Migrate) error) error {
	m, err := open()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(func(m *migrate.Migrate) error { return m.Up() }); err != nil {
				return fmt.Errorf("migration up failed: %w", err)
			}
			slog.Info("migrations applied successfully")
			return nil
		},
	}
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(func(m *migrate.Migrate) error { return m.Down() }); err != nil {
				return fmt.Errorf("migration down failed: %w", err)
			}
			slog.Info("migrations reverted successfully")
			return nil
		},
	}
}

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations (negative N reverts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid steps argument: %w", err)
			}
			if err := run(func(m *migrate.Migrate) error { return m.Steps(n) }); err != nil {
				return fmt.Errorf("migration steps failed: %w", err)
			}
			slog.Info("applied migration steps", "steps", n)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)
				return nil
			})
		},
	}
}
