package main

import (
	"embed"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

type options struct {
	dsn string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply Atlas schema migrations",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "database URL (defaults to ATLAS_DB_DSN or the ATLAS_DB_* variables)")

	cmd.AddCommand(
		newStepCommand(opts, "up", "Apply pending migrations, or N of them", (*migrate.Migrate).Up, 1),
		newStepCommand(opts, "down", "Revert every migration, or the last N", (*migrate.Migrate).Down, -1),
		newVersionCommand(opts),
		newForceCommand(opts),
	)
	return cmd
}

// newStepCommand runs all when no count is given, otherwise N steps in
// direction sign.
func newStepCommand(opts *options, use, short string, all func(*migrate.Migrate) error, sign int) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [N]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("step count must be a positive integer: %q", args[0])
				}
				n = v
			}

			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if n == 0 {
				err = all(m)
			} else {
				err = m.Steps(sign * n)
			}

			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Fprintln(cmd.OutOrStdout(), "no change")
				return nil
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return printVersion(cmd, m)
		},
	}
}

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()
			return printVersion(cmd, m)
		},
	}
}

func newForceCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}

			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Force(v); err != nil {
				return fmt.Errorf("force version %d: %w", v, err)
			}
			return printVersion(cmd, m)
		},
	}
}

func (o *options) url() (string, error) {
	if o.dsn != "" {
		return o.dsn, nil
	}

	var cfg database.Config
	if err := cfg.Finalize(config.DatabaseEnv); err != nil {
		return "", fmt.Errorf("database config: %w", err)
	}
	return cfg.Dsn(), nil
}

func (o *options) migrator() (*migrate.Migrate, error) {
	url, err := o.url()
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return m, nil
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
	return nil
}
