package ctl

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mastermind-creat/techsafi/internal/database"
	"github.com/mastermind-creat/techsafi/internal/migrate"
)

// migrateCmd manages the Postgres schema. It always targets the POSTGRES_*
// database, whatever STORE_BACKEND says.
func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema of the content store",
	}

	run := func(fn func(ctx context.Context, m *migrate.Migrator, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := a.serverConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := database.Open(ctx, cfg, a.logger())
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(ctx, migrate.NewMigrator(db.DB.DB, migrate.NewLogger(false)), cmd)
		}
	}

	var to int64
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *migrate.Migrator, cmd *cobra.Command) error {
			if to > 0 {
				return m.UpTo(ctx, to)
			}
			return m.Up(ctx)
		}),
	}
	up.Flags().Int64Var(&to, "to", 0, "stop at this version")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *migrate.Migrator, cmd *cobra.Command) error {
			return m.Down(ctx)
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *migrate.Migrator, cmd *cobra.Command) error {
			list, err := m.Status(ctx)
			if err != nil {
				return err
			}
			if a.output() != OutputTable {
				return encode(cmd.OutOrStdout(), a.output(), list)
			}
			rows := make([][]string, 0, len(list))
			for _, st := range list {
				state := "pending"
				if st.Applied {
					state = "applied " + st.AppliedAt
				}
				rows = append(rows, []string{fmt.Sprint(st.Version), st.Name, state})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Version", "Migration", "State"}, rows)
		}),
	}

	ver := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *migrate.Migrator, cmd *cobra.Command) error {
			v, err := m.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}),
	}

	cmd.AddCommand(up, down, status, ver)
	return cmd
}
