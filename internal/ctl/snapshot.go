package ctl

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mastermind-creat/techsafi/domain/scheduler"
	"github.com/mastermind-creat/techsafi/internal/storage"
)

func (a *app) snapshotCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List, take and restore content snapshots",
		Long: `Snapshots live in object storage when STORAGE_* is configured and in
SNAPSHOT_DIR otherwise, the same places the server's snapshot task writes to.`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "snapshot directory (overrides SNAPSHOT_DIR)")

	withTask := func(cmd *cobra.Command, fn func(ctx context.Context, task *scheduler.SnapshotTask) error) error {
		return a.withLocal(cmd, func(ctx context.Context, l *local) error {
			log := a.logger()
			objects, err := storage.NewService(l.cfg, log)
			if err != nil {
				return err
			}
			cfg := scheduler.NewConfig(l.cfg)
			if dir != "" {
				cfg.SnapshotDir = dir
			}
			return fn(ctx, scheduler.NewSnapshotTask(l.content, objects, cfg, log))
		})
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, func(ctx context.Context, task *scheduler.SnapshotTask) error {
				names, err := task.List(ctx)
				if err != nil {
					return err
				}
				if a.output() != OutputTable {
					return encode(cmd.OutOrStdout(), a.output(), names)
				}
				rows := make([][]string, len(names))
				for i, n := range names {
					rows[i] = []string{n}
				}
				return renderTable(cmd.OutOrStdout(), []string{"Snapshot"}, rows)
			})
		},
	}

	take := &cobra.Command{
		Use:   "take",
		Short: "Write a snapshot now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, func(ctx context.Context, task *scheduler.SnapshotTask) error {
				if err := task.Run(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Snapshot written")
				return nil
			})
		},
	}

	restore := &cobra.Command{
		Use:   "restore [name]",
		Short: "Import a snapshot as new revisions (default: the newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withTask(cmd, func(ctx context.Context, task *scheduler.SnapshotTask) error {
				used, n, err := task.Restore(ctx, name, a.actor())
				if err != nil {
					return fmt.Errorf("restore %s: %w", used, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d document(s) from %s\n", n, used)
				return nil
			})
		},
	}

	cmd.AddCommand(list, take, restore)
	return cmd
}
