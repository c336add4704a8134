package ctl

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mastermind-creat/techsafi/domain/blog"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/docstore"
)

// local is an opened content store with the services built on it.
type local struct {
	cfg     *config.Config
	store   docstore.Store
	content *content.Service
	blog    *blog.Service
}

func (a *app) openLocal(ctx context.Context) (*local, error) {
	cfg, err := a.serverConfig()
	if err != nil {
		return nil, err
	}
	log := a.logger()
	store, err := docstore.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	contentSvc := content.NewService(store, events.NewService(log), log)
	return &local{
		cfg:     cfg,
		store:   store,
		content: contentSvc,
		blog:    blog.NewService(contentSvc, log),
	}, nil
}

// withLocal opens the store for the duration of fn.
func (a *app) withLocal(cmd *cobra.Command, fn func(ctx context.Context, l *local) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	l, err := a.openLocal(ctx)
	if err != nil {
		return err
	}
	defer l.store.Close()
	return fn(ctx, l)
}

func (a *app) domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List content domains and their stored revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				infos, err := l.content.List(ctx)
				if err != nil {
					return err
				}
				if a.output() != OutputTable {
					return encode(cmd.OutOrStdout(), a.output(), infos)
				}
				rows := make([][]string, 0, len(infos))
				for _, d := range infos {
					rev, updated := "default", "-"
					if d.Stored {
						rev = strconv.FormatInt(d.Revision, 10)
						if d.UpdatedAt != nil {
							updated = fmtTime(*d.UpdatedAt)
						}
					}
					rows = append(rows, []string{d.Name, string(d.Kind), strconv.FormatBool(d.Public), rev, updated, d.UpdatedBy})
				}
				return renderTable(cmd.OutOrStdout(), []string{"Domain", "Kind", "Public", "Revision", "Updated", "By"}, rows)
			})
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var revision int64
	var full bool

	cmd := &cobra.Command{
		Use:   "get <domain>",
		Short: "Print a domain's document (or its default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				var doc *content.Document
				var err error
				if revision > 0 {
					doc, err = l.content.Revision(ctx, args[0], revision)
				} else {
					doc, err = l.content.Get(ctx, args[0])
				}
				if err != nil {
					return err
				}
				var v any = doc.Data
				if full {
					v = doc
				}
				format := a.output()
				if format == OutputTable {
					format = OutputJSON
				}
				return encode(cmd.OutOrStdout(), format, v)
			})
		},
	}
	cmd.Flags().Int64Var(&revision, "revision", 0, "print an earlier revision")
	cmd.Flags().BoolVar(&full, "full", false, "include revision metadata")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var file string
	var defaults bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every stored document as one bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				b, err := l.content.Export(ctx, defaults)
				if err != nil {
					return err
				}
				format := a.output()
				if format == OutputTable {
					format = OutputYAML
				}
				if file == "" || file == "-" {
					return encode(cmd.OutOrStdout(), format, b)
				}
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				if err := encode(f, format, b); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d document(s) to %s\n", len(b.Documents), file)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "include domains that were never saved")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bundle written by export (YAML or JSON)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var b content.Bundle
			if err := decode(data, &b); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if dryRun {
				for _, d := range b.Documents {
					fmt.Fprintf(cmd.OutOrStdout(), "would import %s\n", d.Domain)
				}
				return nil
			}
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				n, err := l.content.Import(ctx, &b, a.actor())
				if err != nil {
					return fmt.Errorf("imported %d of %d document(s): %w", n, len(b.Documents), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d document(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the documents without writing")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <domain>",
		Short: "Delete a domain's document so the default applies again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset %s discards the live content; pass --yes to confirm", args[0])
			}
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				if err := l.content.Reset(ctx, args[0], a.actor()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s reset to default\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	var restore int64

	cmd := &cobra.Command{
		Use:   "history <domain>",
		Short: "List earlier revisions of a domain, or restore one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				if restore > 0 {
					doc, err := l.content.Restore(ctx, args[0], restore, a.actor())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Restored revision %d of %s as revision %d\n", restore, args[0], doc.Revision)
					return nil
				}

				metas, err := l.content.History(ctx, args[0])
				if err != nil {
					return err
				}
				if a.output() != OutputTable {
					return encode(cmd.OutOrStdout(), a.output(), metas)
				}
				rows := make([][]string, 0, len(metas))
				for _, m := range metas {
					rows = append(rows, []string{
						strconv.FormatInt(m.Revision, 10),
						strconv.Itoa(m.SchemaVersion),
						fmtTime(m.UpdatedAt),
						m.UpdatedBy,
						strconv.Itoa(m.Size),
					})
				}
				return renderTable(cmd.OutOrStdout(), []string{"Revision", "Schema", "Saved", "By", "Bytes"}, rows)
			})
		},
	}
	cmd.Flags().Int64Var(&restore, "restore", 0, "write this revision back as the newest one")
	return cmd
}
