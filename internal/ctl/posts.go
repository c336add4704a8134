package ctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mastermind-creat/techsafi/domain/blog"
	"github.com/mastermind-creat/techsafi/domain/content"
)

func (a *app) postsCmd() *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Manage blog posts",
	}

	var dryRun bool
	importCmd := &cobra.Command{
		Use:   "import <file.md|dir>...",
		Short: "Import markdown posts with YAML frontmatter",
		Long: `Import markdown files as blog posts. Frontmatter fields map to the post
(title, slug, excerpt, author, tags, publishedAt, draft). Posts with an
existing slug are replaced in place; new slugs are appended.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := markdownFiles(args)
			if err != nil {
				return err
			}
			parsed := make([]content.BlogPost, 0, len(files))
			for _, name := range files {
				p, err := parseFile(name)
				if err != nil {
					return err
				}
				parsed = append(parsed, p)
				if dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> /blog/%s\n", name, p.Slug)
				}
			}
			if dryRun {
				return nil
			}
			return a.withLocal(cmd, func(ctx context.Context, l *local) error {
				res, err := l.blog.ImportPosts(ctx, parsed, a.actor())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d post(s): %d created, %d updated\n", len(parsed), res.Created, res.Updated)
				return nil
			})
		},
	}
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the files and print their slugs without writing")

	posts.AddCommand(importCmd)
	return posts
}

func parseFile(name string) (content.BlogPost, error) {
	f, err := os.Open(name)
	if err != nil {
		return content.BlogPost{}, err
	}
	defer f.Close()
	return blog.ParsePost(f, name)
}

// markdownFiles expands directories into the .md files they contain, in
// lexical order. Plain file arguments are kept as given.
func markdownFiles(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.md"))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no markdown files found")
	}
	return out, nil
}
