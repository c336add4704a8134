package blog

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// ParsePost reads a markdown file with a YAML frontmatter block. The slug
// falls back to the file name and the body is everything after the block.
func ParsePost(r io.Reader, filename string) (content.BlogPost, error) {
	var post content.BlogPost
	raw, err := io.ReadAll(r)
	if err != nil {
		return post, err
	}

	body, err := frontmatter.Parse(bytes.NewReader(raw), &post)
	if err != nil {
		return post, fmt.Errorf("parse frontmatter of %s: %w", filename, err)
	}
	post.Body = strings.TrimLeft(string(body), "\n")

	if post.Slug == "" {
		post.Slug = Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	}
	if post.Slug == "" {
		return post, fmt.Errorf("%s: post has no slug", filename)
	}
	return post, nil
}
