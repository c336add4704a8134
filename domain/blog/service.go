// Package blog serves the markdown blog and the legal pages.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var posts = listops.Accessors[content.BlogPost]{
	ID: func(p *content.BlogPost) *string { return &p.ID },
}

// PostView is a post ready to display.
type PostView struct {
	content.BlogPost
	DisplayTitle string `json:"displayTitle"`
	HTML         string `json:"html"`
}

// LegalView is a legal page ready to display.
type LegalView struct {
	content.LegalPage
	HTML string `json:"html"`
}

// ImportResult counts what ImportPosts changed.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Service manages blog posts and legal pages
type Service struct {
	content *content.Service
	posts   *content.Accessor[[]content.BlogPost]
	legal   *content.Accessor[[]content.LegalPage]
	md      *Markdown
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new blog service
func NewService(contentSvc *content.Service, log *slog.Logger) *Service {
	return &Service{
		content: contentSvc,
		posts:   content.For(contentSvc, content.Blog),
		legal:   content.For(contentSvc, content.Legal),
		md:      NewMarkdown(),
		log:     log.With(logger.Scope("blog")),
		now:     time.Now,
	}
}

// Published returns the visible posts, newest first. Drafts and posts
// scheduled in the future are hidden unless includeDrafts is set.
func (s *Service) Published(ctx context.Context, includeDrafts bool) ([]content.BlogPost, error) {
	all, err := s.posts.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.visible(all, includeDrafts), nil
}

// PublishedOrDefault is Published for the public renderer.
func (s *Service) PublishedOrDefault(ctx context.Context) []content.BlogPost {
	return s.visible(s.posts.FetchOrDefault(ctx), false)
}

func (s *Service) visible(all []content.BlogPost, includeDrafts bool) []content.BlogPost {
	now := s.now()
	out := listops.Filter(all, func(p content.BlogPost) bool {
		return includeDrafts || (!p.Draft && !p.PublishedAt.After(now))
	})
	slices.SortStableFunc(out, func(a, b content.BlogPost) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return out
}

// Post returns the rendered post with slug.
func (s *Service) Post(ctx context.Context, slug string, includeDrafts bool) (*PostView, error) {
	list, err := s.Published(ctx, includeDrafts)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Slug == slug {
			return s.View(p)
		}
	}
	return nil, apperror.NewNotFound("post", slug)
}

// View renders p's body.
func (s *Service) View(p content.BlogPost) (*PostView, error) {
	html, err := s.md.Render(p.Body)
	if err != nil {
		return nil, apperror.NewInternal("failed to render post", err)
	}
	return &PostView{BlogPost: p, DisplayTitle: DisplayTitle(p), HTML: html}, nil
}

// DisplayTitle is the post title, or one derived from the slug when empty.
func DisplayTitle(p content.BlogPost) string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return TitleFromSlug(p.Slug)
}

// Create adds a post. The slug is derived from the title when empty and
// must be unique.
func (s *Service) Create(ctx context.Context, p content.BlogPost, actor string) (content.BlogPost, error) {
	p = s.normalize(p)
	if p.Slug == "" {
		return p, apperror.ErrValidation.WithMessage("title or slug is required")
	}
	var created content.BlogPost
	_, err := s.posts.Mutate(ctx, actor, func(list *[]content.BlogPost) error {
		if indexOfSlug(*list, p.Slug) >= 0 {
			return apperror.ErrConflict.WithMessage("a post with slug " + p.Slug + " already exists")
		}
		*list, created = posts.Append(*list, p)
		return nil
	})
	if err != nil {
		return p, err
	}
	s.log.Info("post created", slog.String("id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

// Update replaces the post with id.
func (s *Service) Update(ctx context.Context, id string, p content.BlogPost, actor string) (content.BlogPost, error) {
	p = s.normalize(p)
	if p.Slug == "" {
		return p, apperror.ErrValidation.WithMessage("title or slug is required")
	}
	_, err := s.posts.Mutate(ctx, actor, func(list *[]content.BlogPost) error {
		if i := indexOfSlug(*list, p.Slug); i >= 0 && (*list)[i].ID != id {
			return apperror.ErrConflict.WithMessage("a post with slug " + p.Slug + " already exists")
		}
		var err error
		*list, err = posts.Replace(*list, id, p)
		return err
	})
	if err != nil {
		return p, mapErr(err, id)
	}
	p.ID = id
	return p, nil
}

// Delete removes the post with id.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	_, err := s.posts.Mutate(ctx, actor, func(list *[]content.BlogPost) error {
		var err error
		*list, err = posts.Remove(*list, id)
		return err
	})
	if err != nil {
		return mapErr(err, id)
	}
	s.content.ItemDeleted(events.EntityPost, id, actor)
	return nil
}

// ImportPosts inserts or replaces posts by slug in one write.
func (s *Service) ImportPosts(ctx context.Context, in []content.BlogPost, actor string) (ImportResult, error) {
	var res ImportResult
	var ids []string
	_, err := s.posts.Mutate(ctx, actor, func(list *[]content.BlogPost) error {
		for _, p := range in {
			p = s.normalize(p)
			if i := indexOfSlug(*list, p.Slug); i >= 0 {
				p.ID = (*list)[i].ID
				(*list)[i] = p
				ids = append(ids, p.ID)
				res.Updated++
				continue
			}
			var created content.BlogPost
			*list, created = posts.Append(*list, p)
			ids = append(ids, created.ID)
			res.Created++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	s.log.Info("posts imported", slog.Int("created", res.Created), slog.Int("updated", res.Updated))
	s.content.ItemsChanged(events.EntityPost, ids, actor)
	return res, nil
}

func (s *Service) normalize(p content.BlogPost) content.BlogPost {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = s.now().UTC()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if strings.TrimSpace(p.Excerpt) == "" && p.Body != "" {
		if rendered, err := s.md.Render(p.Body); err == nil {
			p.Excerpt = Excerpt(PlainText(rendered), excerptLen)
		}
	}
	return p
}

func indexOfSlug(list []content.BlogPost, slug string) int {
	return slices.IndexFunc(list, func(p content.BlogPost) bool { return p.Slug == slug })
}

// Legal returns the rendered legal page with slug.
func (s *Service) Legal(ctx context.Context, slug string) (*LegalView, error) {
	pages, err := s.legal.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.legalView(pages, slug)
}

// LegalOrDefault is Legal for the public renderer.
func (s *Service) LegalOrDefault(ctx context.Context, slug string) (*LegalView, error) {
	return s.legalView(s.legal.FetchOrDefault(ctx), slug)
}

// LegalPages lists the legal pages without bodies rendered.
func (s *Service) LegalPages(ctx context.Context) []content.LegalPage {
	return s.legal.FetchOrDefault(ctx)
}

func (s *Service) legalView(pages []content.LegalPage, slug string) (*LegalView, error) {
	for _, p := range pages {
		if p.Slug == slug {
			html, err := s.md.Render(p.Body)
			if err != nil {
				return nil, apperror.NewInternal("failed to render legal page", err)
			}
			return &LegalView{LegalPage: p, HTML: html}, nil
		}
	}
	return nil, apperror.NewNotFound("legal page", slug)
}

// SaveLegal creates or replaces the legal page with slug.
func (s *Service) SaveLegal(ctx context.Context, slug string, page content.LegalPage, actor string) (content.LegalPage, error) {
	page.Slug = slug
	page.UpdatedAt = s.now().UTC()
	if page.Title == "" {
		page.Title = TitleFromSlug(slug)
	}
	_, err := s.legal.Mutate(ctx, actor, func(pages *[]content.LegalPage) error {
		i := slices.IndexFunc(*pages, func(p content.LegalPage) bool { return p.Slug == slug })
		if i < 0 {
			*pages = append(*pages, page)
			return nil
		}
		(*pages)[i] = page
		return nil
	})
	if err != nil {
		return page, err
	}
	return page, nil
}

func mapErr(err error, id string) error {
	if errors.Is(err, listops.ErrNotFound) {
		return apperror.NewNotFound("post", id)
	}
	return err
}
