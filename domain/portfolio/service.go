// Package portfolio edits the list of case studies.
package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var projects = listops.Accessors[content.ProjectItem]{
	ID: func(p *content.ProjectItem) *string { return &p.ID },
}

// Service manages portfolio projects
type Service struct {
	content *content.Service
	acc     *content.Accessor[[]content.ProjectItem]
	log     *slog.Logger
}

// NewService creates a new portfolio service
func NewService(contentSvc *content.Service, log *slog.Logger) *Service {
	return &Service{
		content: contentSvc,
		acc:     content.For(contentSvc, content.Portfolio),
		log:     log.With(logger.Scope("portfolio")),
	}
}

// List returns the projects, optionally limited to one category (case-insensitive).
func (s *Service) List(ctx context.Context, category string) ([]content.ProjectItem, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ByCategory(all, category), nil
}

// ByCategory filters projects by category; an empty category keeps all.
func ByCategory(all []content.ProjectItem, category string) []content.ProjectItem {
	if category == "" {
		return all
	}
	return listops.Filter(all, func(p content.ProjectItem) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Categories returns the distinct categories in first-seen order.
func Categories(all []content.ProjectItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range all {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Create appends a project with a new id.
func (s *Service) Create(ctx context.Context, item content.ProjectItem, actor string) (content.ProjectItem, error) {
	if item.Title == "" {
		return item, apperror.ErrValidation.WithMessage("title is required")
	}
	var created content.ProjectItem
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.ProjectItem) error {
		*list, created = projects.Append(*list, item)
		return nil
	})
	if err != nil {
		return item, err
	}
	s.log.Info("project created", slog.String("id", created.ID), slog.String("title", created.Title))
	return created, nil
}

// Update replaces the project with id.
func (s *Service) Update(ctx context.Context, id string, item content.ProjectItem, actor string) (content.ProjectItem, error) {
	if item.Title == "" {
		return item, apperror.ErrValidation.WithMessage("title is required")
	}
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.ProjectItem) error {
		var err error
		*list, err = projects.Replace(*list, id, item)
		return err
	})
	if err != nil {
		return item, mapErr(err, id)
	}
	item.ID = id
	return item, nil
}

// Delete removes the project with id.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.ProjectItem) error {
		var err error
		*list, err = projects.Remove(*list, id)
		return err
	})
	if err != nil {
		return mapErr(err, id)
	}
	s.content.ItemDeleted(events.EntityProject, id, actor)
	return nil
}

func mapErr(err error, id string) error {
	if errors.Is(err, listops.ErrNotFound) {
		return apperror.NewNotFound("project", id)
	}
	return err
}
