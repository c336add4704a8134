// Package pricing edits the pricing plan list: category filtering, CRUD by
// id and manual ordering through displayOrder.
package pricing

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var plans = listops.Accessors[content.PricingPlan]{
	ID:    func(p *content.PricingPlan) *string { return &p.ID },
	Order: func(p *content.PricingPlan) *int { return &p.DisplayOrder },
}

// Service manages pricing plans
type Service struct {
	content *content.Service
	acc     *content.Accessor[[]content.PricingPlan]
	log     *slog.Logger
}

// NewService creates a new pricing service
func NewService(contentSvc *content.Service, log *slog.Logger) *Service {
	return &Service{
		content: contentSvc,
		acc:     content.For(contentSvc, content.Pricing),
		log:     log.With(logger.Scope("pricing")),
	}
}

// ValidCategory reports whether category is one of the pricing tabs.
func ValidCategory(category string) bool {
	return slices.Contains(content.PricingCategories, category)
}

// List returns the plans sorted by displayOrder, optionally limited to one category.
func (s *Service) List(ctx context.Context, category string) ([]content.PricingPlan, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Sorted(all, category), nil
}

// Sorted is List without the store: the public page uses it on fetched plans.
func Sorted(all []content.PricingPlan, category string) []content.PricingPlan {
	out := slices.Clone(all)
	if category != "" {
		out = listops.Filter(out, func(p content.PricingPlan) bool { return p.Category == category })
	}
	plans.SortByOrder(out)
	return out
}

// Create appends a plan with a new id placed last.
func (s *Service) Create(ctx context.Context, plan content.PricingPlan, actor string) (content.PricingPlan, error) {
	if err := validate(plan); err != nil {
		return plan, err
	}
	var created content.PricingPlan
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.PricingPlan) error {
		*list, created = plans.Append(*list, plan)
		return nil
	})
	if err != nil {
		return plan, err
	}
	s.log.Info("pricing plan created", slog.String("id", created.ID), slog.String("name", created.Name))
	return created, nil
}

// Update replaces the plan with id. displayOrder is kept unless set.
func (s *Service) Update(ctx context.Context, id string, plan content.PricingPlan, actor string) (content.PricingPlan, error) {
	if err := validate(plan); err != nil {
		return plan, err
	}
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.PricingPlan) error {
		idx := plans.IndexOf(*list, id)
		if idx < 0 {
			return listops.ErrNotFound
		}
		if plan.DisplayOrder == 0 {
			plan.DisplayOrder = (*list)[idx].DisplayOrder
		}
		var err error
		*list, err = plans.Replace(*list, id, plan)
		return err
	})
	if err != nil {
		return plan, mapErr(err, id)
	}
	plan.ID = id
	return plan, nil
}

// Delete removes the plan with id.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.PricingPlan) error {
		var err error
		*list, err = plans.Remove(*list, id)
		return err
	})
	if err != nil {
		return mapErr(err, id)
	}
	s.log.Info("pricing plan deleted", slog.String("id", id))
	s.content.ItemDeleted(events.EntityPlan, id, actor)
	return nil
}

// Move swaps the plan with its neighbour in display order.
func (s *Service) Move(ctx context.Context, id string, dir listops.Direction, actor string) ([]content.PricingPlan, error) {
	list, err := s.acc.Mutate(ctx, actor, func(list *[]content.PricingPlan) error {
		var err error
		*list, err = plans.Move(*list, id, dir)
		return err
	})
	if err != nil {
		return nil, mapErr(err, id)
	}
	return list, nil
}

func validate(plan content.PricingPlan) error {
	if plan.Name == "" {
		return apperror.ErrValidation.WithMessage("name is required")
	}
	if !ValidCategory(plan.Category) {
		return apperror.ErrValidation.WithMessage("category must be one of Web, Mobile, AI, Cloud, Design")
	}
	return nil
}

func mapErr(err error, id string) error {
	if errors.Is(err, listops.ErrNotFound) {
		return apperror.NewNotFound("pricing plan", id)
	}
	return err
}
