// Package contact stores leads from the public contact form and lets the
// Control Centre triage them.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var submissions = listops.Accessors[content.ContactSubmission]{
	ID: func(s *content.ContactSubmission) *string { return &s.ID },
}

// Statuses and Priorities list the accepted enum values in display order.
var (
	Statuses   = []string{content.StatusNew, content.StatusContacted, content.StatusInProgress, content.StatusClosed}
	Priorities = []string{content.PriorityLow, content.PriorityMedium, content.PriorityHigh}
)

// Maximum field lengths in characters for public submissions.
const (
	maxNameLen    = 120
	maxEmailLen   = 254
	maxPhoneLen   = 40
	maxCompanyLen = 160
	maxOptionLen  = 120
	maxMessageLen = 5000
)

// Notifier queues outgoing email. *email.Worker implements it.
type Notifier interface {
	Enqueue(msg email.Message) error
}

// SubmitRequest is the public form payload.
type SubmitRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Company string `json:"company" form:"company"`
	Service string `json:"service" form:"service"`
	Budget  string `json:"budget" form:"budget"`
	Message string `json:"message" form:"message"`
}

// Filter narrows the lead list. Empty fields match everything.
type Filter struct {
	Query    string
	Status   string
	Priority string
}

// Patch changes the triage fields of a lead. Nil fields are left alone.
type Patch struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// Stats summarizes the leads for the dashboard overview.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
	LastAt     *time.Time     `json:"lastAt,omitempty"`
}

// Service manages contact submissions
type Service struct {
	content  *content.Service
	acc      *content.Accessor[[]content.ContactSubmission]
	notifier Notifier
	notifyTo string
	site     config.SiteConfig
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new contact service
func NewService(contentSvc *content.Service, notifier Notifier, emailCfg *email.Config, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		content:  contentSvc,
		acc:      content.For(contentSvc, content.ContactSubmissions),
		notifier: notifier,
		notifyTo: emailCfg.NotifyAddress,
		site:     cfg.Site,
		log:      log.With(logger.Scope("contact")),
		now:      time.Now,
	}
}

// Submit stores a new lead with status new and priority medium, then queues
// the team notification. The notification never fails the submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (content.ContactSubmission, error) {
	req = trimRequest(req)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return content.ContactSubmission{}, apperror.ErrValidation.WithMessage("name, email and message are required")
	}
	if err := checkLengths(req); err != nil {
		return content.ContactSubmission{}, err
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		return content.ContactSubmission{}, apperror.ErrValidation.WithMessage("email address is invalid")
	}
	req.Email = addr.Address

	var created content.ContactSubmission
	_, err = s.acc.Mutate(ctx, "anonymous", func(list *[]content.ContactSubmission) error {
		*list, created = submissions.Append(*list, content.ContactSubmission{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Company:   req.Company,
			Service:   req.Service,
			Budget:    req.Budget,
			Message:   req.Message,
			Status:    content.StatusNew,
			Priority:  content.PriorityMedium,
			CreatedAt: s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return created, err
	}

	s.log.Info("contact submission received",
		slog.String("id", created.ID),
		slog.String("service", created.Service))
	s.content.ItemCreated(events.EntityLead, created.ID, "anonymous")
	s.notify(created)
	return created, nil
}

func (s *Service) notify(lead content.ContactSubmission) {
	if s.notifier == nil || s.notifyTo == "" {
		return
	}
	title := fmt.Sprintf("New enquiry from %s", lead.Name)
	err := s.notifier.Enqueue(email.Message{
		Template: "contact_notification",
		To:       s.notifyTo,
		ReplyTo:  lead.Email,
		Subject:  fmt.Sprintf("[%s] %s", s.site.Name, title),
		Data: email.TemplateContext{
			"siteName":     s.site.Name,
			"title":        title,
			"message":      lead.Message,
			"dashboardUrl": strings.TrimRight(s.site.BaseURL, "/") + "/control-centre/leads",
			"lead": map[string]any{
				"name":    lead.Name,
				"email":   lead.Email,
				"phone":   lead.Phone,
				"company": lead.Company,
				"service": lead.Service,
				"budget":  lead.Budget,
			},
		},
	})
	if err != nil {
		s.log.Warn("lead notification not queued", slog.String("id", lead.ID), logger.Error(err))
	}
}

// List returns the leads matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]content.ContactSubmission, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(all, f), nil
}

// Apply filters and orders leads without touching the store.
func Apply(all []content.ContactSubmission, f Filter) []content.ContactSubmission {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := listops.Filter(all, func(l content.ContactSubmission) bool {
		if f.Status != "" && l.Status != f.Status {
			return false
		}
		if f.Priority != "" && l.Priority != f.Priority {
			return false
		}
		if q == "" {
			return true
		}
		for _, field := range []string{l.Name, l.Email, l.Company, l.Message} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
	slices.SortStableFunc(out, func(a, b content.ContactSubmission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Get returns one lead.
func (s *Service) Get(ctx context.Context, id string) (content.ContactSubmission, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return content.ContactSubmission{}, err
	}
	idx := submissions.IndexOf(all, id)
	if idx < 0 {
		return content.ContactSubmission{}, apperror.NewNotFound("contact submission", id)
	}
	return all[idx], nil
}

// Update applies p to the lead with id.
func (s *Service) Update(ctx context.Context, id string, p Patch, actor string) (content.ContactSubmission, error) {
	if p.Status != nil && !slices.Contains(Statuses, *p.Status) {
		return content.ContactSubmission{}, apperror.ErrValidation.WithMessage("status must be one of new, contacted, in-progress, closed")
	}
	if p.Priority != nil && !slices.Contains(Priorities, *p.Priority) {
		return content.ContactSubmission{}, apperror.ErrValidation.WithMessage("priority must be one of low, medium, high")
	}

	var updated content.ContactSubmission
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.ContactSubmission) error {
		idx := submissions.IndexOf(*list, id)
		if idx < 0 {
			return listops.ErrNotFound
		}
		lead := (*list)[idx]
		if p.Status != nil {
			lead.Status = *p.Status
		}
		if p.Priority != nil {
			lead.Priority = *p.Priority
		}
		var err error
		*list, err = submissions.Replace(*list, id, lead)
		updated = lead
		return err
	})
	if err != nil {
		return updated, mapErr(err, id)
	}
	s.log.Info("contact submission updated",
		slog.String("id", id),
		slog.String("status", updated.Status),
		slog.String("priority", updated.Priority))
	return updated, nil
}

// Delete removes the lead with id.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	_, err := s.acc.Mutate(ctx, actor, func(list *[]content.ContactSubmission) error {
		var err error
		*list, err = submissions.Remove(*list, id)
		return err
	})
	if err != nil {
		return mapErr(err, id)
	}
	s.log.Info("contact submission deleted", slog.String("id", id))
	s.content.ItemDeleted(events.EntityLead, id, actor)
	return nil
}

// Stats counts leads by status and priority.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Total:      len(all),
		ByStatus:   make(map[string]int, len(Statuses)),
		ByPriority: make(map[string]int, len(Priorities)),
	}
	for _, v := range Statuses {
		st.ByStatus[v] = 0
	}
	for _, v := range Priorities {
		st.ByPriority[v] = 0
	}
	for _, l := range all {
		st.ByStatus[l.Status]++
		st.ByPriority[l.Priority]++
		if st.LastAt == nil || l.CreatedAt.After(*st.LastAt) {
			at := l.CreatedAt
			st.LastAt = &at
		}
	}
	return st, nil
}

func trimRequest(r SubmitRequest) SubmitRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Service = strings.TrimSpace(r.Service)
	r.Budget = strings.TrimSpace(r.Budget)
	r.Message = strings.TrimSpace(r.Message)
	return r
}

func checkLengths(r SubmitRequest) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"name", r.Name, maxNameLen},
		{"email", r.Email, maxEmailLen},
		{"phone", r.Phone, maxPhoneLen},
		{"company", r.Company, maxCompanyLen},
		{"service", r.Service, maxOptionLen},
		{"budget", r.Budget, maxOptionLen},
		{"message", r.Message, maxMessageLen},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return apperror.ErrValidation.WithMessage(fmt.Sprintf("%s must be at most %d characters", f.name, f.max))
		}
	}
	return nil
}

func mapErr(err error, id string) error {
	if errors.Is(err, listops.ErrNotFound) {
		return apperror.NewNotFound("contact submission", id)
	}
	return err
}
