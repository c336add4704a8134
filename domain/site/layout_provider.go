package site

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// LayoutProvider holds the navbar/footer config shared by every page. It is
// loaded once on start and refreshed whenever the layout document changes.
type LayoutProvider struct {
	acc    *content.Accessor[content.GlobalLayoutConfig]
	events *events.Service
	log    *slog.Logger

	mu          sync.RWMutex
	current     content.GlobalLayoutConfig
	loaded      bool
	unsubscribe func()
}

// NewLayoutProvider creates a provider; call Start to load and subscribe.
func NewLayoutProvider(contentSvc *content.Service, ev *events.Service, log *slog.Logger) *LayoutProvider {
	return &LayoutProvider{
		acc:    content.For(contentSvc, content.Layout),
		events: ev,
		log:    log.With(logger.Scope("site.layout")),
	}
}

// Start loads the layout and listens for saves of it.
func (p *LayoutProvider) Start(ctx context.Context) error {
	p.Refresh(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe == nil {
		p.unsubscribe = p.events.Subscribe(events.TopicContent, p.onEvent)
	}
	return nil
}

// Stop unsubscribes from content events.
func (p *LayoutProvider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *LayoutProvider) onEvent(ev events.Event) {
	if ev.Type != events.ConfigUpdated || ev.ID != content.DomainLayout {
		return
	}
	p.Refresh(context.Background())
}

// Refresh reloads the layout from the store. Read failures fall back to the default layout.
func (p *LayoutProvider) Refresh(ctx context.Context) {
	layout := p.acc.FetchOrDefault(ctx)

	p.mu.Lock()
	p.current = layout
	p.loaded = true
	p.mu.Unlock()

	p.log.Debug("layout refreshed", slog.Int("nav_links", len(layout.Navbar.Links)))
}

// Current returns the last loaded layout, loading it first if Start has not run.
func (p *LayoutProvider) Current() content.GlobalLayoutConfig {
	p.mu.RLock()
	if p.loaded {
		defer p.mu.RUnlock()
		return p.current
	}
	p.mu.RUnlock()

	p.Refresh(context.Background())
	return p.Current()
}
