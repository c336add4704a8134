// Package site renders the public marketing pages. Every page reads its
// content document on each request, so a save in the Control Centre shows
// up on the next page load.
package site

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"github.com/mastermind-creat/techsafi/domain/blog"
	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/pricing"
	"github.com/mastermind-creat/techsafi/domain/site/components"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// Handler serves the public pages
type Handler struct {
	content *content.Service
	layout  *LayoutProvider
	blog    *blog.Service
	contact *contact.Service
	limiter *contact.RateLimiter
	site    config.SiteConfig
	log     *slog.Logger
}

// NewHandler creates a new site handler
func NewHandler(
	contentSvc *content.Service,
	layout *LayoutProvider,
	blogSvc *blog.Service,
	contactSvc *contact.Service,
	limiter *contact.RateLimiter,
	cfg *config.Config,
	log *slog.Logger,
) *Handler {
	return &Handler{
		content: contentSvc,
		layout:  layout,
		blog:    blogSvc,
		contact: contactSvc,
		limiter: limiter,
		site:    cfg.Site,
		log:     log.With(logger.Scope("site")),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, domains []string, body []g.Node) {
	page := components.Page(components.PageConfig{
		Title:      title,
		SiteName:   h.site.Name,
		Path:       r.URL.Path,
		Domains:    domains,
		LiveReload: h.site.LiveReload,
	}, h.layout.Current(), body...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		h.log.Warn("failed to write page", slog.String("path", r.URL.Path), logger.Error(err))
	}
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home := content.For(h.content, content.Home).FetchOrDefault(r.Context())

	var est *Estimate
	if t := r.URL.Query().Get("type"); t != "" {
		e := EstimatePrice(home, t, r.URL.Query()["feature"])
		est = &e
	}
	h.render(w, r, http.StatusOK, "", []string{content.DomainHome}, homeBody(home, est))
}

// Company handles GET /company
func (h *Handler) Company(w http.ResponseWriter, r *http.Request) {
	about := content.For(h.content, content.About).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "Company", []string{content.DomainAbout}, companyBody(about))
}

// Services handles GET /services
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	svc := content.For(h.content, content.Services).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "Services", []string{content.DomainServices}, servicesBody(svc))
}

// AiSolutions handles GET /ai-solutions
func (h *Handler) AiSolutions(w http.ResponseWriter, r *http.Request) {
	ai := content.For(h.content, content.AiSolutions).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "AI Solutions", []string{content.DomainAiSolutions}, aiSolutionsBody(ai))
}

// Pricing handles GET /pricing?category=
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !pricing.ValidCategory(category) {
		category = ""
	}
	plans := content.For(h.content, content.Pricing).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "Pricing", []string{content.DomainPricing}, pricingBody(pricing.Sorted(plans, category), category))
}

// Portfolio handles GET /portfolio?category=
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	projects := content.For(h.content, content.Portfolio).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "Portfolio", []string{content.DomainPortfolio}, portfolioBody(projects, r.URL.Query().Get("category")))
}

// Careers handles GET /careers
func (h *Handler) Careers(w http.ResponseWriter, r *http.Request) {
	careers := content.For(h.content, content.Careers).FetchOrDefault(r.Context())
	h.render(w, r, http.StatusOK, "Careers", []string{content.DomainCareers}, careersBody(careers))
}

// Contact handles GET /contact
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.renderContact(w, r, http.StatusOK, contactForm{Sent: q.Get("sent") == "1", Service: q.Get("service")})
}

func (h *Handler) renderContact(w http.ResponseWriter, r *http.Request, status int, f contactForm) {
	page := content.For(h.content, content.Contact).FetchOrDefault(r.Context())
	h.render(w, r, status, "Contact", []string{content.DomainContact}, contactBody(page, f))
}

// SubmitContact handles POST /contact
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		w.Header().Set("Retry-After", "60")
		h.render(w, r, http.StatusTooManyRequests, "Slow down", nil, rateLimitedBody())
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderContact(w, r, http.StatusBadRequest, contactForm{Error: "The form could not be read. Please try again."})
		return
	}
	req := contact.SubmitRequest{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Company: r.PostForm.Get("company"),
		Service: r.PostForm.Get("service"),
		Budget:  r.PostForm.Get("budget"),
		Message: r.PostForm.Get("message"),
	}

	if _, err := h.contact.Submit(r.Context(), req); err != nil {
		status, msg := http.StatusInternalServerError, "Something went wrong while sending your message. Please try again or reach us on WhatsApp."
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
			status, msg = appErr.HTTPStatus, appErr.Message
		} else {
			h.log.Error("contact submission failed", logger.Error(err))
		}
		h.renderContact(w, r, status, contactForm{Values: req, Error: msg})
		return
	}
	http.Redirect(w, r, "/contact?sent=1#enquiry", http.StatusSeeOther)
}

// BlogIndex handles GET /blog
func (h *Handler) BlogIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "Blog", []string{content.DomainBlog}, blogListBody(h.blog.PublishedOrDefault(r.Context())))
}

// BlogPost handles GET /blog/{slug}
func (h *Handler) BlogPost(w http.ResponseWriter, r *http.Request) {
	view, err := h.blog.Post(r.Context(), chi.URLParam(r, "slug"), false)
	if err != nil {
		h.contentError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.DisplayTitle, []string{content.DomainBlog}, postBody(view))
}

// Legal handles GET /legal/{slug}
func (h *Handler) Legal(w http.ResponseWriter, r *http.Request) {
	view, err := h.blog.LegalOrDefault(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.contentError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.Title, []string{content.DomainLegal}, legalBody(view))
}

// SitemapPage handles GET /sitemap
func (h *Handler) SitemapPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "Sitemap", []string{content.DomainBlog, content.DomainLegal}, sitemapBody(h.Sitemap(r.Context())))
}

// SitemapXML handles GET /sitemap.xml
func (h *Handler) SitemapXML(w http.ResponseWriter, r *http.Request) {
	out, err := sitemapXML(h.site.BaseURL, h.Sitemap(r.Context()))
	if err != nil {
		h.log.Error("failed to encode sitemap", logger.Error(err))
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// NotFound renders the 404 page
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "Page not found", nil, notFoundBody())
}

// contentError renders 404 for missing slugs. Anything else is logged and
// shown as the not-found page so visitors never see a stack of errors.
func (h *Handler) contentError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, apperror.ErrNotFound) {
		h.log.Error("failed to load page content", slog.String("path", r.URL.Path), logger.Error(err))
	}
	h.NotFound(w, r)
}

type clientIPKey struct{}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// clientIP is the address echo resolved in Mount, or the socket peer when
// the router is used on its own.
func clientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
