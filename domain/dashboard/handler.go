// Package dashboard is the Control Centre: server-rendered admin pages for
// editing content, triaging leads and reading page view counts.
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	g "maragu.dev/gomponents"

	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/pricing"
	"github.com/mastermind-creat/techsafi/domain/site"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

const recentSaves = 5

// Handler serves the Control Centre pages
type Handler struct {
	content  *content.Service
	contact  *contact.Service
	pricing  *pricing.Service
	layout   *site.LayoutProvider
	worker   *email.Worker
	sessions *auth.Sessions
	admin    config.AdminConfig
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(
	contentSvc *content.Service,
	contactSvc *contact.Service,
	pricingSvc *pricing.Service,
	layout *site.LayoutProvider,
	worker *email.Worker,
	sessions *auth.Sessions,
	cfg *config.Config,
	log *slog.Logger,
) *Handler {
	return &Handler{
		content:  contentSvc,
		contact:  contactSvc,
		pricing:  pricingSvc,
		layout:   layout,
		worker:   worker,
		sessions: sessions,
		admin:    cfg.Admin,
		gatherer: prometheus.DefaultGatherer,
		log:      log.With(logger.Scope("dashboard")),
	}
}

func render(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return node.Render(c.Response())
}

func (h *Handler) page(c echo.Context, title string, body []g.Node) error {
	f := flash{Saved: c.QueryParam("saved") == "1", Error: c.QueryParam("error")}
	return render(c, http.StatusOK, shell(title, c.Request().URL.Path, f, body...))
}

// back redirects to path with a flash parameter describing err.
func (h *Handler) back(c echo.Context, path string, err error) error {
	if err == nil {
		return c.Redirect(http.StatusSeeOther, path+"?saved=1")
	}
	msg := "Something went wrong. Check the server log."
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		msg = appErr.Message
	} else {
		h.log.Error("dashboard action failed", slog.String("path", c.Request().URL.Path), logger.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(msg))
}

// LoginPage handles GET /control-centre/login
func (h *Handler) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, loginPage(safeNext(c.QueryParam("next")), ""))
}

// Login handles POST /control-centre/login
func (h *Handler) Login(c echo.Context) error {
	next := safeNext(c.FormValue("next"))
	if err := auth.CheckPassword(h.admin.PasswordHash, c.FormValue("password")); err != nil {
		h.log.Warn("dashboard login failed", slog.String("ip", c.RealIP()))
		return render(c, http.StatusUnauthorized, loginPage(next, "Wrong password."))
	}
	if err := h.sessions.Issue(c, auth.AdminSubject); err != nil {
		return err
	}
	h.log.Info("dashboard login", slog.String("ip", c.RealIP()))
	return c.Redirect(http.StatusSeeOther, next)
}

// Logout handles POST /control-centre/logout
func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.Redirect(http.StatusSeeOther, BasePath+"/login")
}

// safeNext only allows redirects back into the Control Centre.
func safeNext(next string) string {
	if next == BasePath || strings.HasPrefix(next, BasePath+"/") || strings.HasPrefix(next, BasePath+"?") {
		return next
	}
	return BasePath
}

// Overview handles GET /control-centre
func (h *Handler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	infos, err := h.content.List(ctx)
	if err != nil {
		return err
	}
	stats, err := h.contact.Stats(ctx)
	if err != nil {
		return err
	}

	d := overviewData{Total: len(infos), Leads: stats}
	for _, i := range infos {
		if i.Stored {
			d.Stored++
			d.RecentSaves = append(d.RecentSaves, i)
		}
	}
	sort.SliceStable(d.RecentSaves, func(i, j int) bool {
		return savedAt(d.RecentSaves[i]).After(savedAt(d.RecentSaves[j]))
	})
	if len(d.RecentSaves) > recentSaves {
		d.RecentSaves = d.RecentSaves[:recentSaves]
	}
	if h.worker != nil {
		m := h.worker.Metrics()
		d.Email = &m
	}
	return h.page(c, "Overview", overviewBody(d))
}

func savedAt(i content.DomainInfo) time.Time {
	if i.UpdatedAt == nil {
		return time.Time{}
	}
	return *i.UpdatedAt
}

// Analytics handles GET /control-centre/analytics
func (h *Handler) Analytics(c echo.Context) error {
	rows, err := site.PageViews(h.gatherer)
	if err != nil {
		return apperror.NewInternal("failed to read page views", err)
	}
	return h.page(c, "Analytics", analyticsBody(rows))
}

// Pages handles GET /control-centre/pages
func (h *Handler) Pages(c echo.Context) error {
	infos, err := h.content.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page(c, "Pages", pagesBody(infos))
}

// EditPage handles GET /control-centre/pages/:domain
func (h *Handler) EditPage(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("domain")

	doc, err := h.content.Get(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrCorruptDocument) {
			// Corrupt documents can still be reset or restored from history.
			doc = &content.Document{Domain: name, Data: json.RawMessage("null")}
		} else {
			return err
		}
	}
	history, err := h.content.History(ctx, name)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc.Data, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(doc.Data)
	}
	return h.page(c, "Edit "+name, editorBody(doc, pretty.String(), history))
}

// SavePage handles POST /control-centre/pages/:domain
func (h *Handler) SavePage(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("domain")
	path := BasePath + "/pages/" + name

	raw := json.RawMessage(c.FormValue("data"))
	if !json.Valid(raw) {
		return h.back(c, path, apperror.NewBadRequest("The document is not valid JSON."))
	}
	if _, err := h.content.Put(ctx, name, raw, auth.Actor(c)); err != nil {
		return h.back(c, path, err)
	}
	h.refreshLayout(c, name)
	return h.back(c, path, nil)
}

// ResetPage handles POST /control-centre/pages/:domain/reset
func (h *Handler) ResetPage(c echo.Context) error {
	name := c.Param("domain")
	err := h.content.Reset(c.Request().Context(), name, auth.Actor(c))
	if err == nil {
		h.refreshLayout(c, name)
	}
	return h.back(c, BasePath+"/pages/"+name, err)
}

// RestorePage handles POST /control-centre/pages/:domain/revisions/:revision/restore
func (h *Handler) RestorePage(c echo.Context) error {
	name := c.Param("domain")
	path := BasePath + "/pages/" + name

	rev, err := strconv.ParseInt(c.Param("revision"), 10, 64)
	if err != nil {
		return h.back(c, path, apperror.NewBadRequest("invalid revision"))
	}
	if _, err := h.content.Restore(c.Request().Context(), name, rev, auth.Actor(c)); err != nil {
		return h.back(c, path, err)
	}
	h.refreshLayout(c, name)
	return h.back(c, path, nil)
}

func (h *Handler) refreshLayout(c echo.Context, name string) {
	if name == content.DomainLayout && h.layout != nil {
		h.layout.Refresh(c.Request().Context())
	}
}

// Leads handles GET /control-centre/leads
func (h *Handler) Leads(c echo.Context) error {
	f := contact.Filter{
		Query:    c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	}
	leads, err := h.contact.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return h.page(c, "Leads", leadsBody(leads, f))
}

// UpdateLead handles POST /control-centre/leads/:id
func (h *Handler) UpdateLead(c echo.Context) error {
	var p contact.Patch
	if v := c.FormValue("status"); v != "" {
		p.Status = &v
	}
	if v := c.FormValue("priority"); v != "" {
		p.Priority = &v
	}
	_, err := h.contact.Update(c.Request().Context(), c.Param("id"), p, auth.Actor(c))
	return h.back(c, BasePath+"/leads", err)
}

// DeleteLead handles POST /control-centre/leads/:id/delete
func (h *Handler) DeleteLead(c echo.Context) error {
	err := h.contact.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c))
	return h.back(c, BasePath+"/leads", err)
}

// Pricing handles GET /control-centre/pricing
func (h *Handler) Pricing(c echo.Context) error {
	plans, err := h.pricing.List(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return h.page(c, "Pricing", pricingBody(plans))
}

// MovePlan handles POST /control-centre/pricing/:id/move/:direction
func (h *Handler) MovePlan(c echo.Context) error {
	dir, ok := listops.ParseDirection(c.Param("direction"))
	if !ok {
		return h.back(c, BasePath+"/pricing", apperror.NewBadRequest("direction must be up or down"))
	}
	_, err := h.pricing.Move(c.Request().Context(), c.Param("id"), dir, auth.Actor(c))
	return h.back(c, BasePath+"/pricing", err)
}

// DeletePlan handles POST /control-centre/pricing/:id/delete
func (h *Handler) DeletePlan(c echo.Context) error {
	err := h.pricing.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c))
	return h.back(c, BasePath+"/pricing", err)
}

// Placeholder handles every other Control Centre path
func (h *Handler) Placeholder(c echo.Context) error {
	return h.page(c, "Coming soon", placeholderBody(c.Request().URL.Path))
}
