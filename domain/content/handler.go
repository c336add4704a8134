package content

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// maxDocumentBytes bounds PUT bodies.
const maxDocumentBytes = 2 << 20

// Handler handles HTTP requests for content documents
type Handler struct {
	svc *Service
}

// NewHandler creates a new content handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// domainParam resolves :domain and enforces auth for private domains.
func domainParam(c echo.Context) (Domain, error) {
	d, err := lookup(c.Param("domain"))
	if err != nil {
		return nil, err
	}
	if !d.Public() && auth.GetUser(c) == nil {
		return nil, apperror.ErrUnauthorized
	}
	return d, nil
}

func revisionParam(c echo.Context) (int64, error) {
	rev, err := strconv.ParseInt(c.Param("revision"), 10, 64)
	if err != nil || rev < 1 {
		return 0, apperror.NewBadRequest("revision must be a positive integer")
	}
	return rev, nil
}

// List handles GET /api/content. Anonymous callers only see public domains.
func (h *Handler) List(c echo.Context) error {
	infos, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if auth.GetUser(c) == nil {
		public := infos[:0]
		for _, info := range infos {
			if info.Public {
				public = append(public, info)
			}
		}
		infos = public
	}
	return c.JSON(http.StatusOK, map[string]any{"domains": infos})
}

// Get handles GET /api/content/:domain
func (h *Handler) Get(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}
	doc, err := h.svc.Get(c.Request().Context(), d.Name())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Put handles PUT /api/content/:domain. The body is the whole document.
func (h *Handler) Put(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentBytes+1))
	if err != nil {
		return apperror.NewBadRequest("failed to read request body")
	}
	if len(body) > maxDocumentBytes {
		return apperror.ErrPayloadTooLarge.WithMessage("document is too large")
	}
	if !json.Valid(body) {
		return apperror.NewBadRequest("request body is not valid JSON")
	}

	doc, err := h.svc.Put(c.Request().Context(), d.Name(), body, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Reset handles DELETE /api/content/:domain
func (h *Handler) Reset(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Reset(c.Request().Context(), d.Name(), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /api/content/:domain/history
func (h *Handler) History(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}
	revs, err := h.svc.History(c.Request().Context(), d.Name())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"domain": d.Name(), "revisions": revs})
}

// Revision handles GET /api/content/:domain/revisions/:revision
func (h *Handler) Revision(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}
	rev, err := revisionParam(c)
	if err != nil {
		return err
	}
	doc, err := h.svc.Revision(c.Request().Context(), d.Name(), rev)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Restore handles POST /api/content/:domain/revisions/:revision/restore
func (h *Handler) Restore(c echo.Context) error {
	d, err := domainParam(c)
	if err != nil {
		return err
	}
	rev, err := revisionParam(c)
	if err != nil {
		return err
	}
	doc, err := h.svc.Restore(c.Request().Context(), d.Name(), rev, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}
