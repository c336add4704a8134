package media

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// Handler handles HTTP requests for the media library
type Handler struct {
	svc *Service
}

// NewHandler creates a new media handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/media
func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"assets":  list,
		"enabled": h.svc.Enabled(),
	})
}

// Upload handles POST /api/media (multipart field "file")
func (h *Handler) Upload(c echo.Context) error {
	if !h.svc.Enabled() {
		return apperror.ErrStorageDisabled
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apperror.ErrPayloadTooLarge.WithMessage("file is too large")
		}
		return apperror.NewBadRequest("multipart field \"file\" is required")
	}

	f, err := fh.Open()
	if err != nil {
		return apperror.NewInternal("failed to open upload", err)
	}
	defer f.Close()

	ct := fh.Header.Get(echo.HeaderContentType)
	if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/octet-stream" {
		ct = mt
	} else {
		ct, err = sniff(f)
		if err != nil {
			return apperror.NewInternal("failed to read upload", err)
		}
	}

	asset, err := h.svc.Upload(c.Request().Context(), Upload{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Body:        f,
	}, auth.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, asset)
}

// Delete handles DELETE /api/media/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), auth.Actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// sniff detects the content type from the first bytes and rewinds.
func sniff(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
