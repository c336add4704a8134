package site

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/echo/v4"
)

//go:embed static
var staticFS embed.FS

// NewRouter builds the chi router for the public pages.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(countViews)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", cacheStatic(http.FileServer(http.FS(staticSub)))))

	r.Get("/", h.Home)
	r.Get("/company", h.Company)
	r.Get("/services", h.Services)
	r.Get("/ai-solutions", h.AiSolutions)
	r.Get("/portfolio", h.Portfolio)
	r.Get("/pricing", h.Pricing)
	r.Get("/careers", h.Careers)
	r.Get("/contact", h.Contact)
	r.Post("/contact", h.SubmitContact)
	r.Get("/blog", h.BlogIndex)
	r.Get("/blog/{slug}", h.BlogPost)
	r.Get("/legal/{slug}", h.Legal)
	r.Get("/sitemap", h.SitemapPage)
	r.Get("/sitemap.xml", h.SitemapXML)

	r.NotFound(h.NotFound)
	return r
}

func cacheStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

// Mount hands every path echo has no route for to the site router. The
// client address echo resolved travels with the request.
func Mount(e *echo.Echo, router http.Handler) {
	e.Any("/*", func(c echo.Context) error {
		r := c.Request()
		router.ServeHTTP(c.Response(), r.WithContext(withClientIP(r.Context(), c.RealIP())))
		return nil
	})
}
