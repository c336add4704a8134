package components

import (
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// PageConfig describes one rendered page.
type PageConfig struct {
	Title       string
	Description string
	SiteName    string
	// Path is the request path, used to mark the active navbar entry.
	Path string
	// Domains are the content domains the page shows. The live-reload
	// script reloads the page when one of them is saved.
	Domains    []string
	LiveReload bool
}

// Page wraps content in the document shell with the configured navbar and footer.
func Page(cfg PageConfig, layout content.GlobalLayoutConfig, children ...g.Node) g.Node {
	if cfg.SiteName == "" {
		cfg.SiteName = "tech.safi"
	}
	title := cfg.SiteName
	if cfg.Title != "" {
		title = cfg.Title + " | " + cfg.SiteName
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				g.If(cfg.Description != "", Meta(Name("description"), Content(cfg.Description))),
				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Link(Rel("icon"), Href("/static/favicon.svg"), Type("image/svg+xml")),
				Link(Rel("stylesheet"), Href("/static/css/site.css")),
				Script(Src("https://code.iconify.design/1/1.0.7/iconify.min.js"), Defer()),
			),
			Body(
				g.If(cfg.LiveReload && len(cfg.Domains) > 0,
					g.Attr("data-domains", strings.Join(append([]string{content.DomainLayout}, cfg.Domains...), " ")),
				),
				SiteNavbar(layout, cfg.Path),
				Main(Class("page"), g.Group(children)),
				SiteFooter(layout),
				g.If(cfg.LiveReload, Script(Src("/static/js/live.js"), Defer())),
			),
		),
	})
}
