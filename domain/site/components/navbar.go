package components

import (
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// SiteNavbar renders the navbar links of the global layout. Entries with
// children become a disclosure menu.
func SiteNavbar(layout content.GlobalLayoutConfig, path string) g.Node {
	nav := layout.Navbar
	return Header(
		Class("navbar"),
		Div(
			Class("container navbar-inner"),
			A(Class("brand"), Href("/"), Logo(nav.Logo)),

			Input(ID("nav-toggle"), Type("checkbox"), Class("nav-toggle")),
			Label(g.Attr("for", "nav-toggle"), Class("nav-burger"), g.Attr("aria-label", "Menu"), Icon("lucide--menu", "")),

			Nav(
				Class("nav-links"),
				Ul(
					g.Map(nav.Links, func(l content.NavLink) g.Node {
						return navItem(l, path)
					}),
				),
				g.If(nav.CTA.Href != "", A(Class("btn btn-primary"), Href(nav.CTA.Href), g.Text(nav.CTA.Label))),
			),
		),
	)
}

func navItem(l content.NavLink, path string) g.Node {
	if len(l.Children) == 0 {
		return Li(A(Href(l.Href), g.If(isActive(l.Href, path), Class("active")), g.Text(l.Label)))
	}
	return Li(
		Details(
			Class("nav-dropdown"),
			Summary(g.Text(l.Label)),
			Ul(
				g.Map(l.Children, func(c content.Link) g.Node {
					return Li(A(Href(c.Href), g.If(isActive(c.Href, path), Class("active")), g.Text(c.Label)))
				}),
			),
		),
	)
}

func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return href != "" && strings.HasPrefix(path, href)
}

// Logo shows the configured logo image, or the wordmark when none is set.
func Logo(src string) g.Node {
	if src != "" && (strings.HasPrefix(src, "/") || strings.HasPrefix(src, "http")) {
		return Img(Src(src), Alt("tech.safi"), Class("logo"))
	}
	return Span(Class("wordmark"), g.Text("tech"), Span(Class("accent"), g.Text(".safi")))
}
