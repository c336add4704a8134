package components

import (
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// SiteFooter renders the footer columns, socials and copyright line.
func SiteFooter(layout content.GlobalLayoutConfig) g.Node {
	f := layout.Footer
	return Footer(
		Class("footer"),
		Div(
			Class("container footer-grid"),
			Div(
				Class("footer-brand"),
				Logo(layout.Navbar.Logo),
				g.If(f.Tagline != "", P(Class("muted"), g.Text(f.Tagline))),
				Div(
					Class("socials"),
					g.Map(f.Socials, func(s content.SocialLink) g.Node {
						return A(
							Class("btn-circle"),
							Href(s.URL),
							Target("_blank"),
							Rel("noopener"),
							Icon("simple-icons--"+strings.ToLower(s.Platform), s.Platform),
						)
					}),
				),
			),
			g.Map(f.Columns, func(col content.FooterColumn) g.Node {
				return Div(
					Class("footer-column"),
					P(Class("footer-title"), g.Text(col.Title)),
					Ul(g.Map(col.Links, func(l content.Link) g.Node {
						return Li(A(Href(l.Href), g.Text(l.Label)))
					})),
				)
			}),
		),
		Div(Class("container footer-bottom"), P(g.Text(f.Copyright))),
	)
}
