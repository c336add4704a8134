package components

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/content"
)

func convertIconName(iconClass string) string {
	parts := strings.Fields(iconClass)
	if len(parts) == 0 {
		return ""
	}
	return strings.Replace(parts[0], "--", ":", 1)
}

// Icon renders an iconify icon. Names use the "set--name" form.
func Icon(iconClass, ariaLabel string) g.Node {
	name := convertIconName(iconClass)
	if name == "" {
		return nil
	}
	if !strings.Contains(name, ":") {
		name = "lucide:" + name
	}
	if ariaLabel != "" {
		return Span(
			Class("iconify icon"),
			g.Attr("data-icon", name),
			g.Attr("role", "img"),
			g.Attr("aria-label", ariaLabel),
		)
	}
	return Span(Class("iconify icon"), g.Attr("data-icon", name), g.Attr("aria-hidden", "true"))
}

// PageHero is the banner at the top of a page.
func PageHero(h content.Hero, extra ...g.Node) g.Node {
	return Div(
		Class("hero"),
		g.If(h.Image != "", g.Attr("style", fmt.Sprintf("background-image:url('%s')", h.Image))),
		Div(
			Class("container"),
			H1(g.Text(h.Title)),
			g.If(h.Subtitle != "", P(Class("lead"), g.Text(h.Subtitle))),
			g.Group(extra),
		),
	)
}

// Block is a titled page section.
func Block(id, title, subtitle string, children ...g.Node) g.Node {
	return Section(
		g.If(id != "", ID(id)),
		Class("block"),
		Div(
			Class("container"),
			g.If(title != "", H2(g.Text(title))),
			g.If(subtitle != "", P(Class("muted"), g.Text(subtitle))),
			g.Group(children),
		),
	)
}

// FeatureCards renders icon cards in a grid.
func FeatureCards(features []content.Feature) g.Node {
	return Div(
		Class("grid"),
		g.Map(features, func(f content.Feature) g.Node {
			return Div(
				Class("card"),
				Icon(f.Icon, ""),
				H3(g.Text(f.Title)),
				P(g.Text(f.Description)),
			)
		}),
	)
}

// FAQs renders an accordion of questions using <details>.
func FAQs(faqs []content.FAQ) g.Node {
	if len(faqs) == 0 {
		return nil
	}
	return Div(
		Class("faqs"),
		g.Map(faqs, func(f content.FAQ) g.Node {
			return Details(
				Class("faq"),
				Summary(g.Text(f.Question)),
				P(g.Text(f.Answer)),
			)
		}),
	)
}

// ButtonLink renders a link styled as a button. Empty links render nothing.
func ButtonLink(l content.Link, primary bool) g.Node {
	if l.Href == "" || l.Label == "" {
		return nil
	}
	class := "btn btn-ghost"
	if primary {
		class = "btn btn-primary"
	}
	return A(Class(class), Href(l.Href), g.Text(l.Label))
}

// Flash is a status message banner; kind is "success" or "error".
func Flash(kind, message string) g.Node {
	if message == "" {
		return nil
	}
	return Div(Class("flash flash-"+kind), g.Attr("role", "status"), g.Text(message))
}

// BulletList renders a plain bullet list.
func BulletList(items []string) g.Node {
	if len(items) == 0 {
		return nil
	}
	return Ul(Class("checklist"), g.Map(items, func(s string) g.Node { return Li(g.Text(s)) }))
}
