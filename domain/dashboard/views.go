package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/site"
	"github.com/mastermind-creat/techsafi/domain/site/components"
	"github.com/mastermind-creat/techsafi/internal/docstore"
)

// BasePath is where the Control Centre is mounted.
const BasePath = "/control-centre"

type navEntry struct {
	Path  string
	Label string
	Icon  string
}

var sidebar = []navEntry{
	{"", "Overview", "lucide--layout-dashboard"},
	{"/analytics", "Analytics", "lucide--bar-chart-3"},
	{"/pages", "Pages", "lucide--file-text"},
	{"/leads", "Leads", "lucide--inbox"},
	{"/pricing", "Pricing", "lucide--tag"},
	{"/media", "Media", "lucide--image"},
	{"/settings", "Settings", "lucide--settings"},
}

type flash struct {
	Saved bool
	Error string
}

func shell(title, path string, f flash, children ...g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				Meta(Name("robots"), Content("noindex")),
				TitleEl(g.Text(title+" | Control Centre")),
				Link(Rel("icon"), Href("/static/favicon.svg"), Type("image/svg+xml")),
				Link(Rel("stylesheet"), Href("/static/css/site.css")),
				Script(Src("https://code.iconify.design/1/1.0.7/iconify.min.js"), Defer()),
			),
			Body(
				Class("cc"),
				Aside(
					Class("cc-sidebar"),
					A(Class("brand"), Href(BasePath), g.Text("Control Centre")),
					Ul(g.Map(sidebar, func(n navEntry) g.Node {
						href := BasePath + n.Path
						active := path == href || (n.Path != "" && strings.HasPrefix(path, href+"/"))
						return Li(A(Href(href), g.If(active, Class("active")), components.Icon(n.Icon, ""), g.Text(" "+n.Label)))
					})),
					Form(Method("post"), Action(BasePath+"/logout"),
						Button(Type("submit"), Class("btn btn-ghost"), g.Text("Log out")),
					),
					A(Class("muted"), Href("/"), Target("_blank"), g.Text("View site")),
				),
				Main(
					Class("cc-main"),
					H1(g.Text(title)),
					g.If(f.Saved, components.Flash("success", "Saved.")),
					components.Flash("error", f.Error),
					g.Group(children),
				),
			),
		),
	})
}

func loginPage(next, errMsg string) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("robots"), Content("noindex")),
				TitleEl(g.Text("Log in | Control Centre")),
				Link(Rel("stylesheet"), Href("/static/css/site.css")),
			),
			Body(
				Class("cc cc-login"),
				Form(
					Class("card contact-form"), Method("post"), Action(BasePath+"/login"),
					H1(g.Text("Control Centre")),
					components.Flash("error", errMsg),
					Input(Type("hidden"), Name("next"), Value(next)),
					Div(Class("field"),
						Label(g.Attr("for", "password"), g.Text("Password")),
						Input(ID("password"), Name("password"), Type("password"), Required(), AutoFocus()),
					),
					Button(Type("submit"), Class("btn btn-primary"), g.Text("Log in")),
				),
			),
		),
	})
}

type overviewData struct {
	Stored      int
	Total       int
	Leads       contact.Stats
	RecentSaves []content.DomainInfo
	Email       *email.WorkerMetrics
}

func overviewBody(d overviewData) []g.Node {
	return []g.Node{
		Div(Class("grid stats"),
			statCard("Documents edited", fmt.Sprintf("%d / %d", d.Stored, d.Total)),
			statCard("New leads", strconv.Itoa(d.Leads.ByStatus[content.StatusNew])),
			statCard("All leads", strconv.Itoa(d.Leads.Total)),
			g.Iff(d.Email != nil, func() g.Node { return statCard("Emails sent", emailSummary(d.Email)) }),
		),
		H2(g.Text("Recent saves")),
		g.If(len(d.RecentSaves) == 0, P(Class("muted"), g.Text("Nothing has been edited yet. Every page shows its defaults."))),
		g.If(len(d.RecentSaves) > 0, Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("Page")), Th(g.Text("Revision")), Th(g.Text("Saved")), Th(g.Text("By")))),
			TBody(g.Map(d.RecentSaves, func(i content.DomainInfo) g.Node {
				return Tr(
					Td(A(Href(BasePath+"/pages/"+i.Name), g.Text(i.Name))),
					Td(g.Textf("%d", i.Revision)),
					Td(g.Text(formatTime(i.UpdatedAt))),
					Td(g.Text(i.UpdatedBy)),
				)
			})),
		)),
	}
}

func emailSummary(m *email.WorkerMetrics) string {
	s := strconv.FormatInt(m.Sent, 10)
	if m.Failed > 0 || m.Dropped > 0 {
		s += fmt.Sprintf(" (%d failed, %d dropped)", m.Failed, m.Dropped)
	}
	return s
}

func statCard(label, value string) g.Node {
	return Div(Class("card stat"), P(Class("muted"), g.Text(label)), P(Class("stat-value"), g.Text(value)))
}

func analyticsBody(rows []site.RouteViews) []g.Node {
	var total float64
	for _, r := range rows {
		total += r.Views
	}
	return []g.Node{
		P(Class("muted"), g.Textf("%.0f page views since the server started.", total)),
		g.If(len(rows) > 0, Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("Route")), Th(g.Text("Views")), Th(g.Text("Share")))),
			TBody(g.Map(rows, func(r site.RouteViews) g.Node {
				return Tr(
					Td(A(Href(r.Route), Target("_blank"), g.Text(r.Route))),
					Td(g.Textf("%.0f", r.Views)),
					Td(g.Textf("%.0f%%", 100*r.Views/total)),
				)
			})),
		)),
	}
}

func pagesBody(infos []content.DomainInfo) []g.Node {
	return []g.Node{
		Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("Domain")), Th(g.Text("Description")), Th(g.Text("Status")), Th(g.Text("Saved")))),
			TBody(g.Map(infos, func(i content.DomainInfo) g.Node {
				status := "default"
				if i.Stored {
					status = fmt.Sprintf("revision %d", i.Revision)
				}
				return Tr(
					Td(A(Href(BasePath+"/pages/"+i.Name), g.Text(i.Name))),
					Td(g.Text(i.Description)),
					Td(Span(Class("badge"), g.Text(status))),
					Td(g.Text(formatTime(i.UpdatedAt))),
				)
			})),
		),
	}
}

func editorBody(doc *content.Document, pretty string, history []docstore.Meta) []g.Node {
	base := BasePath + "/pages/" + doc.Domain
	return []g.Node{
		P(Class("muted"),
			g.If(doc.Default, g.Text("Showing the default content. Saving creates the first revision.")),
			g.If(!doc.Default, g.Textf("Revision %d, saved %s by %s.", doc.Revision, formatTime(doc.UpdatedAt), doc.UpdatedBy)),
		),
		Form(
			Class("cc-editor"), Method("post"), Action(base),
			Textarea(Name("data"), Rows("28"), g.Attr("spellcheck", "false"), g.Text(pretty)),
			Div(Class("actions"),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Save")),
			),
		),
		Form(
			Method("post"), Action(base+"/reset"), confirm("Reset "+doc.Domain+" to its default content?"),
			Button(Type("submit"), Class("btn btn-ghost"), g.Text("Reset to default")),
		),
		H2(g.Text("History")),
		g.If(len(history) == 0, P(Class("muted"), g.Text("No earlier revisions."))),
		g.If(len(history) > 0, Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("Revision")), Th(g.Text("Saved")), Th(g.Text("By")), Th(g.Text("Size")), Th())),
			TBody(g.Map(history, func(m docstore.Meta) g.Node {
				return Tr(
					Td(g.Textf("%d", m.Revision)),
					Td(g.Text(formatTime(&m.UpdatedAt))),
					Td(g.Text(m.UpdatedBy)),
					Td(g.Textf("%d B", m.Size)),
					Td(Form(
						Method("post"), Action(fmt.Sprintf("%s/revisions/%d/restore", base, m.Revision)),
						confirm(fmt.Sprintf("Restore revision %d?", m.Revision)),
						Button(Type("submit"), Class("btn btn-ghost"), g.Text("Restore")),
					)),
				)
			})),
		)),
	}
}

func leadsBody(leads []content.ContactSubmission, f contact.Filter) []g.Node {
	return []g.Node{
		Form(
			Class("cc-filter"), Method("get"), Action(BasePath+"/leads"),
			Input(Type("search"), Name("q"), Placeholder("Search name, email, company, message"), Value(f.Query)),
			enumSelect("status", "Any status", contact.Statuses, f.Status),
			enumSelect("priority", "Any priority", contact.Priorities, f.Priority),
			Button(Type("submit"), Class("btn btn-ghost"), g.Text("Filter")),
		),
		P(Class("muted"), g.Textf("%d leads", len(leads))),
		Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("Received")), Th(g.Text("Contact")), Th(g.Text("Service")), Th(g.Text("Message")), Th(g.Text("Triage")), Th())),
			TBody(g.Map(leads, func(l content.ContactSubmission) g.Node {
				return Tr(
					Td(g.Text(formatTime(&l.CreatedAt))),
					Td(
						Strong(g.Text(l.Name)), Br(),
						A(Href("mailto:"+l.Email), g.Text(l.Email)),
						g.If(l.Phone != "", g.Group{Br(), g.Text(l.Phone)}),
						g.If(l.Company != "", g.Group{Br(), Span(Class("muted"), g.Text(l.Company))}),
					),
					Td(g.Text(l.Service), g.If(l.Budget != "", g.Group{Br(), Span(Class("muted"), g.Text(l.Budget))})),
					Td(Class("cc-message"), g.Text(l.Message)),
					Td(Form(
						Method("post"), Action(BasePath+"/leads/"+l.ID),
						enumSelect("status", "", contact.Statuses, l.Status),
						enumSelect("priority", "", contact.Priorities, l.Priority),
						Button(Type("submit"), Class("btn btn-ghost"), g.Text("Update")),
					)),
					Td(Form(
						Method("post"), Action(BasePath+"/leads/"+l.ID+"/delete"),
						confirm("Delete the lead from "+l.Name+"?"),
						Button(Type("submit"), Class("btn btn-ghost"), g.Text("Delete")),
					)),
				)
			})),
		),
	}
}

func enumSelect(name, anyLabel string, values []string, selected string) g.Node {
	return Select(
		Name(name),
		g.If(anyLabel != "", Option(Value(""), g.Text(anyLabel))),
		g.Map(values, func(v string) g.Node {
			return Option(Value(v), g.If(v == selected, Selected()), g.Text(v))
		}),
	)
}

func pricingBody(plans []content.PricingPlan) []g.Node {
	return []g.Node{
		P(Class("muted"), g.Text("Plans show on the pricing page in this order. Edit the full list under "),
			A(Href(BasePath+"/pages/"+content.DomainPricing), g.Text("Pages")), g.Text(".")),
		Table(
			Class("cc-table"),
			THead(Tr(Th(g.Text("#")), Th(g.Text("Plan")), Th(g.Text("Category")), Th(g.Text("Price")), Th(), Th())),
			TBody(g.Map(plans, func(p content.PricingPlan) g.Node {
				base := BasePath + "/pricing/" + p.ID
				return Tr(
					Td(g.Textf("%d", p.DisplayOrder)),
					Td(g.Text(p.Name), g.If(p.Highlighted, Span(Class("badge"), g.Text("highlighted")))),
					Td(g.Text(p.Category)),
					Td(g.Text(p.Price)),
					Td(
						Form(Method("post"), Action(base+"/move/up"), Class("inline"),
							Button(Type("submit"), Class("btn-circle"), g.Attr("aria-label", "Move up"), g.Text("↑"))),
						Form(Method("post"), Action(base+"/move/down"), Class("inline"),
							Button(Type("submit"), Class("btn-circle"), g.Attr("aria-label", "Move down"), g.Text("↓"))),
					),
					Td(Form(
						Method("post"), Action(base+"/delete"),
						confirm("Delete the "+p.Name+" plan?"),
						Button(Type("submit"), Class("btn btn-ghost"), g.Text("Delete")),
					)),
				)
			})),
		),
	}
}

func placeholderBody(path string) []g.Node {
	return []g.Node{
		Div(Class("card cc-placeholder"),
			components.Icon("lucide--construction", ""),
			H2(g.Text("Under construction")),
			P(Class("muted"), g.Textf("%s is not available yet.", path)),
			A(Class("btn btn-primary"), Href(BasePath), g.Text("Back to overview")),
		),
	}
}

func confirm(msg string) g.Node {
	return g.Attr("onsubmit", "return confirm("+strconv.Quote(msg)+")")
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format("2 Jan 2006 15:04")
}
