package site

import (
	"fmt"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mastermind-creat/techsafi/domain/blog"
	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/portfolio"
	"github.com/mastermind-creat/techsafi/domain/site/components"
)

func homeBody(c content.HomePageConfig, est *Estimate) []g.Node {
	return []g.Node{
		Div(
			Class("hero hero-home"),
			Div(
				Class("container"),
				H1(g.Text(c.Hero.Title)),
				g.If(len(c.Hero.TypewriterWords) > 0,
					P(Class("typewriter"), g.Attr("data-words", strings.Join(c.Hero.TypewriterWords, "|")),
						g.Text("We build "), Span(Class("accent"), g.Text(firstOr(c.Hero.TypewriterWords, ""))),
					),
				),
				P(Class("lead"), g.Text(c.Hero.Subtitle)),
				Div(Class("actions"),
					components.ButtonLink(c.Hero.PrimaryCTA, true),
					components.ButtonLink(c.Hero.SecondaryCTA, false),
				),
			),
		),
		g.If(len(c.Partners) > 0, Div(
			Class("partners container"),
			g.Map(c.Partners, func(p content.Partner) g.Node {
				return Img(Src(p.Logo), Alt(p.Name), Title(p.Name), Class("partner-logo"))
			}),
		)),
		components.Block("what-we-do", "What we do", "",
			Div(Class("bento"), g.Map(c.BentoCards, func(b content.BentoCard) g.Node {
				return Div(
					Class("card bento-"+bentoSize(b.Size)),
					components.Icon(b.Icon, ""),
					H3(g.Text(b.Title)),
					P(g.Text(b.Description)),
				)
			})),
		),
		components.Block("testimonials", "What clients say", "",
			Div(Class("grid"), g.Map(c.Testimonials, func(t content.Testimonial) g.Node {
				return Figure(
					Class("card testimonial"),
					BlockQuote(g.Text(t.Quote)),
					FigCaption(
						Strong(g.Text(t.Name)),
						g.Textf(", %s at %s", t.Role, t.Company),
						g.If(t.Rating > 0, Span(Class("rating"), g.Attr("aria-label", fmt.Sprintf("%d out of 5", t.Rating)), g.Text(strings.Repeat("★", min(t.Rating, 5))))),
					),
				)
			})),
		),
		estimatorBlock(c, est),
	}
}

func estimatorBlock(c content.HomePageConfig, est *Estimate) g.Node {
	types := projectTypes(c)
	if len(types) == 0 {
		return nil
	}
	selected := ""
	if est != nil {
		selected = est.ProjectType
	}
	return components.Block("estimate", "Estimate your project", "Pick a project type and the add-ons you need.",
		Form(
			Class("estimator"), Method("get"), Action("/#estimate"),
			Label(g.Attr("for", "type"), g.Text("Project type")),
			Select(
				ID("type"), Name("type"),
				g.Map(types, func(t string) g.Node {
					return Option(Value(t), g.If(t == selected, Selected()), g.Text(blog.TitleFromSlug(t)+" from "+formatMoney(c.Estimator.Currency, c.Estimator.BasePrices[t])))
				}),
			),
			FieldSet(
				Legend(g.Text("Add-ons")),
				g.Map(c.Estimator.Features, func(f content.EstimatorFeature) g.Node {
					checked := est != nil && containsString(est.Features, f.ID)
					return Label(
						Class("check"),
						Input(Type("checkbox"), Name("feature"), Value(f.ID), g.If(checked, Checked())),
						g.Textf(" %s (+%s)", f.Label, formatMoney(c.Estimator.Currency, f.Price)),
					)
				}),
			),
			Button(Type("submit"), Class("btn btn-primary"), g.Text("Estimate")),
			g.Iff(est != nil, func() g.Node {
				return P(Class("estimate-total"), g.Text("Estimated cost: "), Strong(g.Text(formatMoney(est.Currency, est.Total))))
			}),
		),
	)
}

func bentoSize(s string) string {
	switch s {
	case "wide", "tall":
		return s
	}
	return "small"
}

func servicesBody(c content.ServicesConfig) []g.Node {
	return []g.Node{
		components.PageHero(c.Hero),
		g.Map(c.Categories, func(cat content.ServiceCategory) g.Node {
			var items []content.ServiceItem
			for _, s := range c.Services {
				if s.CategoryID == cat.ID {
					items = append(items, s)
				}
			}
			if len(items) == 0 {
				return nil
			}
			return components.Block(cat.ID, cat.Name, "", serviceCards(items))
		}),
		uncategorized(c),
		components.Block("methodology", "How we work", "",
			Ol(Class("steps"), g.Map(c.Methodology, func(m content.MethodologyStep) g.Node {
				return Li(Span(Class("step"), g.Textf("%02d", m.Step)), H3(g.Text(m.Title)), P(g.Text(m.Description)))
			})),
		),
		components.Block("stack", "Technology", "",
			Ul(Class("chips"), g.Map(c.TechStack, func(t content.TechItem) g.Node {
				return Li(Title(t.Category), g.Text(t.Name))
			})),
		),
	}
}

// uncategorized shows services whose categoryId matches no category.
func uncategorized(c content.ServicesConfig) g.Node {
	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		known[cat.ID] = true
	}
	var items []content.ServiceItem
	for _, s := range c.Services {
		if !known[s.CategoryID] {
			items = append(items, s)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return components.Block("more", "More services", "", serviceCards(items))
}

func serviceCards(items []content.ServiceItem) g.Node {
	return Div(Class("grid"), g.Map(items, func(s content.ServiceItem) g.Node {
		return Div(
			Class("card"),
			components.Icon(s.Icon, ""),
			H3(g.Text(s.Title)),
			P(g.Text(s.Description)),
			components.BulletList(s.Highlights),
		)
	}))
}

func pricingBody(plans []content.PricingPlan, category string) []g.Node {
	tabs := append([]string{""}, content.PricingCategories...)
	return []g.Node{
		components.PageHero(content.Hero{Title: "Pricing", Subtitle: "Transparent packages. Every project starts with a free consultation."}),
		components.Block("plans", "", "",
			Nav(Class("tabs"), g.Map(tabs, func(t string) g.Node {
				href, label := "/pricing", "All"
				if t != "" {
					href, label = "/pricing?category="+url.QueryEscape(t), t
				}
				return A(Href(href), g.If(t == category, Class("active")), g.Text(label))
			})),
			g.If(len(plans) == 0, P(Class("muted"), g.Text("No plans in this category yet."))),
			Div(Class("grid plans"), g.Map(plans, func(p content.PricingPlan) g.Node {
				class := "card plan"
				if p.Highlighted {
					class += " highlighted"
				}
				return Div(
					Class(class),
					Span(Class("badge"), g.Text(p.Category)),
					H3(g.Text(p.Name)),
					P(Class("price"), g.Text(p.Price), g.If(p.Period != "", Span(Class("muted"), g.Text(" / "+p.Period)))),
					P(g.Text(p.Description)),
					components.BulletList(p.Features),
					A(Class("btn btn-primary"), Href("/contact?service="+url.QueryEscape(p.Name)), g.Text("Get started")),
				)
			})),
		),
	}
}

func portfolioBody(all []content.ProjectItem, category string) []g.Node {
	shown := portfolio.ByCategory(all, category)
	cats := portfolio.Categories(all)
	return []g.Node{
		components.PageHero(content.Hero{Title: "Our Work", Subtitle: "Selected projects and the results they delivered."}),
		components.Block("projects", "", "",
			g.If(len(cats) > 1, Nav(Class("tabs"),
				A(Href("/portfolio"), g.If(category == "", Class("active")), g.Text("All")),
				g.Map(cats, func(c string) g.Node {
					return A(Href("/portfolio?category="+url.QueryEscape(c)), g.If(strings.EqualFold(c, category), Class("active")), g.Text(c))
				}),
			)),
			Div(Class("grid"), g.Map(shown, func(p content.ProjectItem) g.Node {
				return Article(
					Class("card project"),
					g.If(p.Image != "", Img(Src(p.Image), Alt(p.Title), g.Attr("loading", "lazy"))),
					Span(Class("badge"), g.Text(p.Category)),
					H3(g.Text(p.Title)),
					P(Class("muted"), g.Text(p.Client)),
					P(g.Text(p.Summary)),
					Dl(Class("stats"),
						Dt(g.Text("Duration")), Dd(g.Text(p.Stats.Duration)),
						Dt(g.Text("Team")), Dd(g.Text(p.Stats.TeamSize)),
						Dt(g.Text("Impact")), Dd(g.Text(p.Stats.Impact)),
					),
					Ul(Class("chips"), g.Map(p.Tags, func(t string) g.Node { return Li(g.Text(t)) })),
					g.If(p.Link != "", A(Href(p.Link), Target("_blank"), Rel("noopener"), g.Text("View project"))),
				)
			})),
		),
	}
}

func companyBody(c content.AboutUsConfig) []g.Node {
	tiers := []struct{ tier, title string }{
		{content.TierFounder, "Founders"},
		{content.TierLeadership, "Leadership"},
		{content.TierAdvisor, "Advisors"},
	}
	return []g.Node{
		components.PageHero(c.Hero),
		components.Block("story", c.Story.Title, "",
			Div(Class("story"),
				Div(g.Map(c.Story.Paragraphs, func(p string) g.Node { return P(g.Text(p)) })),
				g.If(c.Story.Image != "", Img(Src(c.Story.Image), Alt(c.Story.Title))),
			),
		),
		components.Block("values", "What we value", "", components.FeatureCards(c.Values)),
		g.Map(tiers, func(t struct{ tier, title string }) g.Node {
			var people []content.Visionary
			for _, v := range c.Visionaries {
				if v.Tier == t.tier {
					people = append(people, v)
				}
			}
			if len(people) == 0 {
				return nil
			}
			return components.Block("team-"+t.tier, t.title, "", Div(Class("grid team"), g.Map(people, visionaryCard)))
		}),
		components.Block("milestones", "Milestones", "",
			Ol(Class("timeline"), g.Map(c.Milestones, func(m content.Milestone) g.Node {
				return Li(Span(Class("year"), g.Text(m.Year)), H3(g.Text(m.Title)), P(g.Text(m.Description)))
			})),
		),
	}
}

func visionaryCard(v content.Visionary) g.Node {
	return Div(
		Class("card person"),
		g.If(v.Image != "", Img(Src(v.Image), Alt(v.Name), g.Attr("loading", "lazy"))),
		H3(g.Text(v.Name)),
		P(Class("muted"), g.Text(v.Role)),
		P(g.Text(v.Bio)),
		g.If(v.LinkedIn != "", A(Href(v.LinkedIn), Target("_blank"), Rel("noopener"), components.Icon("simple-icons--linkedin", "LinkedIn"))),
	)
}

func careersBody(c content.CareersConfig) []g.Node {
	var open []content.Job
	for _, j := range c.Jobs {
		if j.IsOpen {
			open = append(open, j)
		}
	}
	return []g.Node{
		g.If(c.Notice.IsActive, Div(
			Class("notice"), g.Attr("role", "alert"),
			Div(Class("container"), Strong(g.Text(c.Notice.Title)), g.Text(" "), Span(g.Text(c.Notice.Message))),
		)),
		components.PageHero(c.Hero),
		components.Block("culture", "Life at tech.safi", "", components.FeatureCards(c.Culture)),
		components.Block("jobs", "Open positions", "",
			g.If(len(open) == 0, P(Class("muted"), g.Text("No open positions right now. Check back soon."))),
			g.Map(open, func(j content.Job) g.Node {
				return Details(
					Class("card job"),
					Summary(H3(g.Text(j.Title)), Span(Class("muted"), g.Textf("%s · %s · %s", j.Department, j.Location, j.Type))),
					P(g.Text(j.Description)),
					g.If(len(j.Responsibilities) > 0, g.Group{H4(g.Text("Responsibilities")), components.BulletList(j.Responsibilities)}),
					g.If(len(j.Requirements) > 0, g.Group{H4(g.Text("Requirements")), components.BulletList(j.Requirements)}),
					A(Class("btn btn-primary"), Href("/contact?service="+url.QueryEscape("Careers: "+j.Title)), g.Text("Apply")),
				)
			}),
		),
		components.Block("programs", "Student programs", "",
			Div(Class("grid"), programCard(c.Internship), programCard(c.Attachment)),
		),
		components.Block("apply", "How to apply", "",
			Ol(Class("steps"), g.Map(c.ApplicationSteps, func(s content.ApplicationStep) g.Node {
				return Li(Span(Class("step"), g.Textf("%02d", s.Step)), H3(g.Text(s.Title)), P(g.Text(s.Description)))
			})),
		),
		components.Block("faq", "Questions", "", components.FAQs(c.FAQs)),
	}
}

func programCard(p content.Program) g.Node {
	if p.Title == "" {
		return nil
	}
	status := "Applications closed"
	if p.IsOpen {
		status = "Applications open"
	}
	return Div(
		Class("card"),
		H3(g.Text(p.Title)),
		Span(Class("badge"), g.Text(status)),
		P(g.Text(p.Description)),
		g.If(p.Duration != "", P(Class("muted"), g.Text("Duration: "+p.Duration))),
		components.BulletList(p.Perks),
	)
}

func aiSolutionsBody(c content.AiSolutionsConfig) []g.Node {
	return []g.Node{
		components.PageHero(c.Hero),
		components.Block("capabilities", "Capabilities", "", components.FeatureCards(c.Features)),
		components.Block("use-cases", "Use cases", "",
			Div(Class("grid"), g.Map(c.UseCases, func(u content.UseCase) g.Node {
				return Div(Class("card"), Span(Class("badge"), g.Text(u.Industry)), H3(g.Text(u.Title)), P(g.Text(u.Description)))
			})),
		),
		components.Block("faq", "Questions", "", components.FAQs(c.FAQs)),
	}
}

// contactForm carries what the visitor typed back into the form after an error.
type contactForm struct {
	Values  contact.SubmitRequest
	Sent    bool
	Error   string
	Service string
}

func contactBody(c content.ContactPageConfig, f contactForm) []g.Node {
	selectedService := f.Values.Service
	if selectedService == "" {
		selectedService = f.Service
	}
	return []g.Node{
		components.PageHero(c.Hero),
		components.Block("channels", "", "",
			Div(Class("grid"), g.Map(c.Cards, func(card content.ContactCard) g.Node {
				value := g.Node(g.Text(card.Value))
				if card.Href != "" {
					value = A(Href(card.Href), g.Text(card.Value))
				}
				return Div(Class("card"), components.Icon(card.Icon, ""), H3(g.Text(card.Title)), P(value))
			})),
			g.If(c.WhatsApp.Enabled && c.WhatsApp.Number != "",
				A(Class("btn btn-whatsapp"), Href(whatsAppURL(c.WhatsApp.Number, c.WhatsApp.Message)), Target("_blank"), Rel("noopener"),
					components.Icon("simple-icons--whatsapp", ""), g.Text(" Chat on WhatsApp")),
			),
		),
		components.Block("enquiry", "Tell us about your project", "",
			g.If(f.Sent, components.Flash("success", "Thanks! We received your message and will get back to you within one business day.")),
			components.Flash("error", f.Error),
			Form(
				Class("contact-form"), Method("post"), Action("/contact"),
				field("name", "Name", Input(ID("name"), Name("name"), Required(), Value(f.Values.Name))),
				field("email", "Email", Input(ID("email"), Name("email"), Type("email"), Required(), Value(f.Values.Email))),
				field("phone", "Phone", Input(ID("phone"), Name("phone"), Type("tel"), Value(f.Values.Phone))),
				field("company", "Company", Input(ID("company"), Name("company"), Value(f.Values.Company))),
				field("service", "Service", Select(ID("service"), Name("service"),
					Option(Value(""), g.Text("Choose a service")),
					g.If(selectedService != "" && !containsString(c.Form.Services, selectedService),
						Option(Value(selectedService), Selected(), g.Text(selectedService))),
					g.Map(c.Form.Services, func(s string) g.Node {
						return Option(Value(s), g.If(s == selectedService, Selected()), g.Text(s))
					}),
				)),
				field("budget", "Budget", Select(ID("budget"), Name("budget"),
					Option(Value(""), g.Text("Choose a budget")),
					g.Map(c.Form.Budgets, func(b string) g.Node {
						return Option(Value(b), g.If(b == f.Values.Budget, Selected()), g.Text(b))
					}),
				)),
				field("message", "Message", Textarea(ID("message"), Name("message"), Rows("5"), Required(), g.Text(f.Values.Message))),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Send message")),
			),
		),
		components.Block("faq", "Questions", "", components.FAQs(c.FAQs)),
	}
}

func field(id, label string, input g.Node) g.Node {
	return Div(Class("field"), Label(g.Attr("for", id), g.Text(label)), input)
}

func whatsAppURL(number, msg string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	u := "https://wa.me/" + digits
	if msg != "" {
		u += "?text=" + url.QueryEscape(msg)
	}
	return u
}

func blogListBody(posts []content.BlogPost) []g.Node {
	return []g.Node{
		components.PageHero(content.Hero{Title: "Blog", Subtitle: "Notes on building and running software."}),
		components.Block("posts", "", "",
			g.If(len(posts) == 0, P(Class("muted"), g.Text("Nothing published yet."))),
			Div(Class("grid"), g.Map(posts, func(p content.BlogPost) g.Node {
				return Article(
					Class("card post"),
					g.If(p.Cover != "", Img(Src(p.Cover), Alt(""), g.Attr("loading", "lazy"))),
					H3(A(Href("/blog/"+p.Slug), g.Text(blog.DisplayTitle(p)))),
					P(Class("muted"), g.Text(postByline(p))),
					P(g.Text(p.Excerpt)),
				)
			})),
		),
	}
}

func postBody(v *blog.PostView) []g.Node {
	return []g.Node{
		Article(
			Class("container prose"),
			H1(g.Text(v.DisplayTitle)),
			P(Class("muted"), g.Text(postByline(v.BlogPost))),
			g.Raw(v.HTML),
			g.If(len(v.Tags) > 0, Ul(Class("chips"), g.Map(v.Tags, func(t string) g.Node { return Li(g.Text(t)) }))),
			P(A(Href("/blog"), g.Text("← All posts"))),
		),
	}
}

func postByline(p content.BlogPost) string {
	date := p.PublishedAt.Format("2 January 2006")
	if p.Author == "" {
		return date
	}
	return p.Author + " · " + date
}

func legalBody(v *blog.LegalView) []g.Node {
	return []g.Node{
		Article(
			Class("container prose"),
			H1(g.Text(v.Title)),
			P(Class("muted"), g.Text("Last updated "+v.UpdatedAt.Format("2 January 2006"))),
			g.Raw(v.HTML),
		),
	}
}

func sitemapBody(entries []SitemapEntry) []g.Node {
	return []g.Node{
		components.PageHero(content.Hero{Title: "Sitemap"}),
		components.Block("", "", "",
			Ul(Class("sitemap"), g.Map(entries, func(e SitemapEntry) g.Node {
				return Li(A(Href(e.Path), g.Text(e.Title)))
			})),
		),
	}
}

func notFoundBody() []g.Node {
	return []g.Node{
		components.PageHero(content.Hero{Title: "Page not found", Subtitle: "The page you are looking for does not exist or has moved."},
			Div(Class("actions"), A(Class("btn btn-primary"), Href("/"), g.Text("Back home")), A(Class("btn btn-ghost"), Href("/sitemap"), g.Text("Sitemap"))),
		),
	}
}

func rateLimitedBody() []g.Node {
	return []g.Node{
		components.PageHero(content.Hero{Title: "Slow down", Subtitle: "You have sent several messages in a short time. Please try again in a minute."}),
	}
}

func firstOr(list []string, def string) string {
	if len(list) == 0 {
		return def
	}
	return list[0]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
