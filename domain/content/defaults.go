package content

import "time"

// The default* constructors build a fresh value on every call, so callers may
// mutate what Fetch returns without touching the defaults.

func defaultLayout() GlobalLayoutConfig {
	var c GlobalLayoutConfig
	c.Navbar.Logo = "tech.safi"
	c.Navbar.Links = []NavLink{
		{ID: "nav-home", Label: "Home", Href: "/"},
		{ID: "nav-company", Label: "Company", Href: "/company"},
		{ID: "nav-services", Label: "Services", Href: "/services", Children: []Link{
			{Label: "All Services", Href: "/services"},
			{Label: "AI Solutions", Href: "/ai-solutions"},
			{Label: "Pricing", Href: "/pricing"},
		}},
		{ID: "nav-portfolio", Label: "Portfolio", Href: "/portfolio"},
		{ID: "nav-careers", Label: "Careers", Href: "/careers"},
		{ID: "nav-blog", Label: "Blog", Href: "/blog"},
	}
	c.Navbar.CTA = Link{Label: "Start a Project", Href: "/contact"}

	c.Footer.Tagline = "Clean software for ambitious African businesses."
	c.Footer.Columns = []FooterColumn{
		{ID: "footer-company", Title: "Company", Links: []Link{
			{Label: "About", Href: "/company"},
			{Label: "Careers", Href: "/careers"},
			{Label: "Blog", Href: "/blog"},
		}},
		{ID: "footer-services", Title: "Services", Links: []Link{
			{Label: "Web & Mobile", Href: "/services"},
			{Label: "AI Solutions", Href: "/ai-solutions"},
			{Label: "Pricing", Href: "/pricing"},
		}},
		{ID: "footer-legal", Title: "Legal", Links: []Link{
			{Label: "Privacy Policy", Href: "/legal/privacy"},
			{Label: "Terms of Service", Href: "/legal/terms"},
			{Label: "Cookie Policy", Href: "/legal/cookies"},
			{Label: "Sitemap", Href: "/sitemap"},
		}},
	}
	c.Footer.Socials = []SocialLink{
		{Platform: "linkedin", URL: "https://www.linkedin.com/company/techsafi"},
		{Platform: "x", URL: "https://x.com/techsafi"},
		{Platform: "github", URL: "https://github.com/techsafi"},
	}
	c.Footer.Copyright = "© tech.safi. All rights reserved."
	return c
}

func defaultHome() HomePageConfig {
	var c HomePageConfig
	c.Hero.Title = "We build software that works"
	c.Hero.Subtitle = "Product engineering, cloud and applied AI for teams that need to ship."
	c.Hero.TypewriterWords = []string{"web platforms", "mobile apps", "AI assistants", "cloud systems"}
	c.Hero.PrimaryCTA = Link{Label: "Start a Project", Href: "/contact"}
	c.Hero.SecondaryCTA = Link{Label: "See Our Work", Href: "/portfolio"}

	c.Partners = []Partner{
		{ID: "partner-1", Name: "Savanna Logistics", Logo: "/static/img/partners/savanna.svg"},
		{ID: "partner-2", Name: "Mpesa Pay Hub", Logo: "/static/img/partners/payhub.svg"},
		{ID: "partner-3", Name: "Kijani Energy", Logo: "/static/img/partners/kijani.svg"},
	}
	c.BentoCards = []BentoCard{
		{ID: "bento-1", Title: "Product Engineering", Description: "From discovery to launch, one accountable team.", Icon: "code", Size: "wide"},
		{ID: "bento-2", Title: "Applied AI", Description: "Assistants and automation grounded in your data.", Icon: "cpu", Size: "small"},
		{ID: "bento-3", Title: "Cloud & DevOps", Description: "Infrastructure that scales and stays observable.", Icon: "cloud", Size: "small"},
		{ID: "bento-4", Title: "Design Systems", Description: "Interfaces your users understand on first use.", Icon: "palette", Size: "tall"},
	}
	c.Testimonials = []Testimonial{
		{ID: "testimonial-1", Name: "Amina Odhiambo", Role: "COO", Company: "Savanna Logistics", Quote: "They shipped our dispatch platform in ten weeks and it has not gone down since.", Rating: 5},
		{ID: "testimonial-2", Name: "Brian Mwangi", Role: "Founder", Company: "Kijani Energy", Quote: "A partner that argues for the right thing, then builds it.", Rating: 5},
	}
	c.Estimator.Currency = "KES"
	c.Estimator.BasePrices = map[string]int{
		"website":    150000,
		"web-app":    450000,
		"mobile-app": 600000,
		"ai":         800000,
	}
	c.Estimator.Features = []EstimatorFeature{
		{ID: "feature-auth", Label: "User accounts", Price: 60000},
		{ID: "feature-payments", Label: "M-Pesa / card payments", Price: 90000},
		{ID: "feature-cms", Label: "Content management", Price: 70000},
		{ID: "feature-analytics", Label: "Analytics dashboard", Price: 80000},
	}
	return c
}

func defaultServices() ServicesConfig {
	return ServicesConfig{
		Hero: Hero{Title: "Services", Subtitle: "Everything it takes to take a product from idea to production."},
		Categories: []ServiceCategory{
			{ID: "cat-build", Name: "Build"},
			{ID: "cat-scale", Name: "Scale"},
			{ID: "cat-design", Name: "Design"},
		},
		Services: []ServiceItem{
			{ID: "svc-web", CategoryID: "cat-build", Title: "Web Development", Description: "Fast, accessible web platforms.", Icon: "globe", Highlights: []string{"Server-rendered pages", "Admin dashboards", "Payments"}},
			{ID: "svc-mobile", CategoryID: "cat-build", Title: "Mobile Apps", Description: "Native-feeling apps for Android and iOS.", Icon: "smartphone", Highlights: []string{"Offline first", "Push notifications"}},
			{ID: "svc-cloud", CategoryID: "cat-scale", Title: "Cloud & DevOps", Description: "Infrastructure as code and CI/CD.", Icon: "cloud", Highlights: []string{"Kubernetes", "Observability", "Cost reviews"}},
			{ID: "svc-design", CategoryID: "cat-design", Title: "UI/UX Design", Description: "Research-backed product design.", Icon: "palette", Highlights: []string{"Prototypes", "Design systems"}},
		},
		Methodology: []MethodologyStep{
			{ID: "step-1", Step: 1, Title: "Discover", Description: "Workshops to pin down the problem and the users."},
			{ID: "step-2", Step: 2, Title: "Design", Description: "Prototypes tested with real users."},
			{ID: "step-3", Step: 3, Title: "Build", Description: "Two-week iterations with a demo at the end of each."},
			{ID: "step-4", Step: 4, Title: "Run", Description: "Monitoring, support and continuous improvement."},
		},
		TechStack: []TechItem{
			{ID: "tech-go", Name: "Go", Category: "Backend"},
			{ID: "tech-postgres", Name: "PostgreSQL", Category: "Data"},
			{ID: "tech-react", Name: "React", Category: "Frontend"},
			{ID: "tech-flutter", Name: "Flutter", Category: "Mobile"},
			{ID: "tech-aws", Name: "AWS", Category: "Cloud"},
		},
	}
}

func defaultPricing() []PricingPlan {
	return []PricingPlan{
		{ID: "plan-web-starter", Name: "Starter", Category: PricingWeb, Price: "KES 150,000", Period: "one-off", Description: "A fast marketing site.", Features: []string{"Up to 8 pages", "Content dashboard", "Basic SEO"}, DisplayOrder: 1},
		{ID: "plan-web-growth", Name: "Growth", Category: PricingWeb, Price: "KES 450,000", Period: "one-off", Description: "A web application with accounts and payments.", Features: []string{"User accounts", "M-Pesa integration", "Admin panel"}, Highlighted: true, DisplayOrder: 2},
		{ID: "plan-mobile-mvp", Name: "Mobile MVP", Category: PricingMobile, Price: "KES 600,000", Period: "one-off", Description: "Cross-platform app, store ready.", Features: []string{"Android & iOS", "Push notifications"}, DisplayOrder: 3},
		{ID: "plan-ai-assistant", Name: "AI Assistant", Category: PricingAI, Price: "KES 800,000", Period: "one-off", Description: "A support assistant grounded in your documents.", Features: []string{"Document ingestion", "Chat widget", "Usage analytics"}, DisplayOrder: 4},
		{ID: "plan-cloud-care", Name: "Cloud Care", Category: PricingCloud, Price: "KES 60,000", Period: "per month", Description: "Managed hosting and monitoring.", Features: []string{"24/7 monitoring", "Backups", "Monthly report"}, DisplayOrder: 5},
		{ID: "plan-design-sprint", Name: "Design Sprint", Category: PricingDesign, Price: "KES 120,000", Period: "per sprint", Description: "Five days from problem to tested prototype.", Features: []string{"Workshops", "Clickable prototype", "User tests"}, DisplayOrder: 6},
	}
}

func defaultPortfolio() []ProjectItem {
	return []ProjectItem{
		{ID: "project-dispatch", Title: "Real-time Dispatch", Client: "Savanna Logistics", Category: "Web", Summary: "Fleet tracking and dispatch for 400 trucks.", Image: "/static/img/portfolio/dispatch.jpg", Tags: []string{"Go", "PostgreSQL", "Maps"}, Stats: ProjectStats{Duration: "10 weeks", TeamSize: "5", Impact: "-30% idle time"}},
		{ID: "project-solar", Title: "Pay-as-you-go Solar", Client: "Kijani Energy", Category: "Mobile", Summary: "Agent app for solar kit sales and M-Pesa collections.", Image: "/static/img/portfolio/solar.jpg", Tags: []string{"Flutter", "M-Pesa"}, Stats: ProjectStats{Duration: "14 weeks", TeamSize: "4", Impact: "12k households"}},
		{ID: "project-helpdesk", Title: "Helpdesk Assistant", Client: "Mpesa Pay Hub", Category: "AI", Summary: "An assistant that resolves routine support tickets.", Image: "/static/img/portfolio/helpdesk.jpg", Tags: []string{"LLM", "RAG"}, Stats: ProjectStats{Duration: "8 weeks", TeamSize: "3", Impact: "45% tickets auto-resolved"}},
	}
}

func defaultAbout() AboutUsConfig {
	c := AboutUsConfig{
		Hero: Hero{Title: "We are tech.safi", Subtitle: "A Nairobi engineering studio building clean, dependable software."},
		Values: []Feature{
			{ID: "value-clarity", Icon: "eye", Title: "Clarity", Description: "Plain language, visible progress, no surprises."},
			{ID: "value-craft", Icon: "hammer", Title: "Craft", Description: "We sweat the details users never notice."},
			{ID: "value-ownership", Icon: "shield", Title: "Ownership", Description: "We stay accountable after launch."},
		},
		Visionaries: []Visionary{
			{ID: "team-1", Name: "Wanjiru Kamau", Role: "Founder & CEO", Bio: "Ten years shipping fintech products across East Africa.", Image: "/static/img/team/wanjiru.jpg", Tier: TierFounder},
			{ID: "team-2", Name: "Otieno Ouma", Role: "CTO", Bio: "Distributed systems engineer and Go enthusiast.", Image: "/static/img/team/otieno.jpg", Tier: TierLeadership},
			{ID: "team-3", Name: "Dr. Halima Yusuf", Role: "AI Advisor", Bio: "Researcher in applied machine learning.", Image: "/static/img/team/halima.jpg", Tier: TierAdvisor},
		},
		Milestones: []Milestone{
			{ID: "milestone-1", Year: "2019", Title: "Founded", Description: "Two engineers and a borrowed office."},
			{ID: "milestone-2", Year: "2021", Title: "First enterprise client", Description: "A logistics platform now moving goods daily."},
			{ID: "milestone-3", Year: "2024", Title: "AI practice launched", Description: "Assistants and automation for local businesses."},
		},
	}
	c.Story.Title = "Our Story"
	c.Story.Paragraphs = []string{
		"tech.safi started with a simple idea: software in Africa should be as clean and reliable as anywhere else.",
		"Today we are a team of engineers, designers and analysts working with startups and enterprises alike.",
	}
	c.Story.Image = "/static/img/about/story.jpg"
	return c
}

func defaultCareers() CareersConfig {
	return CareersConfig{
		Hero: Hero{Title: "Build with us", Subtitle: "Join a team that values craft, clarity and ownership."},
		Notice: Notice{
			IsActive: true,
			Title:    "Attachment applications are open",
			Message:  "Applications for the next industrial attachment intake close at the end of the month.",
		},
		Culture: []Feature{
			{ID: "culture-learning", Icon: "book", Title: "Learning budget", Description: "Courses, books and conferences, on us."},
			{ID: "culture-flex", Icon: "clock", Title: "Flexible hours", Description: "Core hours, then your schedule."},
			{ID: "culture-remote", Icon: "home", Title: "Hybrid work", Description: "Office in Nairobi, home when you need it."},
		},
		Jobs: []Job{
			{ID: "job-backend", Title: "Backend Engineer (Go)", Department: "Engineering", Location: "Nairobi / Hybrid", Type: "Full-time", Description: "Design and run the services behind our client platforms.", Responsibilities: []string{"Build APIs", "Own production services"}, Requirements: []string{"3+ years backend experience", "SQL"}, IsOpen: true},
			{ID: "job-designer", Title: "Product Designer", Department: "Design", Location: "Nairobi", Type: "Full-time", Description: "Turn research into interfaces.", Responsibilities: []string{"Run user tests", "Maintain the design system"}, Requirements: []string{"Portfolio", "Figma"}, IsOpen: true},
		},
		Internship: Program{
			Title:       "Graduate Internship",
			Description: "Six months on real client projects with a mentor.",
			Duration:    "6 months",
			Perks:       []string{"Stipend", "Mentorship", "Possible full-time offer"},
			IsOpen:      false,
		},
		Attachment: Program{
			Title:       "Industrial Attachment",
			Description: "For university and TVET students needing attachment credit.",
			Duration:    "3 months",
			Perks:       []string{"Supervisor reports", "Hands-on projects"},
			IsOpen:      true,
		},
		ApplicationSteps: []ApplicationStep{
			{ID: "apply-1", Step: 1, Title: "Apply", Description: "Send your CV and a short note."},
			{ID: "apply-2", Step: 2, Title: "Chat", Description: "A 30 minute call with the team."},
			{ID: "apply-3", Step: 3, Title: "Task", Description: "A small, paid take-home exercise."},
			{ID: "apply-4", Step: 4, Title: "Offer", Description: "We decide within a week."},
		},
		FAQs: []FAQ{
			{ID: "careers-faq-1", Question: "Do you hire remotely?", Answer: "Hybrid roles need occasional Nairobi presence. Some roles are fully remote."},
			{ID: "careers-faq-2", Question: "Is the attachment paid?", Answer: "Attachment students receive a transport allowance."},
		},
	}
}

func defaultAiSolutions() AiSolutionsConfig {
	return AiSolutionsConfig{
		Hero: Hero{Title: "Applied AI", Subtitle: "Assistants, automation and insight built on your own data."},
		Features: []Feature{
			{ID: "ai-feature-1", Icon: "message-circle", Title: "Support Assistants", Description: "Answer customer questions from your documentation."},
			{ID: "ai-feature-2", Icon: "file-text", Title: "Document Automation", Description: "Extract fields from invoices, IDs and forms."},
			{ID: "ai-feature-3", Icon: "bar-chart", Title: "Forecasting", Description: "Demand and cash-flow forecasts from your history."},
		},
		UseCases: []UseCase{
			{ID: "ai-usecase-1", Industry: "Finance", Title: "Loan application triage", Description: "Pre-screen applications and flag missing documents."},
			{ID: "ai-usecase-2", Industry: "Logistics", Title: "Route planning", Description: "Cut fuel use with data-driven routing."},
		},
		FAQs: []FAQ{
			{ID: "ai-faq-1", Question: "Where does my data go?", Answer: "It stays in your cloud account unless you decide otherwise."},
			{ID: "ai-faq-2", Question: "How long does a pilot take?", Answer: "Most pilots run four to six weeks."},
		},
	}
}

func defaultContactSubmissions() []ContactSubmission {
	return []ContactSubmission{}
}

func defaultContact() ContactPageConfig {
	c := ContactPageConfig{
		Hero: Hero{Title: "Let's talk", Subtitle: "Tell us what you are building. We reply within one business day."},
		Cards: []ContactCard{
			{ID: "card-email", Icon: "mail", Title: "Email", Value: "hello@techsafi.co.ke", Href: "mailto:hello@techsafi.co.ke"},
			{ID: "card-phone", Icon: "phone", Title: "Phone", Value: "+254 700 000 000", Href: "tel:+254700000000"},
			{ID: "card-office", Icon: "map-pin", Title: "Office", Value: "Westlands, Nairobi"},
		},
		FAQs: []FAQ{
			{ID: "contact-faq-1", Question: "How soon can you start?", Answer: "Usually within two weeks of signing."},
			{ID: "contact-faq-2", Question: "Do you sign NDAs?", Answer: "Yes, before any detailed discussion."},
		},
	}
	c.Form.Services = []string{"Web Development", "Mobile Apps", "AI Solutions", "Cloud & DevOps", "UI/UX Design", "Other"}
	c.Form.Budgets = []string{"Under KES 200k", "KES 200k - 500k", "KES 500k - 1M", "Above KES 1M"}
	c.WhatsApp.Enabled = true
	c.WhatsApp.Number = "254700000000"
	c.WhatsApp.Message = "Hello tech.safi, I would like to discuss a project."
	return c
}

var launchDate = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func defaultBlog() []BlogPost {
	return []BlogPost{
		{
			ID:          "post-welcome",
			Slug:        "hello-world",
			Title:       "Hello, world",
			Excerpt:     "Why we started writing about how we build software.",
			Author:      "tech.safi team",
			Tags:        []string{"news"},
			Body:        "We are starting a blog.\n\nExpect notes on **engineering**, design and running software in production.\n",
			PublishedAt: launchDate,
		},
	}
}

func defaultLegal() []LegalPage {
	return []LegalPage{
		{Slug: "privacy", Title: "Privacy Policy", UpdatedAt: launchDate, Body: "## What we collect\n\nWhen you use the contact form we store your name, email, phone and message so we can reply.\n\n## How long we keep it\n\nLeads are kept for up to two years, then deleted.\n"},
		{Slug: "terms", Title: "Terms of Service", UpdatedAt: launchDate, Body: "## Use of this site\n\nContent on this site is provided for information only and may change without notice.\n"},
		{Slug: "cookies", Title: "Cookie Policy", UpdatedAt: launchDate, Body: "## Cookies\n\nThe public site sets no tracking cookies. The Control Centre uses one session cookie.\n"},
	}
}

func defaultMedia() []MediaAsset {
	return []MediaAsset{}
}
