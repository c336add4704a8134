package content

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind tells singleton documents apart from list documents.
type Kind string

const (
	KindSingleton Kind = "singleton"
	KindList      Kind = "list"
)

// Domain names.
const (
	DomainLayout             = "layout"
	DomainHome               = "home"
	DomainServices           = "services"
	DomainPricing            = "pricing"
	DomainPortfolio          = "portfolio"
	DomainAbout              = "about"
	DomainCareers            = "careers"
	DomainAiSolutions        = "ai-solutions"
	DomainContactSubmissions = "contact-submissions"
	DomainContact            = "contact"
	DomainBlog               = "blog"
	DomainLegal              = "legal"
	DomainMedia              = "media"
)

// Migration upgrades a decoded document by one schema version. doc is the
// generic JSON form (map[string]any or []any).
type Migration func(doc any) (any, error)

// Domain is the untyped view of a Def, used by the generic Service operations.
type Domain interface {
	Name() string
	Key() string
	Kind() Kind
	SchemaVersion() int
	Public() bool
	Description() string

	// canonical decodes raw into the typed shape and re-encodes it.
	canonical(raw json.RawMessage) (json.RawMessage, error)
	defaultJSON() (json.RawMessage, error)
	upgrade(from int, raw json.RawMessage) (json.RawMessage, error)
}

// Def describes one content domain of type T.
type Def[T any] struct {
	name        string
	key         string
	kind        Kind
	public      bool
	description string
	def         func() T
	// migrations[i] upgrades schema version i+1 to i+2.
	migrations []Migration
}

func (d *Def[T]) Name() string        { return d.name }
func (d *Def[T]) Key() string         { return d.key }
func (d *Def[T]) Kind() Kind          { return d.kind }
func (d *Def[T]) Public() bool        { return d.public }
func (d *Def[T]) Description() string { return d.description }

// SchemaVersion is the version new records are written with.
func (d *Def[T]) SchemaVersion() int { return len(d.migrations) + 1 }

// Default returns a fresh copy of the hard-coded default.
func (d *Def[T]) Default() T { return d.def() }

func (d *Def[T]) canonical(raw json.RawMessage) (json.RawMessage, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (d *Def[T]) defaultJSON() (json.RawMessage, error) {
	return json.Marshal(d.def())
}

func (d *Def[T]) upgrade(from int, raw json.RawMessage) (json.RawMessage, error) {
	current := d.SchemaVersion()
	if from == current {
		return raw, nil
	}
	if from < 1 || from > current {
		return nil, fmt.Errorf("schema version %d is not supported (current %d)", from, current)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for v := from; v < current; v++ {
		var err error
		if doc, err = d.migrations[v-1](doc); err != nil {
			return nil, fmt.Errorf("migrate %s v%d->v%d: %w", d.name, v, v+1, err)
		}
	}
	return json.Marshal(doc)
}

// Domain definitions.
var (
	Layout = &Def[GlobalLayoutConfig]{
		name: DomainLayout, key: "techsafi_global_layout", kind: KindSingleton, public: true,
		description: "Navbar and footer shared by every page",
		def:         defaultLayout,
	}
	Home = &Def[HomePageConfig]{
		name: DomainHome, key: "techsafi_home_config", kind: KindSingleton, public: true,
		description: "Landing page hero, partners, bento grid, testimonials and estimator",
		def:         defaultHome,
	}
	Services = &Def[ServicesConfig]{
		name: DomainServices, key: "techsafi_services_config", kind: KindSingleton, public: true,
		description: "Service catalogue, methodology and tech stack",
		def:         defaultServices,
	}
	Pricing = &Def[[]PricingPlan]{
		name: DomainPricing, key: "techsafi_pricing_plans", kind: KindList, public: true,
		description: "Pricing plans by category",
		def:         defaultPricing,
	}
	Portfolio = &Def[[]ProjectItem]{
		name: DomainPortfolio, key: "techsafi_portfolio_projects", kind: KindList, public: true,
		description: "Portfolio case studies",
		def:         defaultPortfolio,
	}
	About = &Def[AboutUsConfig]{
		name: DomainAbout, key: "techsafi_about_config", kind: KindSingleton, public: true,
		description: "Company story, values, team and milestones",
		def:         defaultAbout,
		migrations:  []Migration{defaultVisionaryTier},
	}
	Careers = &Def[CareersConfig]{
		name: DomainCareers, key: "techsafi_careers_config", kind: KindSingleton, public: true,
		description: "Careers notice, jobs, internship and attachment",
		def:         defaultCareers,
	}
	AiSolutions = &Def[AiSolutionsConfig]{
		name: DomainAiSolutions, key: "techsafi_ai_solutions_config", kind: KindSingleton, public: true,
		description: "AI solutions features, use cases and FAQs",
		def:         defaultAiSolutions,
	}
	ContactSubmissions = &Def[[]ContactSubmission]{
		name: DomainContactSubmissions, key: "techsafi_contact_submissions", kind: KindList, public: false,
		description: "Leads captured by the contact form",
		def:         defaultContactSubmissions,
	}
	Contact = &Def[ContactPageConfig]{
		name: DomainContact, key: "techsafi_contact_config", kind: KindSingleton, public: true,
		description: "Contact page cards, form options and WhatsApp settings",
		def:         defaultContact,
	}
	Blog = &Def[[]BlogPost]{
		name: DomainBlog, key: "techsafi_blog_posts", kind: KindList, public: true,
		description: "Blog posts (markdown)",
		def:         defaultBlog,
	}
	Legal = &Def[[]LegalPage]{
		name: DomainLegal, key: "techsafi_legal_pages", kind: KindList, public: true,
		description: "Privacy, terms and cookie policies (markdown)",
		def:         defaultLegal,
	}
	Media = &Def[[]MediaAsset]{
		name: DomainMedia, key: "techsafi_media_library", kind: KindList, public: false,
		description: "Uploaded media assets",
		def:         defaultMedia,
	}
)

var registry = func() map[string]Domain {
	m := make(map[string]Domain)
	for _, d := range []Domain{
		Layout, Home, Services, Pricing, Portfolio, About, Careers,
		AiSolutions, ContactSubmissions, Contact, Blog, Legal, Media,
	} {
		m[d.Name()] = d
	}
	return m
}()

// Lookup finds a domain by name.
func Lookup(name string) (Domain, bool) {
	d, ok := registry[name]
	return d, ok
}

// LookupKey finds a domain by storage key.
func LookupKey(key string) (Domain, bool) {
	for _, d := range registry {
		if d.Key() == key {
			return d, true
		}
	}
	return nil, false
}

// Domains returns every domain sorted by name.
func Domains() []Domain {
	out := make([]Domain, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// defaultVisionaryTier is about v1 -> v2: visionaries gained a tier, and
// records written before that default to leadership.
func defaultVisionaryTier(doc any) (any, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", doc)
	}
	list, _ := m["visionaries"].([]any)
	for _, item := range list {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if tier, _ := v["tier"].(string); tier == "" {
			v["tier"] = TierLeadership
		}
	}
	return m, nil
}
