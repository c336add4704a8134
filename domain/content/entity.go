package content

import "time"

// Link is a label/href pair used by the navbar, footer and call-to-action buttons.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// NavLink is a navbar entry. Children are allowed one level deep.
type NavLink struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Href     string `json:"href"`
	Children []Link `json:"children"`
}

// FooterColumn is one titled group of footer links.
type FooterColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Links []Link `json:"links"`
}

// SocialLink points to a social profile.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// GlobalLayoutConfig is the navbar/footer shell shared by every public page.
type GlobalLayoutConfig struct {
	Navbar struct {
		Logo  string    `json:"logo"`
		Links []NavLink `json:"links"`
		CTA   Link      `json:"cta"`
	} `json:"navbar"`
	Footer struct {
		Tagline   string         `json:"tagline"`
		Columns   []FooterColumn `json:"columns"`
		Socials   []SocialLink   `json:"socials"`
		Copyright string         `json:"copyright"`
	} `json:"footer"`
}

// Hero is the banner block at the top of most pages.
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Feature is a titled card with an icon.
type Feature struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Partner is a logo in the home page strip.
type Partner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// BentoCard is one tile of the home feature grid.
type BentoCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Size        string `json:"size"` // small | wide | tall
}

// Testimonial is a client quote.
type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Quote   string `json:"quote"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  int    `json:"rating"`
}

// EstimatorFeature is an add-on priced by the home page estimator.
type EstimatorFeature struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Price int    `json:"price"`
}

// HomePageConfig drives the landing page.
type HomePageConfig struct {
	Hero struct {
		Title           string   `json:"title"`
		Subtitle        string   `json:"subtitle"`
		TypewriterWords []string `json:"typewriterWords"`
		PrimaryCTA      Link     `json:"primaryCta"`
		SecondaryCTA    Link     `json:"secondaryCta"`
	} `json:"hero"`
	Partners     []Partner     `json:"partners"`
	BentoCards   []BentoCard   `json:"bentoCards"`
	Testimonials []Testimonial `json:"testimonials"`
	Estimator    struct {
		Currency   string             `json:"currency"`
		BasePrices map[string]int     `json:"basePrices"`
		Features   []EstimatorFeature `json:"features"`
	} `json:"estimator"`
}

// ServiceCategory groups service items.
type ServiceCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServiceItem is one offering. CategoryID is not checked against Categories.
type ServiceItem struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Highlights  []string `json:"highlights"`
}

// MethodologyStep is one numbered phase of the delivery process.
type MethodologyStep struct {
	ID          string `json:"id"`
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TechItem is a technology in the stack showcase.
type TechItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ServicesConfig drives /services.
type ServicesConfig struct {
	Hero        Hero              `json:"hero"`
	Categories  []ServiceCategory `json:"categories"`
	Services    []ServiceItem     `json:"services"`
	Methodology []MethodologyStep `json:"methodology"`
	TechStack   []TechItem        `json:"techStack"`
}

// PricingCategory values.
const (
	PricingWeb    = "Web"
	PricingMobile = "Mobile"
	PricingAI     = "AI"
	PricingCloud  = "Cloud"
	PricingDesign = "Design"
)

// PricingCategories lists the tabs of the pricing page, in display order.
var PricingCategories = []string{PricingWeb, PricingMobile, PricingAI, PricingCloud, PricingDesign}

// PricingPlan is one card on /pricing.
type PricingPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        string   `json:"price"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Highlighted  bool     `json:"highlighted"`
	DisplayOrder int      `json:"displayOrder"`
}

// ProjectStats are the headline numbers of a case study.
type ProjectStats struct {
	Duration string `json:"duration"`
	TeamSize string `json:"teamSize"`
	Impact   string `json:"impact"`
}

// ProjectItem is one portfolio case study.
type ProjectItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Client   string       `json:"client"`
	Category string       `json:"category"`
	Summary  string       `json:"summary"`
	Image    string       `json:"image"`
	Tags     []string     `json:"tags"`
	Link     string       `json:"link,omitempty"`
	Stats    ProjectStats `json:"stats"`
}

// Visionary tiers.
const (
	TierFounder    = "founder"
	TierLeadership = "leadership"
	TierAdvisor    = "advisor"
)

// Visionary is a team member on /company.
type Visionary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Tier     string `json:"tier"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Milestone is a dated entry on the company timeline.
type Milestone struct {
	ID          string `json:"id"`
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AboutUsConfig drives /company.
type AboutUsConfig struct {
	Hero  Hero `json:"hero"`
	Story struct {
		Title      string   `json:"title"`
		Paragraphs []string `json:"paragraphs"`
		Image      string   `json:"image"`
	} `json:"story"`
	Values      []Feature   `json:"values"`
	Visionaries []Visionary `json:"visionaries"`
	Milestones  []Milestone `json:"milestones"`
}

// Notice is the banner shown above the careers page when active.
type Notice struct {
	IsActive bool   `json:"isActive"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// Job is an open position.
type Job struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	IsOpen           bool     `json:"isOpen"`
}

// Program describes the internship and industrial attachment tracks.
type Program struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Perks       []string `json:"perks"`
	IsOpen      bool     `json:"isOpen"`
}

// ApplicationStep is one numbered step of the hiring process.
type ApplicationStep struct {
	ID          string `json:"id"`
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CareersConfig drives /careers.
type CareersConfig struct {
	Hero             Hero              `json:"hero"`
	Notice           Notice            `json:"notice"`
	Culture          []Feature         `json:"culture"`
	Jobs             []Job             `json:"jobs"`
	Internship       Program           `json:"internship"`
	Attachment       Program           `json:"attachment"`
	ApplicationSteps []ApplicationStep `json:"applicationSteps"`
	FAQs             []FAQ             `json:"faqs"`
}

// UseCase is an industry scenario on /ai-solutions.
type UseCase struct {
	ID          string `json:"id"`
	Industry    string `json:"industry"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AiSolutionsConfig drives /ai-solutions.
type AiSolutionsConfig struct {
	Hero     Hero      `json:"hero"`
	Features []Feature `json:"features"`
	UseCases []UseCase `json:"useCases"`
	FAQs     []FAQ     `json:"faqs"`
}

// Lead statuses.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusInProgress = "in-progress"
	StatusClosed     = "closed"
)

// Lead priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ContactSubmission is a lead captured by the public contact form.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Service   string    `json:"service,omitempty"`
	Budget    string    `json:"budget,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactCard is one channel on the contact page (phone, email, office).
type ContactCard struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// ContactPageConfig drives /contact.
type ContactPageConfig struct {
	Hero  Hero          `json:"hero"`
	Cards []ContactCard `json:"cards"`
	Form  struct {
		Services []string `json:"services"`
		Budgets  []string `json:"budgets"`
	} `json:"form"`
	WhatsApp struct {
		Enabled bool   `json:"enabled"`
		Number  string `json:"number"`
		Message string `json:"message"`
	} `json:"whatsapp"`
	FAQs []FAQ `json:"faqs"`
}

// BlogPost is a markdown article.
type BlogPost struct {
	ID          string    `json:"id" yaml:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Excerpt     string    `json:"excerpt" yaml:"excerpt"`
	Author      string    `json:"author" yaml:"author"`
	Tags        []string  `json:"tags" yaml:"tags"`
	Cover       string    `json:"cover,omitempty" yaml:"cover"`
	Body        string    `json:"body" yaml:"-"`
	PublishedAt time.Time `json:"publishedAt" yaml:"publishedAt"`
	Draft       bool      `json:"draft" yaml:"draft"`
}

// LegalPage is a markdown policy document served under /legal/{slug}.
type LegalPage struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MediaAsset is an uploaded object in the media library.
type MediaAsset struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
