package email

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aymerick/raymond"

	"github.com/mastermind-creat/techsafi/pkg/logger"
)

//go:embed templates
var embeddedTemplates embed.FS

// TemplateService renders Handlebars email templates.
//
// Layout of the template tree:
//   - layouts/*.hbs  wrap rendered content, exposed as {{content}}
//   - partials/*.hbs are registered by file name
//   - *.hbs          are the messages themselves
type TemplateService struct {
	log *slog.Logger

	mu        sync.RWMutex
	templates map[string]*raymond.Template
	layouts   map[string]*raymond.Template
	partials  map[string]string
}

// TemplateRenderResult contains the rendered email content
type TemplateRenderResult struct {
	HTML string
	Text string
}

// TemplateContext is the data passed to templates
type TemplateContext map[string]any

// NewTemplateService loads the templates compiled into the binary.
func NewTemplateService(log *slog.Logger) (*TemplateService, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return NewTemplateServiceFS(sub, log)
}

// NewTemplateServiceFS loads every template under fsys.
func NewTemplateServiceFS(fsys fs.FS, log *slog.Logger) (*TemplateService, error) {
	ts := &TemplateService{
		log:       log.With(logger.Scope("email.template")),
		templates: make(map[string]*raymond.Template),
		layouts:   make(map[string]*raymond.Template),
		partials:  make(map[string]string),
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".hbs") {
			return err
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ".hbs")

		switch path.Dir(p) {
		case "partials":
			ts.partials[name] = string(raw)
			return nil
		case "layouts":
			tmpl, err := raymond.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("parse layout %s: %w", name, err)
			}
			ts.layouts[name] = tmpl
		default:
			tmpl, err := raymond.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("parse template %s: %w", name, err)
			}
			ts.templates[name] = tmpl
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Partials are registered per template so tests can load several trees.
	for _, tmpl := range ts.templates {
		tmpl.RegisterPartials(ts.partials)
	}
	for _, tmpl := range ts.layouts {
		tmpl.RegisterPartials(ts.partials)
	}

	ts.log.Debug("loaded email templates",
		slog.Int("templates", len(ts.templates)),
		slog.Int("layouts", len(ts.layouts)))
	return ts, nil
}

// Render renders templateName, wrapped in layoutName when it is not empty.
func (ts *TemplateService) Render(templateName string, context TemplateContext, layoutName string) (*TemplateRenderResult, error) {
	ts.mu.RLock()
	tmpl, ok := ts.templates[templateName]
	layout := ts.layouts[layoutName]
	ts.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("email template %q not found", templateName)
	}

	content, err := tmpl.Exec(context)
	if err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	if layout != nil {
		layoutCtx := make(TemplateContext, len(context)+1)
		for k, v := range context {
			layoutCtx[k] = v
		}
		layoutCtx["content"] = raymond.SafeString(content)

		content, err = layout.Exec(layoutCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to render layout %s: %w", layoutName, err)
		}
	} else if layoutName != "" {
		ts.log.Debug("layout not found, using template directly", slog.String("layout", layoutName))
	}

	return &TemplateRenderResult{
		HTML: content,
		Text: generatePlainText(context),
	}, nil
}

// HasTemplate checks if a template exists
func (ts *TemplateService) HasTemplate(name string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.templates[name]
	return ok
}

// ListTemplates returns all available template names
func (ts *TemplateService) ListTemplates() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make([]string, 0, len(ts.templates))
	for name := range ts.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// generatePlainText creates a plain text version from context
func generatePlainText(context TemplateContext) string {
	if plainText, ok := context["plainText"].(string); ok && plainText != "" {
		return plainText
	}

	var parts []string
	if title, ok := context["title"].(string); ok && title != "" {
		parts = append(parts, title, "")
	}
	if message, ok := context["message"].(string); ok && message != "" {
		parts = append(parts, message, "")
	}
	if url, ok := context["dashboardUrl"].(string); ok && url != "" {
		parts = append(parts, fmt.Sprintf("Dashboard: %s", url), "")
	}
	return strings.Join(parts, "\n")
}
