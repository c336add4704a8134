package site

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/mastermind-creat/techsafi/domain/blog"
)

// SitemapEntry is one public URL.
type SitemapEntry struct {
	Path    string
	Title   string
	LastMod time.Time
}

var staticPages = []SitemapEntry{
	{Path: "/", Title: "Home"},
	{Path: "/company", Title: "Company"},
	{Path: "/services", Title: "Services"},
	{Path: "/ai-solutions", Title: "AI Solutions"},
	{Path: "/portfolio", Title: "Portfolio"},
	{Path: "/pricing", Title: "Pricing"},
	{Path: "/careers", Title: "Careers"},
	{Path: "/contact", Title: "Contact"},
	{Path: "/blog", Title: "Blog"},
}

// Sitemap lists the fixed pages, published posts and legal pages.
func (h *Handler) Sitemap(ctx context.Context) []SitemapEntry {
	out := append([]SitemapEntry(nil), staticPages...)
	for _, p := range h.blog.PublishedOrDefault(ctx) {
		out = append(out, SitemapEntry{Path: "/blog/" + p.Slug, Title: blog.DisplayTitle(p), LastMod: p.PublishedAt})
	}
	for _, l := range h.blog.LegalPages(ctx) {
		out = append(out, SitemapEntry{Path: "/legal/" + l.Slug, Title: l.Title, LastMod: l.UpdatedAt})
	}
	return out
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapXML encodes entries in the sitemaps.org format.
func sitemapXML(baseURL string, entries []SitemapEntry) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	base := strings.TrimRight(baseURL, "/")
	for _, e := range entries {
		u := sitemapURL{Loc: base + e.Path}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
