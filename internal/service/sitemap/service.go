// Package sitemap renders the XML sitemap from the site's static pages and the
// published blog posts stored in the blog collection.
package sitemap

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// blogsDocID is the well-known document holding the blog post list.
const blogsDocID = "blogs"

// staticPaths are the always-present site pages, in sitemap order.
var staticPaths = []string{"/", "/about", "/services", "/clients", "/faq", "/blog", "/contact"}

type documentReader interface {
	GetValue(ctx context.Context, lang, collection, id string) (json.RawMessage, error)
}

// Service builds and caches the sitemap. XML serves the cached copy; Refresh
// rebuilds it and is run on a schedule and after blog writes.
type Service struct {
	docs documentReader
	cfg  config.SiteConfig
	log  *slog.Logger

	mu     sync.RWMutex
	cached []byte
}

// NewService creates a sitemap service. The first XML call builds the sitemap
// on demand if Refresh has not run yet.
func NewService(log *slog.Logger, docs documentReader, cfg config.SiteConfig) *Service {
	return &Service{
		docs: docs,
		cfg:  cfg,
		log:  log.With("service", "sitemap"),
	}
}

// XML returns the sitemap document.
func (s *Service) XML(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached, nil
}

// Refresh rebuilds the cached sitemap. A missing blog document is fine: the
// sitemap then lists only the static pages.
func (s *Service) Refresh(ctx context.Context) error {
	slugs, err := s.blogSlugs(ctx)
	if err != nil {
		return err
	}

	out, err := s.render(slugs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = out
	s.mu.Unlock()

	s.log.InfoContext(ctx, "sitemap refreshed",
		slog.Int("urls", len(staticPaths)+len(slugs)))

	return nil
}

func (s *Service) blogSlugs(ctx context.Context) ([]string, error) {
	value, err := s.docs.GetValue(ctx, s.cfg.DefaultLanguage, domain.CollectionBlog, blogsDocID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load blog list: %w", err)
	}
	return extractSlugs(value), nil
}

// blogEntry is the subset of a blog post the sitemap cares about.
type blogEntry struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
}

func (e blogEntry) path() string {
	if e.Slug != "" {
		return e.Slug
	}
	return e.ID
}

// extractSlugs pulls post identifiers out of the opaque blog list payload.
// The payload is either an array of posts or an object keyed by post id, with
// each post carrying a slug (preferred) or id field. Anything unrecognized is
// skipped rather than failing the whole sitemap.
func extractSlugs(value json.RawMessage) []string {
	var list []blogEntry
	if err := json.Unmarshal(value, &list); err == nil {
		return collect(list, nil)
	}

	var byID map[string]blogEntry
	if err := json.Unmarshal(value, &byID); err == nil {
		keys := make([]string, 0, len(byID))
		entries := make([]blogEntry, 0, len(byID))
		for k, e := range byID {
			keys = append(keys, k)
			entries = append(entries, e)
		}
		return collect(entries, keys)
	}

	return nil
}

func collect(entries []blogEntry, fallbackKeys []string) []string {
	var slugs []string
	for i, e := range entries {
		p := e.path()
		if p == "" && fallbackKeys != nil {
			p = fallbackKeys[i]
		}
		if p != "" {
			slugs = append(slugs, p)
		}
	}
	return slugs
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

func (s *Service) render(blogSlugs []string) ([]byte, error) {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	today := time.Now().UTC().Format("2006-01-02")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPaths {
		set.URLs = append(set.URLs, urlEntry{Loc: base + p, LastMod: today})
	}
	for _, slug := range blogSlugs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     base + "/blog/" + strings.TrimPrefix(slug, "/"),
			LastMod: today,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}
