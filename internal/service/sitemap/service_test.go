package sitemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
)

type docReaderMock struct {
	value json.RawMessage
	err   error
	calls int
}

func (m *docReaderMock) GetValue(ctx context.Context, lang, collection, id string) (json.RawMessage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.value, nil
}

func siteCfg() config.SiteConfig {
	return config.SiteConfig{
		BaseURL:         "https://www.mitrafire.co.id",
		DefaultLanguage: "en",
	}
}

func TestXML_StaticAndBlogURLs(t *testing.T) {
	t.Parallel()

	docs := &docReaderMock{value: json.RawMessage(
		`[{"slug":"fire-safety-basics","title":"Basics"},{"id":"post-2","title":"No slug"}]`,
	)}
	svc := NewService(slog.Default(), docs, siteCfg())

	out, err := svc.XML(context.Background())
	if err != nil {
		t.Fatalf("XML: %v", err)
	}

	body := string(out)
	for _, want := range []string{
		"<?xml",
		"http://www.sitemaps.org/schemas/sitemap/0.9",
		"<loc>https://www.mitrafire.co.id/</loc>",
		"<loc>https://www.mitrafire.co.id/services</loc>",
		"<loc>https://www.mitrafire.co.id/blog/fire-safety-basics</loc>",
		"<loc>https://www.mitrafire.co.id/blog/post-2</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q:\n%s", want, body)
		}
	}
}

func TestXML_ServesCachedCopy(t *testing.T) {
	t.Parallel()

	docs := &docReaderMock{value: json.RawMessage(`[]`)}
	svc := NewService(slog.Default(), docs, siteCfg())

	if _, err := svc.XML(context.Background()); err != nil {
		t.Fatalf("XML: %v", err)
	}
	if _, err := svc.XML(context.Background()); err != nil {
		t.Fatalf("XML: %v", err)
	}
	if docs.calls != 1 {
		t.Errorf("blog list fetched %d times, want 1", docs.calls)
	}
}

func TestRefresh_MissingBlogDocument(t *testing.T) {
	t.Parallel()

	docs := &docReaderMock{err: fmt.Errorf("document: %w", domain.ErrNotFound)}
	svc := NewService(slog.Default(), docs, siteCfg())

	out, err := svc.XML(context.Background())
	if err != nil {
		t.Fatalf("XML with no blog document: %v", err)
	}
	if !strings.Contains(string(out), "<loc>https://www.mitrafire.co.id/about</loc>") {
		t.Error("static pages should still be listed")
	}
	if strings.Contains(string(out), "/blog/") {
		t.Error("no blog post URLs expected")
	}
}

func TestRefresh_StoreFault(t *testing.T) {
	t.Parallel()

	docs := &docReaderMock{err: errors.New("connection refused")}
	svc := NewService(slog.Default(), docs, siteCfg())

	if _, err := svc.XML(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRefresh_ObjectKeyedBlogList(t *testing.T) {
	t.Parallel()

	docs := &docReaderMock{value: json.RawMessage(
		`{"a1":{"slug":"annual-apar-check"},"a2":{"title":"slugless"}}`,
	)}
	svc := NewService(slog.Default(), docs, siteCfg())

	out, err := svc.XML(context.Background())
	if err != nil {
		t.Fatalf("XML: %v", err)
	}
	body := string(out)
	if !strings.Contains(body, "/blog/annual-apar-check") {
		t.Errorf("slug from object value missing:\n%s", body)
	}
	if !strings.Contains(body, "/blog/a2") {
		t.Errorf("fallback to map key missing:\n%s", body)
	}
}
