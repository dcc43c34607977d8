package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/service/content"
	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

type contentServiceMock struct {
	GetValueFunc func(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage
	UpsertFunc   func(ctx context.Context, in content.UpsertInput) (*domain.Document, error)
	DeleteFunc   func(ctx context.Context, collection, id string) error
}

func (m *contentServiceMock) GetValue(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage {
	return m.GetValueFunc(ctx, lang, collection, id, fallback)
}

func (m *contentServiceMock) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	return nil, fmt.Errorf("document: %w", domain.ErrNotFound)
}

func (m *contentServiceMock) ListDocuments(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error) {
	return []*domain.Document{}, 0, nil
}

func (m *contentServiceMock) ListCollections(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (m *contentServiceMock) Upsert(ctx context.Context, in content.UpsertInput) (*domain.Document, error) {
	return m.UpsertFunc(ctx, in)
}

func (m *contentServiceMock) Delete(ctx context.Context, collection, id string) error {
	return m.DeleteFunc(ctx, collection, id)
}

// asAdmin puts an authenticated admin on the request context, the way the
// Auth middleware would.
func asAdmin(r *http.Request) *http.Request {
	ctx := ctxutil.WithUserID(r.Context(), uuid.New())
	ctx = ctxutil.WithRole(ctx, "admin")
	return r.WithContext(ctx)
}

func newContentMux(svc contentService) *http.ServeMux {
	h := NewContentHandler(svc, slog.Default())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/content/{collection}/{id}", h.GetValue)
	mux.HandleFunc("PUT /api/admin/content/{collection}/{id}", h.Upsert)
	mux.HandleFunc("DELETE /api/admin/content/{collection}/{id}", h.Delete)
	return mux
}

func TestGetValue_Found(t *testing.T) {
	t.Parallel()

	svc := &contentServiceMock{
		GetValueFunc: func(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage {
			if collection != "hero" || id != "main" {
				t.Errorf("lookup = (%q, %q)", collection, id)
			}
			return json.RawMessage(`{"title":"Fire Protection"}`)
		},
	}
	mux := newContentMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/content/hero/main?lang=en", nil)
	req = req.WithContext(ctxutil.WithLanguage(req.Context(), "en"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Value struct {
			Title string `json:"title"`
		} `json:"value"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Value.Title != "Fire Protection" {
		t.Errorf("value.title = %q", resp.Value.Title)
	}
}

func TestGetValue_AbsentServesNull(t *testing.T) {
	t.Parallel()

	svc := &contentServiceMock{
		GetValueFunc: func(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage {
			return fallback
		},
	}
	mux := newContentMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content/hero/missing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when absent", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"value":null}` {
		t.Errorf("body = %s", body)
	}
}

func TestUpsert_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := &contentServiceMock{
		UpsertFunc: func(ctx context.Context, in content.UpsertInput) (*domain.Document, error) {
			t.Error("service must not be reached")
			return nil, nil
		},
	}
	mux := newContentMux(svc)

	body := `{"content":{"en":{"title":"x"}}}`

	// Anonymous.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/content/hero/main", strings.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	// Authenticated editor.
	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/hero/main", strings.NewReader(body))
	ctx := ctxutil.WithUserID(req.Context(), uuid.New())
	ctx = ctxutil.WithRole(ctx, "editor")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Errorf("editor: status = %d, want 403", rec.Code)
	}
}

func TestUpsert_MergeFlag(t *testing.T) {
	t.Parallel()

	var got content.UpsertInput
	svc := &contentServiceMock{
		UpsertFunc: func(ctx context.Context, in content.UpsertInput) (*domain.Document, error) {
			got = in
			return &domain.Document{Collection: in.Collection, ID: in.ID, Content: in.Content}, nil
		},
	}
	mux := newContentMux(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/hero/main?merge=true",
		strings.NewReader(`{"content":{"id":{"title":"Proteksi Kebakaran"}}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !got.Merge {
		t.Error("merge flag should be passed through")
	}
	if got.Collection != "hero" || got.ID != "main" {
		t.Errorf("input = %+v", got)
	}
}

func TestUpsert_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &contentServiceMock{
		UpsertFunc: func(ctx context.Context, in content.UpsertInput) (*domain.Document, error) {
			return nil, domain.NewValidationError("content", "must be a non-empty object")
		},
	}
	mux := newContentMux(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/hero/main", strings.NewReader(`{"content":{}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc := &contentServiceMock{
		DeleteFunc: func(ctx context.Context, collection, id string) error {
			return fmt.Errorf("document: %w", domain.ErrNotFound)
		},
	}
	mux := newContentMux(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/content/hero/gone", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
