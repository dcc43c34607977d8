package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/service/content"
)

type batchServiceMock struct {
	BatchWriteFunc func(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error)
}

func (m *batchServiceMock) BatchWrite(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error) {
	return m.BatchWriteFunc(ctx, in)
}

func newBatchMux(svc batchService) *http.ServeMux {
	h := NewBatchHandler(svc, slog.Default())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/data/batch", h.Write)
	return mux
}

func TestBatchWrite_Success(t *testing.T) {
	t.Parallel()

	svc := &batchServiceMock{
		BatchWriteFunc: func(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error) {
			if in.Language != "en" || in.Collection != "about" || len(in.Data) != 2 {
				t.Errorf("input = %+v", in)
			}
			return &domain.BatchResult{Count: 2, Message: "updated 2 documents in about"}, nil
		},
	}
	mux := newBatchMux(svc)

	body := `{"language":"en","collection":"about","data":{"about":{"title":"About"},"about_title":"Our Company"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/data/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 2 || resp.Message == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestBatchWrite_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &batchServiceMock{
		BatchWriteFunc: func(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error) {
			return nil, domain.NewValidationError("data", "must be an object")
		},
	}
	mux := newBatchMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/data/batch",
		strings.NewReader(`{"language":"en","collection":"about"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == "" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBatchWrite_StoreFault(t *testing.T) {
	t.Parallel()

	svc := &batchServiceMock{
		BatchWriteFunc: func(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	mux := newBatchMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/data/batch",
		strings.NewReader(`{"language":"en","collection":"about","data":{"a":1}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAdmin(req))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("internal details must not leak to the client")
	}
}

func TestBatchWrite_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := &batchServiceMock{
		BatchWriteFunc: func(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error) {
			t.Error("service must not be reached")
			return nil, nil
		},
	}
	mux := newBatchMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/data/batch",
		strings.NewReader(`{"language":"en","collection":"about","data":{"a":1}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
