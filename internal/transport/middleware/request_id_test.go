package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

func TestRequestID_Generated(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxutil.RequestIDFromCtx(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got == "" {
		t.Error("request id should be generated")
	}
	if rec.Header().Get("X-Request-Id") != got {
		t.Errorf("response header %q != context id %q", rec.Header().Get("X-Request-Id"), got)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxutil.RequestIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	rec := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rec, req)

	if got != "upstream-id" {
		t.Errorf("request id = %q, want the incoming header value", got)
	}
}
