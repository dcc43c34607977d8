package middleware

import (
	"net/http"

	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

// Language resolves the request's content language from the ?lang= query
// parameter and stores the normalized tag on the context. Absent or malformed
// tags resolve to the default so content reads always have a language.
func Language(defaultLang string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			normalized, err := domain.NormalizeLanguage(lang)
			if lang == "" || err != nil {
				normalized = defaultLang
			}
			ctx := ctxutil.WithLanguage(r.Context(), normalized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
