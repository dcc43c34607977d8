package rest

import (
	"net/http"
	"strings"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Content    *ContentHandler
	Batch      *BatchHandler
	Auth       *AuthHandler
	Users      *UserHandler
	Media      *MediaHandler
	Checksheet *ChecksheetHandler
	Contact    *ContactHandler
	Sitemap    *SitemapHandler
	Health     *HealthHandler
}

// NewRouter mounts all routes on a ServeMux. Auth and role checks live in the
// middleware chain and the handlers; the router only does method and path
// dispatch. mediaDir is served read-only under mediaPrefix.
func NewRouter(h Handlers, mediaDir, mediaPrefix string) *http.ServeMux {
	mux := http.NewServeMux()

	// Public site API.
	mux.HandleFunc("GET /api/content/{collection}/{id}", h.Content.GetValue)
	mux.HandleFunc("POST /api/contact", h.Contact.Submit)
	mux.HandleFunc("GET /api/sitemap", h.Sitemap.Get)

	// Admin auth.
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Admin content.
	mux.HandleFunc("POST /api/data/batch", h.Batch.Write)
	mux.HandleFunc("GET /api/admin/collections", h.Content.Collections)
	mux.HandleFunc("GET /api/admin/content/{collection}", h.Content.List)
	mux.HandleFunc("POST /api/admin/content/{collection}", h.Content.Create)
	mux.HandleFunc("GET /api/admin/content/{collection}/{id}", h.Content.Get)
	mux.HandleFunc("PUT /api/admin/content/{collection}/{id}", h.Content.Upsert)
	mux.HandleFunc("DELETE /api/admin/content/{collection}/{id}", h.Content.Delete)

	// Admin users.
	mux.HandleFunc("GET /api/admin/users", h.Users.List)
	mux.HandleFunc("POST /api/admin/users", h.Users.Create)
	mux.HandleFunc("GET /api/admin/users/{id}", h.Users.Get)
	mux.HandleFunc("PUT /api/admin/users/{id}", h.Users.Update)
	mux.HandleFunc("PUT /api/admin/users/{id}/password", h.Users.ChangePassword)
	mux.HandleFunc("DELETE /api/admin/users/{id}", h.Users.Delete)

	// Admin media.
	mux.HandleFunc("POST /api/admin/media", h.Media.Upload)
	mux.HandleFunc("GET /api/admin/media", h.Media.List)
	mux.HandleFunc("DELETE /api/admin/media/{id}", h.Media.Delete)

	// Admin checksheets.
	mux.HandleFunc("GET /api/admin/checksheets", h.Checksheet.List)
	mux.HandleFunc("POST /api/admin/checksheets", h.Checksheet.Create)
	mux.HandleFunc("GET /api/admin/checksheets/{id}", h.Checksheet.Get)
	mux.HandleFunc("PUT /api/admin/checksheets/{id}", h.Checksheet.Update)
	mux.HandleFunc("DELETE /api/admin/checksheets/{id}", h.Checksheet.Delete)

	// Uploaded files.
	prefix := strings.TrimSuffix(mediaPrefix, "/") + "/"
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(mediaDir))))

	// Health.
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	return mux
}
