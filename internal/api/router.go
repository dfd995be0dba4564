package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/victorprouff/envrac/internal/digest"
)

// NewRouter creates a chi router with the trigger routes mounted. The
// healthcheck stays outside the secret gate.
func NewRouter(svc *digest.Service, secret string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/healthcheck", h.Healthcheck)

	r.Group(func(r chi.Router) {
		r.Use(SecretMiddleware(secret))
		r.Post("/en-vrac", h.Publish)
		r.Post("/dry-run", h.DryRun)
	})

	return r
}
