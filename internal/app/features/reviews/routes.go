// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Use(tokens.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/my-reviews", h.ServeMine)
	r.Get("/opportunity/{id}", h.ServeByOpportunity)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
