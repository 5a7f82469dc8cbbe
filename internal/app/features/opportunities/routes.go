// internal/app/features/opportunities/routes.go
package opportunities

import (
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	// Public browse
	r.Get("/", h.ServeList)
	r.Get("/organization/{id}", h.ServeByOrganization)

	// Signed-in
	r.Group(func(pr chi.Router) {
		pr.Use(tokens.RequireSignedIn)
		pr.Post("/", h.HandleCreate)
		pr.Get("/my", h.ServeMine)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	// Public detail goes last so /my and /organization win the match
	r.Get("/{id}", h.ServeView)

	return r
}
