// internal/app/features/applications/routes.go
package applications

import (
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	// Every application endpoint requires a signed-in user.
	r.Use(tokens.RequireSignedIn)

	r.Post("/", h.HandleApply)
	r.Get("/", h.ServeAll)
	r.Get("/my", h.ServeMine)
	r.Get("/organization", h.ServeForOrganization)
	r.Get("/ratings", h.ServeRatings)
	r.Get("/ratings/all", h.ServeAllRatings)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}/status", h.HandleDecide)
	r.Put("/{id}/withdraw", h.HandleWithdraw)
	r.Put("/{id}/rate", h.HandleRate)
	r.Put("/{id}/communication", h.HandleCommunication)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
