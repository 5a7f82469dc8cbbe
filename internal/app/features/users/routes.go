// internal/app/features/users/routes.go
package users

import (
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Use(tokens.RequireSignedIn)

	r.Get("/profile", h.ServeProfile)
	r.Put("/profile", h.HandleUpdateProfile)
	r.Put("/password", h.HandleUpdatePassword)
	r.Get("/volunteer-stats", h.ServeVolunteerStats)
	r.Get("/volunteer-history", h.ServeVolunteerHistory)

	// Admin account management. /{id} goes last so the named paths above
	// win the match.
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeUser)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
