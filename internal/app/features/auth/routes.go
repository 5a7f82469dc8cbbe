// internal/app/features/auth/routes.go
package auth

import (
	sysauth "github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, tokens *sysauth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Put("/reset-password/{token}", h.HandleResetPassword)

	r.Group(func(pr chi.Router) {
		pr.Use(tokens.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
	})

	return r
}
