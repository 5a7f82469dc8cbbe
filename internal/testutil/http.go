// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/communityserve/volunteerhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
)

// WithUser attaches a signed-in session user to the request, the way the
// auth middleware would after verifying a bearer token.
func WithUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:               u.ID.Hex(),
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		OrganizationName: u.OrganizationName,
	})
}

// WithChiURLParam injects a chi route parameter so handlers that read
// chi.URLParam work outside a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
