// internal/app/features/auth/me.go
package auth

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeMe handles GET /api/auth/me: the full profile of the signed-in user.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Not authorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Token outlived the account.
			respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Account no longer exists"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, user)
}
