// internal/app/features/applications/withdraw.go
package applications

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/policy/applicationpolicy"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleWithdraw handles PUT /api/applications/{id}/withdraw. The owning
// volunteer backs out of a still-pending application.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "application")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, err := h.Apps.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Application not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	if !applicationpolicy.CanWithdraw(r, app) {
		// The owner of a non-pending application gets a state error, not a
		// permission one.
		if _, _, uid, ok := authz.UserCtx(r); ok && uid == app.VolunteerID && app.Status != models.ApplicationPending {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "Only pending applications can be withdrawn"))
			return
		}
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not have access to this application"))
		return
	}

	if err := h.Apps.Withdraw(ctx, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, "Application withdrawn")
}
