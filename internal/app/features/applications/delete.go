// internal/app/features/applications/delete.go
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

// HandleDelete handles DELETE /api/applications/{id}. The owning volunteer
// may remove a still-pending application; admins may remove any.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
	if !applicationpolicy.CanDelete(r, app) {
		if _, _, uid, ok := authz.UserCtx(r); ok && uid == app.VolunteerID && app.Status != models.ApplicationPending {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "Only pending applications can be deleted"))
			return
		}
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not have access to this application"))
		return
	}

	if _, err := h.Apps.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, "Application deleted")
}
