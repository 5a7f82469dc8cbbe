// internal/app/features/applications/view.go
package applications

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/policy/applicationpolicy"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeView handles GET /api/applications/{id}: one application with its
// opportunity and both parties populated. Visible to the volunteer, the
// organization, and admins.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "application")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, err := h.Apps.GetDetail(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Application not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	if !applicationpolicy.CanView(r, app) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not have access to this application"))
		return
	}
	respond.OK(w, app)
}
