// internal/app/features/opportunities/delete.go
package opportunities

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/policy/opportunitypolicy"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleDelete handles DELETE /api/opportunities/{id}. Owner only.
// Applications referencing the opportunity are kept; their populated
// opportunity simply comes back empty on later reads.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.InvalidID, "Invalid opportunity id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	opp, err := h.Opps.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Opportunity not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	if !opportunitypolicy.CanManage(r, opp) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not own this opportunity"))
		return
	}

	if _, err := h.Opps.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, "Opportunity deleted")
}
