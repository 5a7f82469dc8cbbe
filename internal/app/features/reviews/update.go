// internal/app/features/reviews/update.go
package reviews

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// HandleUpdate handles PUT /api/reviews/{id}. Only the organization that
// wrote the review may revise it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "review")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	review, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Review not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsOrganization(r) || uid != review.OrganizationID {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You can only edit your own reviews"))
		return
	}

	if err := h.Reviews.UpdateFeedback(ctx, id, req.Rating, sanitize.Text(req.Feedback)); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	updated, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /api/reviews/{id}. Only the organization that
// wrote the review may remove it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "review")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	review, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Review not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsOrganization(r) || uid != review.OrganizationID {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You can only delete your own reviews"))
		return
	}

	if _, err := h.Reviews.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, "Review deleted")
}
