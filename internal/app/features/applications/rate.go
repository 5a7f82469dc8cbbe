// internal/app/features/applications/rate.go
package applications

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/policy/applicationpolicy"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type rateRequest struct {
	Score    int    `json:"score" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// HandleRate handles PUT /api/applications/{id}/rate. On a completed
// application the organization rates the volunteer and the volunteer rates
// the organization; the caller's role picks the direction. Rating again
// overwrites the earlier entry.
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "application")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req rateRequest
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

	app, err := h.Apps.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Application not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	entry := models.RatingEntry{
		Score:    req.Score,
		Feedback: sanitize.Text(req.Feedback),
	}

	var recipient primitive.ObjectID
	switch {
	case applicationpolicy.CanRateVolunteer(r, app):
		if err := h.Apps.SetVolunteerRating(ctx, id, entry); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		recipient = app.VolunteerID
	case applicationpolicy.CanRateOrganization(r, app):
		if err := h.Apps.SetOrganizationRating(ctx, id, entry); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		recipient = app.OrganizationID
	default:
		if !app.CanRate() && applicationpolicy.CanView(r, app) {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "Only completed applications can be rated"))
			return
		}
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You cannot rate this application"))
		return
	}

	if to, err := h.Users.GetByID(ctx, recipient); err == nil {
		_, raterName, _, _ := authz.UserCtx(r)
		title := "a volunteer opportunity"
		if opp, err := h.Opps.GetByID(ctx, app.OpportunityID); err == nil {
			title = opp.Title
		}
		email := mailer.BuildRatingReceivedEmail(mailer.RatingReceivedData{
			RecipientName:    to.Name,
			RaterName:        raterName,
			OpportunityTitle: title,
			Score:            req.Score,
		})
		email.To = to.Email
		h.sendMail(email)
	}

	updated, err := h.Apps.GetDetail(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}
