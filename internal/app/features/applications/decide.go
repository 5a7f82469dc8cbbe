// internal/app/features/applications/decide.go
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
	"go.mongodb.org/mongo-driver/mongo"
)

type decideRequest struct {
	Status            string `json:"status" validate:"required,oneof=accepted rejected completed"`
	OrganizationNotes string `json:"organizationNotes" validate:"max=1000"`
}

// allowedTransitions are the organization-side status moves. Withdrawn is a
// volunteer-side move and terminal here.
var allowedTransitions = map[string][]string{
	models.ApplicationPending:  {models.ApplicationAccepted, models.ApplicationRejected},
	models.ApplicationAccepted: {models.ApplicationRejected, models.ApplicationCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// HandleDecide handles PUT /api/applications/{id}/status: the receiving
// organization (or an admin) accepts, rejects, or completes an application.
// Accepting enforces the remaining-capacity check; the volunteer is notified
// by email outside the request.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "application")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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
	if !applicationpolicy.CanDecide(r, app) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not have access to this application"))
		return
	}
	if !transitionAllowed(app.Status, req.Status) {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict,
			"Cannot move a %s application to %s", app.Status, req.Status))
		return
	}

	if req.Status == models.ApplicationAccepted {
		opp, err := h.Opps.GetByID(ctx, app.OpportunityID)
		if err == nil {
			accepted, cntErr := h.Apps.CountByOpportunityAndStatus(ctx, opp.ID, models.ApplicationAccepted)
			if cntErr != nil {
				respond.Error(w, h.Log, cntErr)
				return
			}
			if accepted >= int64(opp.VolunteersNeeded) {
				respond.Error(w, h.Log, apperr.New(apperr.Conflict, "This opportunity is already fully staffed"))
				return
			}
		} else if err != mongo.ErrNoDocuments {
			respond.Error(w, h.Log, err)
			return
		}
	}

	_, _, reviewerID, _ := authz.UserCtx(r)
	notes := sanitize.Text(req.OrganizationNotes)
	if err := h.Apps.SetStatus(ctx, id, req.Status, notes, reviewerID); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if vol, err := h.Users.GetByID(ctx, app.VolunteerID); err == nil {
		title := "your opportunity"
		if opp, err := h.Opps.GetByID(ctx, app.OpportunityID); err == nil {
			title = opp.Title
		}
		email := mailer.BuildStatusChangeEmail(mailer.StatusChangeData{
			VolunteerName:    vol.Name,
			OpportunityTitle: title,
			Status:           req.Status,
			Notes:            notes,
		})
		email.To = vol.Email
		h.sendMail(email)

		// Completion also invites the organization to rate the volunteer.
		if req.Status == models.ApplicationCompleted {
			if org, err := h.Users.GetByID(ctx, app.OrganizationID); err == nil {
				invite := mailer.BuildRatingInviteEmail(mailer.RatingInviteData{
					OrganizationName: org.Name,
					VolunteerName:    vol.Name,
					OpportunityTitle: title,
				})
				invite.To = org.Email
				h.sendMail(invite)
			}
		}
	}

	updated, err := h.Apps.GetDetail(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}
