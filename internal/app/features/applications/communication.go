// internal/app/features/applications/communication.go
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
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

type communicationRequest struct {
	CommunicationPreference string `json:"communicationPreference" validate:"required,oneof=platform email phone sms"`
}

// HandleCommunication handles PUT /api/applications/{id}/communication.
// Either party may change how they should be reached; the other party is
// notified outside the request.
func (h *Handler) HandleCommunication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "application")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req communicationRequest
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
	if !applicationpolicy.CanSetCommunication(r, app) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You do not have access to this application"))
		return
	}

	if err := h.Apps.SetCommunicationPreference(ctx, id, req.CommunicationPreference); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	// Tell the other party how to reach this one now.
	_, changerName, uid, _ := authz.UserCtx(r)
	other := app.VolunteerID
	if uid == app.VolunteerID {
		other = app.OrganizationID
	}
	if to, err := h.Users.GetByID(ctx, other); err == nil {
		title := "your application"
		if opp, err := h.Opps.GetByID(ctx, app.OpportunityID); err == nil {
			title = opp.Title
		}
		email := mailer.BuildCommunicationChangeEmail(mailer.CommunicationChangeData{
			RecipientName:    to.Name,
			ChangedBy:        changerName,
			OpportunityTitle: title,
			Preference:       req.CommunicationPreference,
		})
		email.To = to.Email
		h.sendMail(email)
	}

	respond.Message(w, "Communication preference updated")
}
