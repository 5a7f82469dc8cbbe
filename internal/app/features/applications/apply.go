// internal/app/features/applications/apply.go
package applications

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type applyRequest struct {
	OpportunityID           string `json:"opportunityId" validate:"required"`
	ApplicationMessage      string `json:"applicationMessage" validate:"max=1000"`
	CommunicationPreference string `json:"communicationPreference" validate:"omitempty,oneof=platform email phone sms"`
}

// HandleApply handles POST /api/applications. Volunteers only. The capacity
// check counts pending plus accepted applications against volunteersNeeded;
// it is read-then-write, so a race can briefly oversubscribe, and the unique
// (opportunity, volunteer) index is the hard guarantee against duplicates.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	if !authz.IsVolunteer(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only volunteers can apply"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	oppID, err := parseID(req.OpportunityID, "opportunity")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	opp, err := h.Opps.GetByID(ctx, oppID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Opportunity not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	now := time.Now().UTC()
	if opp.Status != models.OpportunityActive {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict, "This opportunity is not accepting applications"))
		return
	}
	if !opp.Schedule.StartDate.After(now) {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict, "This opportunity has already started"))
		return
	}
	if opp.ApplicationDeadline != nil && opp.ApplicationDeadline.Before(now) {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict, "The application deadline has passed"))
		return
	}

	total, err := h.Apps.CountByOpportunityAndStatus(ctx, opp.ID,
		models.ApplicationPending, models.ApplicationAccepted)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if total >= int64(opp.VolunteersNeeded) {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict,
			"This opportunity has reached its maximum limit of %d volunteers", opp.VolunteersNeeded))
		return
	}

	created, err := h.Apps.Create(ctx, models.Application{
		OpportunityID:           opp.ID,
		VolunteerID:             uid,
		OrganizationID:          opp.OrganizationID,
		ApplicationMessage:      sanitize.Text(req.ApplicationMessage),
		CommunicationPreference: req.CommunicationPreference,
	})
	if err != nil {
		if err == applicationstore.ErrAlreadyApplied {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "You have already applied to this opportunity"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	// Notify the organization outside the request.
	if org, err := h.Users.GetByID(ctx, opp.OrganizationID); err == nil {
		if vol, err := h.Users.GetByID(ctx, uid); err == nil {
			email := mailer.BuildNewApplicationEmail(mailer.NewApplicationData{
				OrganizationName: org.Name,
				VolunteerName:    vol.Name,
				OpportunityTitle: opp.Title,
				Message:          created.ApplicationMessage,
			})
			email.To = org.Email
			h.sendMail(email)
			if h.AdminEmail != "" {
				cc := email
				cc.To = h.AdminEmail
				h.sendMail(cc)
			}
		}
	}

	respond.Created(w, created)
}
