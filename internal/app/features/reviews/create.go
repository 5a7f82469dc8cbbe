// internal/app/features/reviews/create.go
package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	reviewstore "github.com/communityserve/volunteerhub/internal/app/store/reviews"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	VolunteerID    string     `json:"volunteerId" validate:"required"`
	OpportunityID  string     `json:"opportunityId" validate:"required"`
	Rating         int        `json:"rating" validate:"required,min=1,max=5"`
	Feedback       string     `json:"feedback" validate:"max=2000"`
	CompletionDate *time.Time `json:"completionDate"`
}

// HandleCreate handles POST /api/reviews. Organizations only; the reviewed
// opportunity must belong to the caller, and each (volunteer, opportunity)
// pair gets at most one review.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !authz.IsOrganization(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only organizations can write reviews"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	volID, err := parseID(req.VolunteerID, "volunteer")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	oppID, err := parseID(req.OpportunityID, "opportunity")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
	if opp.OrganizationID != uid {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "You can only review volunteers for your own opportunities"))
		return
	}

	vol, err := h.Users.GetByID(ctx, volID)
	if err != nil || vol.Role != models.RoleVolunteer {
		respond.Error(w, h.Log, apperr.New(apperr.NotFound, "Volunteer not found"))
		return
	}

	review := models.Review{
		VolunteerID:    volID,
		OrganizationID: uid,
		OpportunityID:  oppID,
		Rating:         req.Rating,
		Feedback:       sanitize.Text(req.Feedback),
	}
	if req.CompletionDate != nil {
		review.CompletionDate = *req.CompletionDate
	}

	created, err := h.Reviews.Create(ctx, review)
	if err != nil {
		if err == reviewstore.ErrDuplicateReview {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "This volunteer has already been reviewed for this opportunity"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}
