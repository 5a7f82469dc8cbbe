// internal/app/features/opportunities/update.go
package opportunities

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/policy/opportunitypolicy"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// opportunityPatch is the partial update payload. Absent fields stay
// unchanged; the organization owning the posting cannot be changed.
type opportunityPatch struct {
	Title       *string          `json:"title" validate:"omitempty,max=150"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Category    *string          `json:"category" validate:"omitempty,max=60"`
	Location    *locationPayload `json:"location"`
	Schedule    *schedulePayload `json:"schedule"`
	Skills      *[]string        `json:"skills" validate:"omitempty,max=20,dive,max=60"`
	Urgency     *string          `json:"urgency" validate:"omitempty,oneof=low medium high urgent"`
	Status      *string          `json:"status" validate:"omitempty,oneof=draft active closed"`
	ContactInfo *contactPayload  `json:"contactInfo"`

	VolunteersNeeded    *int        `json:"volunteersNeeded" validate:"omitempty,min=1"`
	ApplicationDeadline *time.Time  `json:"applicationDeadline"`
	AgeRequirement      *agePayload `json:"ageRequirement"`
}

// HandleUpdate handles PUT /api/opportunities/{id}. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.InvalidID, "Invalid opportunity id"))
		return
	}

	var patch opportunityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(patch); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if patch.Location != nil {
		if err := validate.Struct(*patch.Location); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	}
	if patch.Schedule != nil {
		if err := validate.Struct(*patch.Schedule); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	upd := opportunitystore.Update{
		Urgency:             patch.Urgency,
		Status:              patch.Status,
		VolunteersNeeded:    patch.VolunteersNeeded,
		ApplicationDeadline: patch.ApplicationDeadline,
	}
	if patch.Title != nil {
		clean := sanitize.Text(*patch.Title)
		upd.Title = &clean
	}
	if patch.Description != nil {
		clean := sanitize.Text(*patch.Description)
		upd.Description = &clean
	}
	if patch.Category != nil {
		clean := sanitize.Text(*patch.Category)
		upd.Category = &clean
	}
	if patch.Skills != nil {
		clean := sanitize.Slice(*patch.Skills)
		upd.Skills = &clean
	}
	if patch.Location != nil {
		loc := models.Location{
			Type: patch.Location.Type,
			Address: models.Address{
				Street:  sanitize.Text(patch.Location.Address.Street),
				City:    sanitize.Text(patch.Location.Address.City),
				State:   sanitize.Text(patch.Location.Address.State),
				ZipCode: sanitize.Text(patch.Location.Address.ZipCode),
			},
		}
		upd.Location = &loc
	}
	if patch.Schedule != nil {
		sched := models.Schedule{StartDate: patch.Schedule.StartDate.UTC()}
		sched.TimeCommitment.HoursPerWeek = patch.Schedule.TimeCommitment.HoursPerWeek
		sched.TimeCommitment.Duration = patch.Schedule.TimeCommitment.Duration
		sched.TimeCommitment.Availability.Weekdays = patch.Schedule.TimeCommitment.Availability.Weekdays
		sched.TimeCommitment.Availability.Weekends = patch.Schedule.TimeCommitment.Availability.Weekends
		sched.TimeCommitment.Availability.Evenings = patch.Schedule.TimeCommitment.Availability.Evenings
		sched.TimeCommitment.Availability.Mornings = patch.Schedule.TimeCommitment.Availability.Mornings
		upd.Schedule = &sched
	}
	if patch.ContactInfo != nil {
		ci := models.ContactInfo{Email: patch.ContactInfo.Email, Phone: patch.ContactInfo.Phone}
		upd.ContactInfo = &ci
	}
	if patch.AgeRequirement != nil {
		age := models.AgeRequirement{Minimum: patch.AgeRequirement.Minimum, Maximum: patch.AgeRequirement.Maximum}
		upd.AgeRequirement = &age
	}

	// Patched location, date, and age fields get the same cross-field rules
	// as create, evaluated against the merged document.
	var problems []string
	if upd.Location != nil {
		problems = append(problems, locationProblems(upd.Location.Type, upd.Location.Address.City, upd.Location.Address.State)...)
	}
	if upd.Schedule != nil {
		problems = append(problems, startDateProblems(upd.Schedule.StartDate)...)
	}
	mergedStart := opp.Schedule.StartDate
	if upd.Schedule != nil {
		mergedStart = upd.Schedule.StartDate
	}
	mergedDeadline := opp.ApplicationDeadline
	if patch.ApplicationDeadline != nil {
		mergedDeadline = patch.ApplicationDeadline
	}
	if (patch.ApplicationDeadline != nil || patch.Schedule != nil) && mergedDeadline != nil {
		problems = append(problems, deadlineProblems(*mergedDeadline, mergedStart)...)
	}
	if upd.AgeRequirement != nil {
		problems = append(problems, ageProblems(upd.AgeRequirement.Minimum, upd.AgeRequirement.Maximum)...)
	}
	if len(problems) > 0 {
		respond.Error(w, h.Log, apperr.ValidationFailed(problems))
		return
	}

	if err := h.Opps.Update(ctx, id, upd); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	updated, err := h.Opps.GetDetail(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}
