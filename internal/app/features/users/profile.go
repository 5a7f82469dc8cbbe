// internal/app/features/users/profile.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeProfile handles GET /api/users/profile: the signed-in user's record.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Not authorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Account no longer exists"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, user)
}

type organizationProfilePayload struct {
	Website     string   `json:"website" validate:"omitempty,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Mission     string   `json:"mission" validate:"max=2000"`
	Causes      []string `json:"causes" validate:"max=20,dive,max=50"`
}

type volunteerProfilePayload struct {
	Skills       []string            `json:"skills" validate:"max=20,dive,max=50"`
	Interests    []string            `json:"interests" validate:"max=20,dive,max=50"`
	Availability models.Availability `json:"availability"`
	Experience   string              `json:"experience" validate:"max=2000"`
}

type profileRequest struct {
	Name                *string                     `json:"name" validate:"omitempty,min=1,max=100"`
	Email               *string                     `json:"email" validate:"omitempty,email"`
	Phone               *string                     `json:"phone" validate:"omitempty,max=30"`
	OrganizationName    *string                     `json:"organizationName" validate:"omitempty,max=200"`
	OrganizationProfile *organizationProfilePayload `json:"organizationProfile"`
	VolunteerProfile    *volunteerProfilePayload    `json:"volunteerProfile"`
}

// HandleUpdateProfile handles PUT /api/users/profile. Absent fields are left
// unchanged; the profile sub-document matching the caller's role is the only
// one applied.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Not authorized"))
		return
	}

	var req profileRequest
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

	current, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "Account no longer exists"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	upd := userstore.ProfileUpdate{}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		upd.Name = &name
	}
	if req.Email != nil {
		email := text.Fold(*req.Email)
		upd.Email = &email
	}
	if req.Phone != nil {
		phone := sanitize.Text(*req.Phone)
		upd.Phone = &phone
	}

	switch role {
	case models.RoleOrganization:
		if req.OrganizationName != nil {
			orgName := sanitize.Text(*req.OrganizationName)
			upd.OrganizationName = &orgName
		}
		if req.OrganizationProfile != nil {
			p := models.OrganizationProfile{
				Website:     sanitize.Text(req.OrganizationProfile.Website),
				Description: sanitize.Text(req.OrganizationProfile.Description),
				Mission:     sanitize.Text(req.OrganizationProfile.Mission),
				Causes:      sanitize.Slice(req.OrganizationProfile.Causes),
			}
			// Verification is set by admins, never by the account itself.
			if current.OrganizationProfile != nil {
				p.VerificationStatus = current.OrganizationProfile.VerificationStatus
			}
			upd.OrganizationProfile = &p
		}
	case models.RoleVolunteer:
		if req.VolunteerProfile != nil {
			p := models.VolunteerProfile{
				Skills:       sanitize.Slice(req.VolunteerProfile.Skills),
				Interests:    sanitize.Slice(req.VolunteerProfile.Interests),
				Availability: req.VolunteerProfile.Availability,
				Experience:   sanitize.Text(req.VolunteerProfile.Experience),
			}
			upd.VolunteerProfile = &p
		}
	}

	if err := h.Users.UpdateProfile(ctx, uid, upd); err != nil {
		if err == userstore.ErrDuplicateEmail {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "An account with this email already exists"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	updated, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, updated)
}
