// internal/app/features/auth/register.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	Role             string `json:"role" validate:"omitempty,oneof=volunteer organization"`
	Phone            string `json:"phone" validate:"omitempty,max=30"`
	OrganizationName string `json:"organizationName" validate:"omitempty,max=150"`
}

// HandleRegister handles POST /api/auth/register. New accounts are
// volunteers unless the payload asks for an organization. Admin accounts are
// provisioned out of band, never through this endpoint.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if req.Role == models.RoleOrganization && strings.TrimSpace(req.OrganizationName) == "" {
		respond.Error(w, h.Log, apperr.ValidationFailed([]string{"organizationName is required for organization accounts"}))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Name:             sanitize.Text(req.Name),
		Email:            strings.TrimSpace(req.Email),
		PasswordHash:     string(hash),
		Role:             req.Role,
		Phone:            strings.TrimSpace(req.Phone),
		OrganizationName: sanitize.Text(req.OrganizationName),
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "An account with this email already exists"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Auth(w, http.StatusCreated, token, user.Summary())
}
