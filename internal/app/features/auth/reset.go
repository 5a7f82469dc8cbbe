// internal/app/features/auth/reset.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type resetRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandleResetPassword handles PUT /api/auth/reset-password/{token}. A valid
// token sets the new password, burns the token, and signs the user straight
// in.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Reset token is required"))
		return
	}

	var req resetRequest
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

	user, err := h.Users.GetByResetToken(ctx, hashToken(token))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid or expired reset token"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := h.Users.ClearResetToken(ctx, user.ID); err != nil {
		h.Log.Warn("clear reset token after password change", zap.Error(err))
	}

	signed, err := h.issueToken(user)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Auth(w, http.StatusOK, signed, user.Summary())
}
