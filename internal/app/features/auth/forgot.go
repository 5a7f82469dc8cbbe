// internal/app/features/auth/forgot.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = 10 * time.Minute

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword handles POST /api/auth/forgot-password. A random
// token goes out by email; only its sha256 is stored, so a database read
// never yields a usable link.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
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

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "There is no user with that email"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	token := uuid.NewString()
	if err := h.Users.SetResetToken(ctx, user.ID, hashToken(token), time.Now().UTC().Add(resetTokenTTL)); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	email := mailer.BuildResetPasswordEmail(mailer.ResetPasswordData{
		SiteName:  "VolunteerHub",
		Name:      user.Name,
		ResetLink: h.BaseURL + "/reset-password/" + token,
		ExpiresIn: "10 minutes",
	})
	email.To = user.Email

	if err := h.Mail.Send(email); err != nil {
		// Undo so the stale token cannot be replayed if a later attempt works.
		if clearErr := h.Users.ClearResetToken(ctx, user.ID); clearErr != nil {
			h.Log.Warn("clear reset token after send failure", zap.Error(clearErr))
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Internal, err, "Email could not be sent"))
		return
	}

	respond.Message(w, "Email sent")
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
