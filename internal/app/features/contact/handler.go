// internal/app/features/contact/handler.go
package contact

import (
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
	"go.uber.org/zap"
)

// Handler forwards contact-form submissions to the site admins. Unlike the
// lifecycle notifications, delivery failures here surface to the caller.
type Handler struct {
	Mail       mailer.Sender
	AdminEmail string
	Log        *zap.Logger
}

func NewHandler(mail mailer.Sender, adminEmail string, logger *zap.Logger) *Handler {
	return &Handler{Mail: mail, AdminEmail: adminEmail, Log: logger}
}

type contactRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	UserType string `json:"userType" validate:"omitempty,oneof=volunteer organization other"`
}

// HandleSubmit handles POST /api/contact. Public. The submission goes to the
// admin address and a confirmation copy goes back to the sender.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	data := mailer.ContactData{
		Name:     sanitize.Text(req.Name),
		Email:    req.Email,
		Subject:  sanitize.Text(req.Subject),
		Message:  sanitize.Text(req.Message),
		UserType: req.UserType,
	}

	email := mailer.BuildContactEmail(data)
	email.To = h.AdminEmail
	if err := h.Mail.Send(email); err != nil {
		h.Log.Error("contact email failed", zap.Error(err))
		respond.Error(w, h.Log, apperr.New(apperr.Internal, "Message could not be sent"))
		return
	}

	confirm := mailer.BuildContactConfirmationEmail(data)
	confirm.To = data.Email
	if err := h.Mail.Send(confirm); err != nil {
		// The admin copy made it; log and carry on.
		h.Log.Warn("contact confirmation failed", zap.String("to", confirm.To), zap.Error(err))
	}

	respond.Message(w, "Message sent")
}
