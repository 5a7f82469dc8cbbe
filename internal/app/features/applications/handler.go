// internal/app/features/applications/handler.go
package applications

import (
	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the applications feature:
// applying, listing, organization decisions, withdrawal, ratings, and
// communication preferences.
type Handler struct {
	DB    *mongo.Database
	Apps  *applicationstore.Store
	Opps  *opportunitystore.Store
	Users *userstore.Store
	Mail  mailer.Sender
	Log   *zap.Logger

	// AdminEmail, when set, receives a copy of new-application notifications.
	AdminEmail string
}

func NewHandler(db *mongo.Database, mail mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Apps:  applicationstore.New(db),
		Opps:  opportunitystore.New(db),
		Users: userstore.New(db),
		Mail:  mail,
		Log:   logger,
	}
}

// sendMail delivers a notification from a goroutine. Notification email is
// best-effort: failures are logged, never surfaced to the request that
// triggered them.
func (h *Handler) sendMail(e mailer.Email) {
	go func() {
		if err := h.Mail.Send(e); err != nil {
			h.Log.Warn("notification email failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err))
		}
	}()
}
