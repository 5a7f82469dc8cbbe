// internal/app/features/auth/handler.go
package auth

import (
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the auth feature:
// registration, login, the current-user endpoint, and the password reset
// flow.
type Handler struct {
	DB      *mongo.Database
	Users   *userstore.Store
	Tokens  *auth.TokenManager
	Mail    mailer.Sender
	BaseURL string
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, mail mailer.Sender, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Users:   userstore.New(db),
		Tokens:  tokens,
		Mail:    mail,
		BaseURL: baseURL,
		Log:     logger,
	}
}

// issueToken signs a session token for a stored user.
func (h *Handler) issueToken(u models.User) (string, error) {
	return h.Tokens.Issue(auth.SessionUser{
		ID:               u.ID.Hex(),
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		OrganizationName: u.OrganizationName,
	})
}
