// internal/app/features/users/handler.go
package users

import (
	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	reviewstore "github.com/communityserve/volunteerhub/internal/app/store/reviews"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature: the
// self-service profile, password changes, volunteer stats and history, and
// the admin account endpoints.
type Handler struct {
	DB      *mongo.Database
	Users   *userstore.Store
	Apps    *applicationstore.Store
	Opps    *opportunitystore.Store
	Reviews *reviewstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Users:   userstore.New(db),
		Apps:    applicationstore.New(db),
		Opps:    opportunitystore.New(db),
		Reviews: reviewstore.New(db),
		Log:     logger,
	}
}
