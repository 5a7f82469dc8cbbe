// internal/app/features/reviews/handler.go
package reviews

import (
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	reviewstore "github.com/communityserve/volunteerhub/internal/app/store/reviews"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the reviews feature:
// organizations writing up volunteers after completed work.
type Handler struct {
	DB      *mongo.Database
	Reviews *reviewstore.Store
	Opps    *opportunitystore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Reviews: reviewstore.New(db),
		Opps:    opportunitystore.New(db),
		Users:   userstore.New(db),
		Log:     logger,
	}
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidID, "Invalid %s id", what)
	}
	return id, nil
}
