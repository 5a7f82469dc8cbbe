// internal/app/features/opportunities/handler.go
package opportunities

import (
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the opportunities feature.
type Handler struct {
	DB   *mongo.Database
	Opps *opportunitystore.Store
	Log  *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:   db,
		Opps: opportunitystore.New(db),
		Log:  logger,
	}
}
