// internal/app/features/applications/meta.go
package applications

import (
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID converts a hex id from a payload or URL into an ObjectID, mapping
// malformed input to InvalidID (400), never NotFound.
func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidID, "Invalid %s id", what)
	}
	return id, nil
}
