// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is an organization's standalone write-up of a volunteer's work on
// one opportunity, separate from the per-application rating pair. One review
// per (volunteer, opportunity), enforced by a unique compound index.
type Review struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VolunteerID    primitive.ObjectID `bson:"volunteer" json:"volunteerId"`
	OrganizationID primitive.ObjectID `bson:"organization" json:"organizationId"`
	OpportunityID  primitive.ObjectID `bson:"opportunity" json:"opportunityId"`

	Rating         int       `bson:"rating" json:"rating"` // 1..5
	Feedback       string    `bson:"feedback" json:"feedback"`
	CompletionDate time.Time `bson:"completion_date" json:"completionDate"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Populated references, set by stores on populated reads.
	Volunteer    *UserSummary `bson:"volunteer_detail,omitempty" json:"volunteer,omitempty"`
	Organization *UserSummary `bson:"organization_detail,omitempty" json:"organization,omitempty"`
	Opportunity  *Opportunity `bson:"opportunity_detail,omitempty" json:"opportunity,omitempty"`
}
