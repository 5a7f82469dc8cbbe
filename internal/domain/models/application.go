// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application status values.
const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
	ApplicationCompleted = "completed"
)

// Communication preference values.
const (
	CommPlatform = "platform"
	CommEmail    = "email"
	CommPhone    = "phone"
	CommSMS      = "sms"
)

// Application is a volunteer's request to fill one slot on an opportunity.
//
// Exactly one application may exist per (opportunity, volunteer) pair; the
// applications collection carries a unique compound index on those two
// fields and the store maps the duplicate-key error to ErrAlreadyApplied.
//
// OrganizationID is denormalized from the opportunity's owner at creation
// time so organization-side listings never need a join.
type Application struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OpportunityID  primitive.ObjectID `bson:"opportunity" json:"opportunityId"`
	VolunteerID    primitive.ObjectID `bson:"volunteer" json:"volunteerId"`
	OrganizationID primitive.ObjectID `bson:"organization" json:"organizationId"`

	Status             string `bson:"status" json:"status"` // pending | accepted | rejected | withdrawn | completed
	ApplicationMessage string `bson:"application_message,omitempty" json:"applicationMessage,omitempty"`
	OrganizationNotes  string `bson:"organization_notes,omitempty" json:"organizationNotes,omitempty"`

	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	CompletedAt *time.Time          `bson:"completed_at,omitempty" json:"completedAt,omitempty"`

	Rating                  Rating `bson:"rating,omitempty" json:"rating"`
	CommunicationPreference string `bson:"communication_preference" json:"communicationPreference"` // platform | email | phone | sms

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Populated references, set by stores on populated reads.
	Opportunity  *Opportunity `bson:"opportunity_detail,omitempty" json:"opportunity,omitempty"`
	Volunteer    *UserSummary `bson:"volunteer_detail,omitempty" json:"volunteer,omitempty"`
	Organization *UserSummary `bson:"organization_detail,omitempty" json:"organization,omitempty"`
}

// Rating carries both directions of post-completion feedback. The
// organization writes VolunteerRating (rating the volunteer); the volunteer
// writes OrganizationRating (rating the organization).
type Rating struct {
	VolunteerRating    *RatingEntry `bson:"volunteer_rating,omitempty" json:"volunteerRating,omitempty"`
	OrganizationRating *RatingEntry `bson:"organization_rating,omitempty" json:"organizationRating,omitempty"`
}

// RatingEntry is one party's score and feedback.
type RatingEntry struct {
	Score    int    `bson:"score" json:"score"` // 1..5
	Feedback string `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// CanWithdraw reports whether the volunteer may still withdraw. Only pending
// applications are withdrawable.
func (a Application) CanWithdraw() bool {
	return a.Status == ApplicationPending
}

// CanDelete reports whether the owning volunteer may hard-delete the record.
func (a Application) CanDelete() bool {
	return a.Status == ApplicationPending
}

// CanRate reports whether post-completion rating is unlocked.
func (a Application) CanRate() bool {
	return a.Status == ApplicationCompleted
}
