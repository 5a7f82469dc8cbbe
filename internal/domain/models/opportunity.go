// internal/domain/models/opportunity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Opportunity status values.
const (
	OpportunityDraft  = "draft"
	OpportunityActive = "active"
	OpportunityClosed = "closed"
)

// Location types.
const (
	LocationInPerson = "in-person"
	LocationVirtual  = "virtual"
	LocationHybrid   = "hybrid"
	LocationRemote   = "remote"
)

// Urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Opportunity is a volunteer role posted by an organization.
//
// NOTE:
//   - PendingCount/AcceptedCount are never persisted. They are filled in at
//     query time by the opportunity store's aggregation against the
//     applications collection, and stay zero on plain reads.
//   - OrganizationID is immutable after creation.
type Opportunity struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Category       string             `bson:"category" json:"category"`
	Location       Location           `bson:"location" json:"location"`
	Schedule       Schedule           `bson:"schedule" json:"schedule"`
	Skills         []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	Urgency        string             `bson:"urgency" json:"urgency"` // low | medium | high | urgent
	Status         string             `bson:"status" json:"status"`   // draft | active | closed
	OrganizationID primitive.ObjectID `bson:"organization" json:"organizationId"`
	ContactInfo    ContactInfo        `bson:"contact_info,omitempty" json:"contactInfo,omitempty"`

	VolunteersNeeded    int            `bson:"volunteers_needed" json:"volunteersNeeded"`
	ApplicationDeadline *time.Time     `bson:"application_deadline,omitempty" json:"applicationDeadline,omitempty"`
	AgeRequirement      AgeRequirement `bson:"age_requirement" json:"ageRequirement"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Computed per-query from the applications collection.
	PendingCount  int `bson:"pending_count,omitempty" json:"pendingCount"`
	AcceptedCount int `bson:"accepted_count,omitempty" json:"acceptedCount"`

	// Populated organization summary, set by stores on populated reads.
	Organization *UserSummary `bson:"organization_detail,omitempty" json:"organization,omitempty"`
}

// Location describes where the work happens. City and state are required
// unless Type is virtual or remote.
type Location struct {
	Type    string  `bson:"type" json:"type"` // in-person | virtual | hybrid | remote
	Address Address `bson:"address,omitempty" json:"address,omitempty"`
}

// Address is a free-form postal address.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
}

// Schedule holds the start date and the expected time commitment.
type Schedule struct {
	StartDate      time.Time      `bson:"start_date" json:"startDate"`
	TimeCommitment TimeCommitment `bson:"time_commitment" json:"timeCommitment"`
}

// TimeCommitment describes the expected weekly load.
type TimeCommitment struct {
	HoursPerWeek int    `bson:"hours_per_week" json:"hoursPerWeek"` // >= 1
	Duration     string `bson:"duration" json:"duration"`           // one-time | short-term | long-term | ongoing
	Availability struct {
		Weekdays bool `bson:"weekdays" json:"weekdays"`
		Weekends bool `bson:"weekends" json:"weekends"`
		Evenings bool `bson:"evenings" json:"evenings"`
		Mornings bool `bson:"mornings" json:"mornings"`
	} `bson:"availability_required" json:"availabilityRequired"`
}

// ContactInfo is how applicants reach the organization outside the platform.
type ContactInfo struct {
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// DefaultAgeMinimum is applied when a posting does not set one.
const DefaultAgeMinimum = 18

// AgeRequirement bounds applicant age. Maximum of 0 means unbounded.
type AgeRequirement struct {
	Minimum int `bson:"minimum" json:"minimum"`
	Maximum int `bson:"maximum,omitempty" json:"maximum,omitempty"`
}

// SpotsLeft is the remaining accepted-applicant capacity, never negative.
// Meaningful only after the count fields have been filled in by a counting
// read.
func (o Opportunity) SpotsLeft() int {
	left := o.VolunteersNeeded - o.AcceptedCount
	if left < 0 {
		return 0
	}
	return left
}

// TotalApplications is the live pending+accepted load on the opportunity.
func (o Opportunity) TotalApplications() int {
	return o.PendingCount + o.AcceptedCount
}

// IsOpen reports whether the opportunity accepts new applications at the
// given instant: it must be active, start strictly in the future, and have at
// least one spot left.
func (o Opportunity) IsOpen(now time.Time) bool {
	return o.Status == OpportunityActive &&
		o.Schedule.StartDate.After(now) &&
		o.SpotsLeft() > 0
}
