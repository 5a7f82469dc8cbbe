// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the platform.
const (
	RoleVolunteer    = "volunteer"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
)

// User represents volunteers, organizations, and admins.
//
// NOTE:
//   - Role is the authorization discriminant for every lifecycle operation.
//   - Organizations that post opportunities are User records with
//     Role == "organization"; Opportunity and Application documents
//     reference them directly.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // lowercased, unique
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // volunteer | organization | admin
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`

	OrganizationName    string               `bson:"organization_name,omitempty" json:"organizationName,omitempty"`
	OrganizationProfile *OrganizationProfile `bson:"organization_profile,omitempty" json:"organizationProfile,omitempty"`
	VolunteerProfile    *VolunteerProfile    `bson:"volunteer_profile,omitempty" json:"volunteerProfile,omitempty"`

	ResetPasswordToken  string     `bson:"reset_password_token,omitempty" json:"-"` // sha256 hex digest
	ResetPasswordExpire *time.Time `bson:"reset_password_expire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// OrganizationProfile holds the public-facing details of an organization account.
type OrganizationProfile struct {
	Website            string   `bson:"website,omitempty" json:"website,omitempty"`
	Description        string   `bson:"description,omitempty" json:"description,omitempty"`
	Mission            string   `bson:"mission,omitempty" json:"mission,omitempty"`
	Causes             []string `bson:"causes,omitempty" json:"causes,omitempty"`
	VerificationStatus string   `bson:"verification_status,omitempty" json:"verificationStatus,omitempty"` // pending | verified
}

// VolunteerProfile holds a volunteer's skills and availability.
type VolunteerProfile struct {
	Skills       []string     `bson:"skills,omitempty" json:"skills,omitempty"`
	Interests    []string     `bson:"interests,omitempty" json:"interests,omitempty"`
	Availability Availability `bson:"availability" json:"availability"`
	Experience   string       `bson:"experience,omitempty" json:"experience,omitempty"`
}

// Availability flags for a volunteer.
type Availability struct {
	Weekdays bool `bson:"weekdays" json:"weekdays"`
	Weekends bool `bson:"weekends" json:"weekends"`
	Evenings bool `bson:"evenings" json:"evenings"`
}

// UserSummary is the reduced shape returned alongside auth tokens and
// embedded in populated opportunity/application responses.
type UserSummary struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role             string             `bson:"role,omitempty" json:"role,omitempty"`
	OrganizationName string             `bson:"organization_name,omitempty" json:"organizationName,omitempty"`
}

// Summary reduces a full User to its embeddable shape.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             u.Role,
		OrganizationName: u.OrganizationName,
	}
}
