// internal/app/features/opportunities/types.go
package opportunities

import (
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/sanitize"
	"github.com/communityserve/volunteerhub/internal/domain/models"
)

// opportunityRequest is the create payload. Update uses opportunityPatch.
type opportunityRequest struct {
	Title       string          `json:"title" validate:"required,max=150"`
	Description string          `json:"description" validate:"required,max=5000"`
	Category    string          `json:"category" validate:"required,max=60"`
	Location    locationPayload `json:"location" validate:"required"`
	Schedule    schedulePayload `json:"schedule" validate:"required"`
	Skills      []string        `json:"skills" validate:"max=20,dive,max=60"`
	Urgency     string          `json:"urgency" validate:"omitempty,oneof=low medium high urgent"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft active closed"`
	ContactInfo contactPayload  `json:"contactInfo"`

	VolunteersNeeded    int            `json:"volunteersNeeded" validate:"required,min=1"`
	ApplicationDeadline *time.Time     `json:"applicationDeadline"`
	AgeRequirement      agePayload     `json:"ageRequirement"`
}

type locationPayload struct {
	Type    string `json:"type" validate:"required,oneof=in-person virtual hybrid remote"`
	Address struct {
		Street  string `json:"street" validate:"max=200"`
		City    string `json:"city" validate:"max=100"`
		State   string `json:"state" validate:"max=100"`
		ZipCode string `json:"zipCode" validate:"max=20"`
	} `json:"address"`
}

type schedulePayload struct {
	StartDate      time.Time `json:"startDate" validate:"required"`
	TimeCommitment struct {
		HoursPerWeek int    `json:"hoursPerWeek" validate:"required,min=1"`
		Duration     string `json:"duration" validate:"required,oneof=one-time short-term long-term ongoing"`
		Availability struct {
			Weekdays bool `json:"weekdays"`
			Weekends bool `json:"weekends"`
			Evenings bool `json:"evenings"`
			Mornings bool `json:"mornings"`
		} `json:"availabilityRequired"`
	} `json:"timeCommitment" validate:"required"`
}

type contactPayload struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

type agePayload struct {
	Minimum int `json:"minimum" validate:"min=0,max=120"`
	Maximum int `json:"maximum" validate:"min=0,max=120"`
}

// checkCrossFields enforces the rules the struct tags can't express.
func (req opportunityRequest) checkCrossFields() error {
	problems := locationProblems(req.Location.Type, req.Location.Address.City, req.Location.Address.State)
	problems = append(problems, ageProblems(req.AgeRequirement.Minimum, req.AgeRequirement.Maximum)...)
	problems = append(problems, startDateProblems(req.Schedule.StartDate)...)
	if req.ApplicationDeadline != nil {
		problems = append(problems, deadlineProblems(*req.ApplicationDeadline, req.Schedule.StartDate)...)
	}
	if len(problems) > 0 {
		return apperr.ValidationFailed(problems)
	}
	return nil
}

// The helpers below are shared with HandleUpdate, which re-checks the rules
// against the merged document whenever a patch touches their fields.

func locationProblems(locType, city, state string) []string {
	if locType != models.LocationInPerson && locType != models.LocationHybrid {
		return nil
	}
	var problems []string
	if city == "" {
		problems = append(problems, "location.address.city is required for in-person and hybrid opportunities")
	}
	if state == "" {
		problems = append(problems, "location.address.state is required for in-person and hybrid opportunities")
	}
	return problems
}

func ageProblems(min, max int) []string {
	if max != 0 && max < min {
		return []string{"ageRequirement.maximum must not be below minimum"}
	}
	return nil
}

func startDateProblems(start time.Time) []string {
	if beforeToday(start) {
		return []string{"schedule.startDate must be today or later"}
	}
	return nil
}

func deadlineProblems(deadline, start time.Time) []string {
	var problems []string
	if beforeToday(deadline) {
		problems = append(problems, "applicationDeadline must be today or later")
	}
	if deadline.After(start) {
		problems = append(problems, "applicationDeadline must not be after the start date")
	}
	return problems
}

// beforeToday reports whether t falls on a UTC calendar date earlier than
// today's. Dates are compared by calendar day, not instant, so a start date
// of today at any hour is accepted.
func beforeToday(t time.Time) bool {
	ty, tm, td := t.UTC().Date()
	ny, nm, nd := time.Now().UTC().Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}

func (req opportunityRequest) toModel() models.Opportunity {
	o := models.Opportunity{
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Text(req.Description),
		Category:    sanitize.Text(req.Category),
		Location: models.Location{
			Type: req.Location.Type,
			Address: models.Address{
				Street:  sanitize.Text(req.Location.Address.Street),
				City:    sanitize.Text(req.Location.Address.City),
				State:   sanitize.Text(req.Location.Address.State),
				ZipCode: sanitize.Text(req.Location.Address.ZipCode),
			},
		},
		Skills:  sanitize.Slice(req.Skills),
		Urgency: req.Urgency,
		Status:  req.Status,
		ContactInfo: models.ContactInfo{
			Email: req.ContactInfo.Email,
			Phone: req.ContactInfo.Phone,
		},
		VolunteersNeeded:    req.VolunteersNeeded,
		ApplicationDeadline: req.ApplicationDeadline,
		AgeRequirement: models.AgeRequirement{
			Minimum: req.AgeRequirement.Minimum,
			Maximum: req.AgeRequirement.Maximum,
		},
	}
	o.Schedule.StartDate = req.Schedule.StartDate.UTC()
	o.Schedule.TimeCommitment.HoursPerWeek = req.Schedule.TimeCommitment.HoursPerWeek
	o.Schedule.TimeCommitment.Duration = req.Schedule.TimeCommitment.Duration
	o.Schedule.TimeCommitment.Availability.Weekdays = req.Schedule.TimeCommitment.Availability.Weekdays
	o.Schedule.TimeCommitment.Availability.Weekends = req.Schedule.TimeCommitment.Availability.Weekends
	o.Schedule.TimeCommitment.Availability.Evenings = req.Schedule.TimeCommitment.Availability.Evenings
	o.Schedule.TimeCommitment.Availability.Mornings = req.Schedule.TimeCommitment.Availability.Mornings
	return o
}
