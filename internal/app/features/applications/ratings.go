// internal/app/features/applications/ratings.go
package applications

import (
	"context"
	"net/http"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ratingView is one direction of post-completion feedback shaped for the
// ratings listings. Volunteer and Organization carry the counterparty; on
// the admin listing both are set.
type ratingView struct {
	Opportunity  *models.Opportunity `json:"opportunity,omitempty"`
	Volunteer    *models.UserSummary `json:"volunteer,omitempty"`
	Organization *models.UserSummary `json:"organization,omitempty"`
	Score        int                 `json:"score"`
	Feedback     string              `json:"feedback,omitempty"`
	Date         time.Time           `json:"date"`
	Type         string              `json:"type,omitempty"`
}

// ratingsSummary splits the caller's ratings by direction.
type ratingsSummary struct {
	Received []ratingView `json:"received"`
	Given    []ratingView `json:"given"`
}

// ServeRatings handles GET /api/applications/ratings: the ratings the caller
// has received and given across their completed applications, newest first.
func (h *Handler) ServeRatings(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, err := h.Apps.ListRated(ctx, uid)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	summary := ratingsSummary{Received: []ratingView{}, Given: []ratingView{}}
	for _, a := range apps {
		// VolunteerRating rates the volunteer; OrganizationRating rates
		// the organization.
		switch role {
		case models.RoleVolunteer:
			if a.VolunteerID != uid {
				continue
			}
			if e := a.Rating.VolunteerRating; e != nil {
				summary.Received = append(summary.Received, ratingView{
					Opportunity:  a.Opportunity,
					Organization: a.Organization,
					Score:        e.Score,
					Feedback:     e.Feedback,
					Date:         a.UpdatedAt,
				})
			}
			if e := a.Rating.OrganizationRating; e != nil {
				summary.Given = append(summary.Given, ratingView{
					Opportunity:  a.Opportunity,
					Organization: a.Organization,
					Score:        e.Score,
					Feedback:     e.Feedback,
					Date:         a.UpdatedAt,
				})
			}
		case models.RoleOrganization:
			if a.OrganizationID != uid {
				continue
			}
			if e := a.Rating.OrganizationRating; e != nil {
				summary.Received = append(summary.Received, ratingView{
					Opportunity: a.Opportunity,
					Volunteer:   a.Volunteer,
					Score:       e.Score,
					Feedback:    e.Feedback,
					Date:        a.UpdatedAt,
				})
			}
			if e := a.Rating.VolunteerRating; e != nil {
				summary.Given = append(summary.Given, ratingView{
					Opportunity: a.Opportunity,
					Volunteer:   a.Volunteer,
					Score:       e.Score,
					Feedback:    e.Feedback,
					Date:        a.UpdatedAt,
				})
			}
		}
	}

	respond.OK(w, summary)
}

// ServeAllRatings handles GET /api/applications/ratings/all: every rating on
// the platform, both directions, newest first. Admin only.
func (h *Handler) ServeAllRatings(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Admin access required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, err := h.Apps.ListRated(ctx, primitive.NilObjectID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	all := []ratingView{}
	for _, a := range apps {
		if e := a.Rating.VolunteerRating; e != nil {
			all = append(all, ratingView{
				Opportunity:  a.Opportunity,
				Volunteer:    a.Volunteer,
				Organization: a.Organization,
				Score:        e.Score,
				Feedback:     e.Feedback,
				Date:         a.UpdatedAt,
				Type:         "Organization to Volunteer",
			})
		}
		if e := a.Rating.OrganizationRating; e != nil {
			all = append(all, ratingView{
				Opportunity:  a.Opportunity,
				Volunteer:    a.Volunteer,
				Organization: a.Organization,
				Score:        e.Score,
				Feedback:     e.Feedback,
				Date:         a.UpdatedAt,
				Type:         "Volunteer to Organization",
			})
		}
	}

	respond.List(w, all, len(all))
}
