// internal/app/features/users/stats.go
package users

import (
	"context"
	"net/http"
	"sort"

	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
)

// statsWindow caps how many completed applications feed the hours and
// category aggregates.
const statsWindow = 500

type volunteerStats struct {
	CompletedCount int64    `json:"completedCount"`
	UpcomingCount  int64    `json:"upcomingCount"`
	TotalHours     int      `json:"totalHours"`
	TopCategories  []string `json:"topCategories"`
	AverageRating  float64  `json:"averageRating"`
	ReviewCount    int64    `json:"reviewCount"`
}

// ServeVolunteerStats handles GET /api/users/volunteer-stats: the signed-in
// volunteer's completed work, upcoming commitments, weekly hours across
// completed opportunities, favorite categories, and review average.
func (h *Handler) ServeVolunteerStats(w http.ResponseWriter, r *http.Request) {
	if !authz.IsVolunteer(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only volunteers have stats"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats := volunteerStats{TopCategories: []string{}}

	var err error
	stats.CompletedCount, err = h.Apps.CountByVolunteerAndStatus(ctx, uid, models.ApplicationCompleted)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	stats.UpcomingCount, err = h.Apps.CountByVolunteerAndStatus(ctx, uid, models.ApplicationAccepted)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	completed, _, err := h.Apps.List(ctx, applicationstore.ListFilter{
		VolunteerID: uid,
		Status:      models.ApplicationCompleted,
	}, paging.Page{Number: 1, Limit: statsWindow, SortBy: "created_at", SortOrder: -1})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	byCategory := map[string]int{}
	for _, a := range completed {
		if a.Opportunity == nil {
			continue
		}
		stats.TotalHours += a.Opportunity.Schedule.TimeCommitment.HoursPerWeek
		if a.Opportunity.Category != "" {
			byCategory[a.Opportunity.Category]++
		}
	}
	stats.TopCategories = topCategories(byCategory, 3)

	stats.AverageRating, stats.ReviewCount, err = h.Reviews.AverageForVolunteer(ctx, uid)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.OK(w, stats)
}

// topCategories returns the n most frequent categories, ties broken
// alphabetically so the result is stable.
func topCategories(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
