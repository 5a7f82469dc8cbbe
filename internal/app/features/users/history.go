// internal/app/features/users/history.go
package users

import (
	"context"
	"net/http"

	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
)

// ServeVolunteerHistory handles GET /api/users/volunteer-history: the
// signed-in volunteer's completed applications, newest first.
func (h *Handler) ServeVolunteerHistory(w http.ResponseWriter, r *http.Request) {
	if !authz.IsVolunteer(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only volunteers have a history"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, total, err := h.Apps.List(ctx, applicationstore.ListFilter{
		VolunteerID: uid,
		Status:      models.ApplicationCompleted,
	}, page)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Page(w, apps, respond.Pagination{
		Current: page.Number,
		Pages:   page.Pages(total),
		Total:   total,
		Limit:   page.Limit,
	})
}
