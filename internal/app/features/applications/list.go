// internal/app/features/applications/list.go
package applications

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
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeMine handles GET /api/applications/my: the caller's side of their
// applications, optionally filtered by status. Volunteers see the
// applications they filed; organizations see the ones filed against their
// postings.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)

	filter := applicationstore.ListFilter{Status: query.Get(r, "status")}
	switch role {
	case models.RoleVolunteer:
		filter.VolunteerID = uid
	case models.RoleOrganization:
		filter.OrganizationID = uid
	default:
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only volunteers and organizations have applications"))
		return
	}

	h.serveList(w, r, filter)
}

// ServeForOrganization handles GET /api/applications/organization: the
// signed-in organization's inbox across all of its postings, optionally
// narrowed by status or a single opportunity.
func (h *Handler) ServeForOrganization(w http.ResponseWriter, r *http.Request) {
	if !authz.IsOrganization(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only organizations receive applications"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	filter := applicationstore.ListFilter{
		OrganizationID: uid,
		Status:         query.Get(r, "status"),
	}
	if hex := query.Get(r, "opportunity"); hex != "" {
		oppID, err := parseID(hex, "opportunity")
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		filter.OpportunityID = oppID
	}

	h.serveList(w, r, filter)
}

// ServeAll handles GET /api/applications: every application on the platform.
// Admin only.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Admin access required"))
		return
	}

	h.serveList(w, r, applicationstore.ListFilter{
		Status: query.Get(r, "status"),
	})
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, filter applicationstore.ListFilter) {
	page := paging.ParseWithLimit(r, paging.ScopedLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, total, err := h.Apps.List(ctx, filter, page)
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
