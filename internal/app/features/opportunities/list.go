// internal/app/features/opportunities/list.go
package opportunities

import (
	"context"
	"net/http"

	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /api/opportunities: the public browse listing.
// Accepts page/limit/sortBy/sortOrder plus category, city, state,
// locationType, urgency, skill, search, and status filters. Status defaults
// to active.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	filter := opportunitystore.ListFilter{
		Status:       models.OpportunityActive,
		Category:     query.Get(r, "category"),
		LocationType: query.Get(r, "locationType"),
		City:         query.Get(r, "city"),
		State:        query.Get(r, "state"),
		Urgency:      query.Get(r, "urgency"),
		Skill:        query.Get(r, "skill"),
		Search:       query.Get(r, "search"),
	}
	if s := query.Get(r, "status"); s != "" {
		filter.Status = s
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opps, total, err := h.Opps.List(ctx, filter, page)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Page(w, opps, respond.Pagination{
		Current: page.Number,
		Pages:   page.Pages(total),
		Total:   total,
		Limit:   page.Limit,
	})
}

// ServeMine handles GET /api/opportunities/my: the signed-in organization's
// own postings, all statuses.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	if !authz.IsOrganization(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only organizations have postings"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	page := paging.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opps, total, err := h.Opps.List(ctx, opportunitystore.ListFilter{OrganizationID: uid}, page)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Page(w, opps, respond.Pagination{
		Current: page.Number,
		Pages:   page.Pages(total),
		Total:   total,
		Limit:   page.Limit,
	})
}

// ServeByOrganization handles GET /api/opportunities/organization/{id}: a
// public view of one organization's active postings.
func (h *Handler) ServeByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.InvalidID, "Invalid organization id"))
		return
	}

	page := paging.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opps, total, err := h.Opps.List(ctx, opportunitystore.ListFilter{
		Status:         models.OpportunityActive,
		OrganizationID: orgID,
	}, page)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Page(w, opps, respond.Pagination{
		Current: page.Number,
		Pages:   page.Pages(total),
		Total:   total,
		Limit:   page.Limit,
	})
}
