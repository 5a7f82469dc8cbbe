// internal/app/features/reviews/list.go
package reviews

import (
	"context"
	"net/http"

	reviewstore "github.com/communityserve/volunteerhub/internal/app/store/reviews"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeMine handles GET /api/reviews/my-reviews: everything the signed-in
// organization has written, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	if !authz.IsOrganization(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only organizations write reviews"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	h.serveList(w, r, reviewstore.ListFilter{OrganizationID: uid})
}

// ServeByOpportunity handles GET /api/reviews/opportunity/{id}: every review
// written against one opportunity.
func (h *Handler) ServeByOpportunity(w http.ResponseWriter, r *http.Request) {
	oppID, err := parseID(chi.URLParam(r, "id"), "opportunity")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	h.serveList(w, r, reviewstore.ListFilter{OpportunityID: oppID})
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, filter reviewstore.ListFilter) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Reviews.List(ctx, filter, page)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Page(w, list, respond.Pagination{
		Current: page.Number,
		Pages:   page.Pages(total),
		Total:   total,
		Limit:   page.Limit,
	})
}
