// internal/app/features/users/admin.go
package users

import (
	"context"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET /api/users: every account, optionally filtered by
// role. Admin only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Admin access required"))
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Users.List(ctx, query.Get(r, "role"), page)
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

// ServeUser handles GET /api/users/{id}. Admin only.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Admin access required"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.InvalidID, "Invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "User not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, user)
}

// HandleDelete handles DELETE /api/users/{id}. Admin only. The account's
// dependent documents go with it: a volunteer's applications, an
// organization's opportunities.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Admin access required"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.InvalidID, "Invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "User not found"))
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	switch user.Role {
	case models.RoleVolunteer:
		if _, err := h.Apps.DeleteByVolunteer(ctx, id); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	case models.RoleOrganization:
		if _, err := h.Opps.DeleteByOrganization(ctx, id); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	}

	if _, err := h.Users.Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, "User deleted")
}
