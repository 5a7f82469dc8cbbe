// internal/app/features/opportunities/create.go
package opportunities

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/policy/opportunitypolicy"
	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/app/system/respond"
	"github.com/communityserve/volunteerhub/internal/app/system/timeouts"
	"github.com/communityserve/volunteerhub/internal/app/system/validate"
)

// HandleCreate handles POST /api/opportunities. Organization accounts only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !opportunitypolicy.CanCreate(r) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "Only organizations can post opportunities"))
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	var req opportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := req.checkCrossFields(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	opp := req.toModel()
	opp.OrganizationID = uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Opps.Create(ctx, opp)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, created)
}
