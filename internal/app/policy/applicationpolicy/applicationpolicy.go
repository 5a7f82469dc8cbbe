// internal/app/policy/applicationpolicy.go
package applicationpolicy

import (
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/domain/models"
)

// CanView reports whether the request user may read the application: the
// applying volunteer, the receiving organization, or an admin.
func CanView(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleVolunteer:
		return uid == a.VolunteerID
	case models.RoleOrganization:
		return uid == a.OrganizationID
	}
	return false
}

// CanDecide reports whether the request user may accept, reject, or complete
// the application. The receiving organization or an admin.
func CanDecide(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleOrganization && uid == a.OrganizationID
}

// CanWithdraw reports whether the request user may withdraw the application.
// Only the applying volunteer, and only while it is still pending.
func CanWithdraw(r *http.Request, a models.Application) bool {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return authz.IsVolunteer(r) && uid == a.VolunteerID && a.CanWithdraw()
}

// CanDelete reports whether the request user may hard-delete the
// application: the owning volunteer while pending, or an admin at any time.
func CanDelete(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleVolunteer && uid == a.VolunteerID && a.CanDelete()
}

// CanRateVolunteer reports whether the request user may rate the volunteer on
// this application: the receiving organization, once the work is completed.
func CanRateVolunteer(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleOrganization && uid == a.OrganizationID && a.CanRate()
}

// CanRateOrganization reports whether the request user may rate the
// organization on this application: the applying volunteer, once completed.
func CanRateOrganization(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleVolunteer && uid == a.VolunteerID && a.CanRate()
}

// CanSetCommunication reports whether the request user may change the
// application's communication preference: either party to the application.
func CanSetCommunication(r *http.Request, a models.Application) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleVolunteer:
		return uid == a.VolunteerID
	case models.RoleOrganization:
		return uid == a.OrganizationID
	}
	return false
}
