// internal/app/policy/opportunitypolicy.go
package opportunitypolicy

import (
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/authz"
	"github.com/communityserve/volunteerhub/internal/domain/models"
)

// CanCreate reports whether the request user may post opportunities. Only
// organization accounts can; admins post through an organization account.
func CanCreate(r *http.Request) bool {
	return authz.IsOrganization(r)
}

// CanManage reports whether the request user may update or delete the
// opportunity. Only the posting organization itself qualifies; admins do not
// get a bypass here.
func CanManage(r *http.Request, o models.Opportunity) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleOrganization && uid == o.OrganizationID
}
