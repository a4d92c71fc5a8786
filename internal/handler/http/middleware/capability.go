package middleware

import (
	"net/http"
	"slices"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
)

// Capability describes what a route needs. Roles and privileges are checked
// independently; an empty part is not checked.
type Capability struct {
	Roles         []string
	PrivilegeKeys []string
	Actions       []privilege.Action
}

// Require enforces c against the principal set by Authenticate
func (m *Middleware) Require(c Capability) func(http.Handler) http.Handler {
	requirement := privilege.Requirement{Keys: c.PrivilegeKeys, Actions: c.Actions}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				m.reject(w, "token_missing", auth.ErrAccessTokenMissing)
				return
			}

			if len(c.Roles) > 0 && !slices.Contains(c.Roles, principal.Role) {
				m.reject(w, "role_not_allowed", auth.ErrRoleNotAllowed)
				return
			}

			if len(c.PrivilegeKeys) > 0 && !requirement.Allows(principal.Privileges) {
				m.reject(w, "privilege_not_allowed", auth.ErrPrivilegeNotAllowed)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles allows only the listed roles
func (m *Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return m.Require(Capability{Roles: roles})
}

// RequirePrivilege requires any of keys to be present in the privilege map
func (m *Middleware) RequirePrivilege(keys ...string) func(http.Handler) http.Handler {
	return m.Require(Capability{PrivilegeKeys: keys})
}

// RequirePrivilegeActions requires any of keys to grant any of actions
func (m *Middleware) RequirePrivilegeActions(keys []string, actions ...privilege.Action) func(http.Handler) http.Handler {
	return m.Require(Capability{PrivilegeKeys: keys, Actions: actions})
}
