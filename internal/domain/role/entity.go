package role

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
)

// Built-in role names
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
)

// DefaultRole is assigned to accounts created through invite registration
const DefaultRole = RoleEmployee

type Role struct {
	ID          string
	Name        string
	Description string
	Privileges  privilege.Map
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsBuiltIn reports whether the role ships with the schema and cannot be deleted
func (r *Role) IsBuiltIn() bool {
	return r.Name == RoleSuperAdmin || r.Name == RoleAdmin || r.Name == RoleEmployee
}

// EffectivePrivileges is the map cached for a session; superadmin always holds every key
func (r *Role) EffectivePrivileges() privilege.Map {
	if r.Name == RoleSuperAdmin {
		return privilege.Full()
	}
	if r.Privileges == nil {
		return privilege.Map{}
	}
	return r.Privileges
}
