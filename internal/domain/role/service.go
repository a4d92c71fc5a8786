package role

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
)

type RoleService interface {
	Create(ctx context.Context, req CreateRoleRequest) (RoleResponse, error)
	List(ctx context.Context) ([]RoleResponse, error)
	Get(ctx context.Context, id string) (RoleResponse, error)
	Update(ctx context.Context, req UpdateRoleRequest) (RoleResponse, error)
	Delete(ctx context.Context, id string) error
}

// Resolver loads the privilege map of a role by name
type Resolver interface {
	Resolve(ctx context.Context, roleName string) (privilege.Map, error)
}
