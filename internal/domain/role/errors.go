package role

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrRoleNotFound   = apperror.Wrap(apperror.ErrEntityNotFound, "role not found")
	ErrRoleNameExists = apperror.Wrap(apperror.ErrDuplicateName, "role with this name already exists")
	ErrRoleInUse      = apperror.Wrap(apperror.ErrEntityInUse, "role is assigned to accounts")
	ErrRoleBuiltIn    = apperror.Wrap(apperror.ErrEntityInUse, "built-in roles cannot be deleted")
)
