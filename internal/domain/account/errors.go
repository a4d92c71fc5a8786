package account

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrAccountNotFound      = apperror.ErrAccountNotFound
	ErrEmailExists          = apperror.ErrEmailExists
	ErrPhoneExists          = apperror.Wrap(apperror.ErrEmailExists, "phone is already registered")
	ErrStatusTransition     = apperror.Wrap(apperror.ErrStatusTransition, "account status transition not allowed")
	ErrRoleNotFound         = apperror.Wrap(apperror.ErrEntityNotFound, "role not found")
	ErrDepartmentNotFound   = apperror.Wrap(apperror.ErrEntityNotFound, "department not found")
	ErrPositionNotFound     = apperror.Wrap(apperror.ErrEntityNotFound, "position not found")
	ErrCannotDeactivateSelf = apperror.Wrap(apperror.ErrStatusTransition, "you cannot deactivate your own account")
)
