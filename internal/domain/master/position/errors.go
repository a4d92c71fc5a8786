package position

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrPositionNotFound   = apperror.Wrap(apperror.ErrEntityNotFound, "position not found")
	ErrPositionNameExists = apperror.Wrap(apperror.ErrDuplicateName, "position with this name already exists")
	ErrPositionInUse      = apperror.Wrap(apperror.ErrEntityInUse, "position is referenced by invite codes or accounts")
	ErrDepartmentNotFound = apperror.Wrap(apperror.ErrEntityNotFound, "department not found")
)
