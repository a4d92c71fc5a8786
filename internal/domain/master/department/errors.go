package department

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrDepartmentNotFound   = apperror.Wrap(apperror.ErrEntityNotFound, "department not found")
	ErrDepartmentNameExists = apperror.Wrap(apperror.ErrDuplicateName, "department with this name already exists")
	ErrDepartmentInUse      = apperror.Wrap(apperror.ErrEntityInUse, "department is referenced by positions or accounts")
)
