package technology

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrTechnologyNotFound   = apperror.Wrap(apperror.ErrEntityNotFound, "technology not found")
	ErrTechnologyNameExists = apperror.Wrap(apperror.ErrDuplicateName, "technology with this name already exists")
)
