package department

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
)

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context, params pagination.Params) ([]Department, int64, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) error
	Delete(ctx context.Context, id string) error
}
