package position

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
)

type PositionRepository interface {
	Create(ctx context.Context, p Position) (Position, error)
	GetByID(ctx context.Context, id string) (Position, error)
	List(ctx context.Context, departmentID *string, params pagination.Params) ([]Position, int64, error)
	Update(ctx context.Context, req UpdatePositionRequest) error
	Delete(ctx context.Context, id string) error
}
