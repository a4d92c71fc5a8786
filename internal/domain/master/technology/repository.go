package technology

import "context"

type TechnologyRepository interface {
	Create(ctx context.Context, t Technology) (Technology, error)
	GetByID(ctx context.Context, id string) (Technology, error)
	List(ctx context.Context, filter ListFilter) ([]Technology, int64, error)
	Update(ctx context.Context, req UpdateTechnologyRequest) error
}
