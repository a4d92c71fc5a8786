package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/technology"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5/pgconn"
)

type MasterService interface {
	// Department operations
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context, params pagination.Params) (pagination.Result[department.DepartmentResponse], error)
	UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error

	// Position operations
	CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error)
	GetPosition(ctx context.Context, id string) (position.PositionResponse, error)
	ListPositions(ctx context.Context, departmentID *string, params pagination.Params) (pagination.Result[position.PositionResponse], error)
	UpdatePosition(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error)
	DeletePosition(ctx context.Context, id string) error

	// Technology operations
	CreateTechnology(ctx context.Context, req technology.CreateTechnologyRequest) (technology.TechnologyResponse, error)
	GetTechnology(ctx context.Context, id string) (technology.TechnologyResponse, error)
	ListTechnologies(ctx context.Context, filter technology.ListFilter) (pagination.Result[technology.TechnologyResponse], error)
	UpdateTechnology(ctx context.Context, req technology.UpdateTechnologyRequest) (technology.TechnologyResponse, error)
	ArchiveTechnology(ctx context.Context, id string) (technology.TechnologyResponse, error)
}

type masterServiceImpl struct {
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	technologyRepo technology.TechnologyRepository
}

func NewMasterService(
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	technologyRepo technology.TechnologyRepository,
) MasterService {
	return &masterServiceImpl{
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		technologyRepo: technologyRepo,
	}
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				return department.DepartmentResponse{}, department.ErrDepartmentNameExists
			}
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return department.ToResponse(created), nil
}

func (s *masterServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	entity, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(entity), nil
}

func (s *masterServiceImpl) ListDepartments(ctx context.Context, params pagination.Params) (pagination.Result[department.DepartmentResponse], error) {
	departments, total, err := s.departmentRepo.List(ctx, params)
	if err != nil {
		return pagination.Result[department.DepartmentResponse]{}, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.ToResponse(d))
	}
	return pagination.Result[department.DepartmentResponse]{Items: responses, TotalItems: total}, nil
}

func (s *masterServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	if err := s.departmentRepo.Update(ctx, req); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return department.DepartmentResponse{}, department.ErrDepartmentNameExists
			}
		}
		return department.DepartmentResponse{}, err
	}

	return s.GetDepartment(ctx, req.ID)
}

func (s *masterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503": // foreign_key_violation
				return department.ErrDepartmentInUse
			}
		}
		return err
	}
	return nil
}

// ==================== POSITION OPERATIONS ====================

func (s *masterServiceImpl) CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	created, err := s.positionRepo.Create(ctx, position.Position{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return position.PositionResponse{}, position.ErrPositionNameExists
			case "23503":
				return position.PositionResponse{}, position.ErrDepartmentNotFound
			}
		}
		return position.PositionResponse{}, fmt.Errorf("failed to create position: %w", err)
	}

	return position.ToResponse(created), nil
}

func (s *masterServiceImpl) GetPosition(ctx context.Context, id string) (position.PositionResponse, error) {
	entity, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.ToResponse(entity), nil
}

func (s *masterServiceImpl) ListPositions(ctx context.Context, departmentID *string, params pagination.Params) (pagination.Result[position.PositionResponse], error) {
	positions, total, err := s.positionRepo.List(ctx, departmentID, params)
	if err != nil {
		return pagination.Result[position.PositionResponse]{}, err
	}

	responses := make([]position.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, position.ToResponse(p))
	}
	return pagination.Result[position.PositionResponse]{Items: responses, TotalItems: total}, nil
}

func (s *masterServiceImpl) UpdatePosition(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	if err := s.positionRepo.Update(ctx, req); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return position.PositionResponse{}, position.ErrPositionNameExists
			case "23503":
				return position.PositionResponse{}, position.ErrDepartmentNotFound
			}
		}
		return position.PositionResponse{}, err
	}

	return s.GetPosition(ctx, req.ID)
}

func (s *masterServiceImpl) DeletePosition(ctx context.Context, id string) error {
	if err := s.positionRepo.Delete(ctx, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return position.ErrPositionInUse
			}
		}
		return err
	}
	return nil
}

// ==================== TECHNOLOGY OPERATIONS ====================

func (s *masterServiceImpl) CreateTechnology(ctx context.Context, req technology.CreateTechnologyRequest) (technology.TechnologyResponse, error) {
	if err := req.Validate(); err != nil {
		return technology.TechnologyResponse{}, err
	}

	created, err := s.technologyRepo.Create(ctx, technology.Technology{
		Name:     req.Name,
		IconPath: req.IconPath,
		Status:   technology.StatusActive,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return technology.TechnologyResponse{}, technology.ErrTechnologyNameExists
			}
		}
		return technology.TechnologyResponse{}, fmt.Errorf("failed to create technology: %w", err)
	}

	return technology.ToResponse(created), nil
}

func (s *masterServiceImpl) GetTechnology(ctx context.Context, id string) (technology.TechnologyResponse, error) {
	entity, err := s.technologyRepo.GetByID(ctx, id)
	if err != nil {
		return technology.TechnologyResponse{}, err
	}
	return technology.ToResponse(entity), nil
}

func (s *masterServiceImpl) ListTechnologies(ctx context.Context, filter technology.ListFilter) (pagination.Result[technology.TechnologyResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Result[technology.TechnologyResponse]{}, err
	}

	technologies, total, err := s.technologyRepo.List(ctx, filter)
	if err != nil {
		return pagination.Result[technology.TechnologyResponse]{}, err
	}

	responses := make([]technology.TechnologyResponse, 0, len(technologies))
	for _, t := range technologies {
		responses = append(responses, technology.ToResponse(t))
	}
	return pagination.Result[technology.TechnologyResponse]{Items: responses, TotalItems: total}, nil
}

func (s *masterServiceImpl) UpdateTechnology(ctx context.Context, req technology.UpdateTechnologyRequest) (technology.TechnologyResponse, error) {
	if err := req.Validate(); err != nil {
		return technology.TechnologyResponse{}, err
	}

	if err := s.technologyRepo.Update(ctx, req); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return technology.TechnologyResponse{}, technology.ErrTechnologyNameExists
			}
		}
		return technology.TechnologyResponse{}, err
	}

	return s.GetTechnology(ctx, req.ID)
}

// ArchiveTechnology hides a technology from the public listing; technologies are never deleted
func (s *masterServiceImpl) ArchiveTechnology(ctx context.Context, id string) (technology.TechnologyResponse, error) {
	archived := technology.StatusArchived
	return s.UpdateTechnology(ctx, technology.UpdateTechnologyRequest{ID: id, Status: &archived})
}
