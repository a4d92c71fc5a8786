package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/jackc/pgx/v5/pgconn"
)

type RoleServiceImpl struct {
	roleRepo role.RoleRepository
}

func NewRoleService(roleRepo role.RoleRepository) *RoleServiceImpl {
	return &RoleServiceImpl{roleRepo: roleRepo}
}

// Create implements role.RoleService.
func (s *RoleServiceImpl) Create(ctx context.Context, req role.CreateRoleRequest) (role.RoleResponse, error) {
	if err := req.Validate(); err != nil {
		return role.RoleResponse{}, err
	}

	created, err := s.roleRepo.Create(ctx, role.Role{
		Name:        req.Name,
		Description: req.Description,
		Privileges:  req.Privileges,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return role.RoleResponse{}, role.ErrRoleNameExists
			}
		}
		return role.RoleResponse{}, fmt.Errorf("failed to create role: %w", err)
	}

	return role.ToResponse(created), nil
}

// List implements role.RoleService.
func (s *RoleServiceImpl) List(ctx context.Context) ([]role.RoleResponse, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]role.RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, role.ToResponse(r))
	}
	return responses, nil
}

// Get implements role.RoleService.
func (s *RoleServiceImpl) Get(ctx context.Context, id string) (role.RoleResponse, error) {
	r, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return role.RoleResponse{}, err
	}
	return role.ToResponse(r), nil
}

// Update implements role.RoleService. Sessions pick up the new privileges at their next login or refresh.
func (s *RoleServiceImpl) Update(ctx context.Context, req role.UpdateRoleRequest) (role.RoleResponse, error) {
	if err := req.Validate(); err != nil {
		return role.RoleResponse{}, err
	}

	if err := s.roleRepo.Update(ctx, req); err != nil {
		return role.RoleResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// Delete implements role.RoleService.
func (s *RoleServiceImpl) Delete(ctx context.Context, id string) error {
	r, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.IsBuiltIn() {
		return role.ErrRoleBuiltIn
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return role.ErrRoleInUse
			}
		}
		return err
	}
	return nil
}

// Resolve implements role.Resolver.
func (s *RoleServiceImpl) Resolve(ctx context.Context, roleName string) (privilege.Map, error) {
	r, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	return r.EffectivePrivileges(), nil
}
