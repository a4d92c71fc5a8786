package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepositoryImpl{db: db}
}

const roleColumns = `id, name, description, privileges, created_at, updated_at`

func scanRole(row pgx.Row) (role.Role, error) {
	var (
		r   role.Role
		raw []byte
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &raw, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return role.Role{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &r.Privileges); err != nil {
			return role.Role{}, fmt.Errorf("failed to decode privileges of role %s: %w", r.Name, err)
		}
	}
	return r, nil
}

func encodePrivileges(m privilege.Map) (*string, error) {
	if m == nil {
		return nil, nil
	}
	s, err := privilege.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode privileges: %w", err)
	}
	return &s, nil
}

// Create implements role.RoleRepository.
func (r *roleRepositoryImpl) Create(ctx context.Context, newRole role.Role) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	privileges, err := encodePrivileges(newRole.Privileges)
	if err != nil {
		return role.Role{}, err
	}

	query := `
		INSERT INTO roles (name, description, privileges, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3::jsonb, '{}'::jsonb), NOW(), NOW())
		RETURNING ` + roleColumns

	result, err := scanRole(q.QueryRow(ctx, query, newRole.Name, newRole.Description, privileges))
	if err != nil {
		return role.Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return result, nil
}

// GetByID implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByID(ctx context.Context, id string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return result, nil
}

// GetByName implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByName(ctx context.Context, name string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role by name: %w", err)
	}
	return result, nil
}

// List implements role.RoleRepository.
func (r *roleRepositoryImpl) List(ctx context.Context) ([]role.Role, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []role.Role
	for rows.Next() {
		result, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return roles, nil
}

// Update implements role.RoleRepository.
func (r *roleRepositoryImpl) Update(ctx context.Context, req role.UpdateRoleRequest) error {
	q := GetQuerier(ctx, r.db)

	privileges, err := encodePrivileges(req.Privileges)
	if err != nil {
		return err
	}

	query := `
		UPDATE roles
		SET description = COALESCE($1, description),
			privileges = COALESCE($2::jsonb, privileges),
			updated_at = NOW()
		WHERE id = $3
	`

	commandTag, err := q.Exec(ctx, query, req.Description, privileges, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// Delete implements role.RoleRepository.
func (r *roleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}
