package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

const positionSelect = `
	SELECT p.id, p.name, p.department_id, p.created_at, p.updated_at, d.name AS department_name
	FROM positions p
	LEFT JOIN departments d ON p.department_id = d.id`

func scanPosition(row pgx.Row) (position.Position, error) {
	var p position.Position
	err := row.Scan(&p.ID, &p.Name, &p.DepartmentID, &p.CreatedAt, &p.UpdatedAt, &p.DepartmentName)
	return p, err
}

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO positions (name, department_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, p.Name, p.DepartmentID).Scan(&id); err != nil {
		return position.Position{}, fmt.Errorf("failed to create position: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanPosition(q.QueryRow(ctx, positionSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return result, nil
}

// List implements position.PositionRepository.
func (r *positionRepositoryImpl) List(ctx context.Context, departmentID *string, params pagination.Params) ([]position.Position, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []interface{}{}
	if departmentID != nil {
		where = "p.department_id = $1"
		args = append(args, *departmentID)
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM positions p WHERE %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count positions: %w", err)
	}

	page, pageArgs := limitOffset(params, len(args)+1)
	args = append(args, pageArgs...)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.name ASC %s`, positionSelect, where, page)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return positions, total, nil
}

// Update implements position.PositionRepository.
func (r *positionRepositoryImpl) Update(ctx context.Context, req position.UpdatePositionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE positions
		SET name = COALESCE($1, name),
			department_id = COALESCE($2, department_id),
			updated_at = NOW()
		WHERE id = $3
	`

	commandTag, err := q.Exec(ctx, query, req.Name, req.DepartmentID, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}

	return nil
}

// Delete implements position.PositionRepository.
func (r *positionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM positions WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}

	return nil
}
