package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/technology"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type technologyRepositoryImpl struct {
	db *database.DB
}

func NewTechnologyRepository(db *database.DB) technology.TechnologyRepository {
	return &technologyRepositoryImpl{db: db}
}

const technologyColumns = `id, name, icon_path, status, created_at, updated_at`

func scanTechnology(row pgx.Row) (technology.Technology, error) {
	var t technology.Technology
	err := row.Scan(&t.ID, &t.Name, &t.IconPath, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create implements technology.TechnologyRepository.
func (r *technologyRepositoryImpl) Create(ctx context.Context, t technology.Technology) (technology.Technology, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO technologies (name, icon_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + technologyColumns

	status := t.Status
	if status == "" {
		status = technology.StatusActive
	}

	result, err := scanTechnology(q.QueryRow(ctx, query, t.Name, t.IconPath, status))
	if err != nil {
		return technology.Technology{}, fmt.Errorf("failed to create technology: %w", err)
	}
	return result, nil
}

// GetByID implements technology.TechnologyRepository.
func (r *technologyRepositoryImpl) GetByID(ctx context.Context, id string) (technology.Technology, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanTechnology(q.QueryRow(ctx, `SELECT `+technologyColumns+` FROM technologies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return technology.Technology{}, technology.ErrTechnologyNotFound
		}
		return technology.Technology{}, fmt.Errorf("failed to get technology: %w", err)
	}
	return result, nil
}

// List implements technology.TechnologyRepository.
func (r *technologyRepositoryImpl) List(ctx context.Context, filter technology.ListFilter) ([]technology.Technology, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []interface{}{}
	if filter.Status != nil {
		where = "status = $1"
		args = append(args, *filter.Status)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM technologies WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count technologies: %w", err)
	}

	page, pageArgs := limitOffset(filter.Params, len(args)+1)
	args = append(args, pageArgs...)
	query := fmt.Sprintf(`SELECT %s FROM technologies WHERE %s ORDER BY name ASC %s`, technologyColumns, where, page)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list technologies: %w", err)
	}
	defer rows.Close()

	var technologies []technology.Technology
	for rows.Next() {
		t, err := scanTechnology(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan technology: %w", err)
		}
		technologies = append(technologies, t)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return technologies, total, nil
}

// Update implements technology.TechnologyRepository.
func (r *technologyRepositoryImpl) Update(ctx context.Context, req technology.UpdateTechnologyRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE technologies
		SET name = COALESCE($1, name),
			icon_path = COALESCE($2, icon_path),
			status = COALESCE($3, status),
			updated_at = NOW()
		WHERE id = $4
	`

	commandTag, err := q.Exec(ctx, query, req.Name, req.IconPath, req.Status, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update technology: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return technology.ErrTechnologyNotFound
	}
	return nil
}
