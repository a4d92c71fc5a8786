package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type inviteCodeRepositoryImpl struct {
	db *database.DB
}

func NewInviteCodeRepository(db *database.DB) invitecode.InviteCodeRepository {
	return &inviteCodeRepositoryImpl{db: db}
}

const inviteCodeSelect = `
	SELECT ic.id, ic.code, ic.position_id, ic.status, ic.created_by, ic.created_at, ic.updated_at,
		p.name AS position_name
	FROM invite_codes ic
	LEFT JOIN positions p ON ic.position_id = p.id`

func scanInviteCode(row pgx.Row) (invitecode.InviteCode, error) {
	var c invitecode.InviteCode
	err := row.Scan(&c.ID, &c.Code, &c.PositionID, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.PositionName)
	return c, err
}

// Create implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) Create(ctx context.Context, c invitecode.InviteCode) (invitecode.InviteCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invite_codes (code, position_id, status, created_by, created_at, updated_at)
		VALUES ($1, $2, 'active', $3, NOW(), NOW())
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, c.Code, c.PositionID, c.CreatedBy).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return invitecode.InviteCode{}, invitecode.ErrInviteCodeExists
		}
		return invitecode.InviteCode{}, fmt.Errorf("failed to create invite code: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) GetByID(ctx context.Context, id string) (invitecode.InviteCode, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanInviteCode(q.QueryRow(ctx, inviteCodeSelect+` WHERE ic.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitecode.InviteCode{}, invitecode.ErrInviteCodeNotFound
		}
		return invitecode.InviteCode{}, fmt.Errorf("failed to get invite code: %w", err)
	}
	return c, nil
}

// GetActiveByCode implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) GetActiveByCode(ctx context.Context, code string) (invitecode.InviteCode, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanInviteCode(q.QueryRow(ctx, inviteCodeSelect+` WHERE ic.code = $1 AND ic.status = 'active'`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitecode.InviteCode{}, invitecode.ErrInviteCodeNotFound
		}
		return invitecode.InviteCode{}, fmt.Errorf("failed to get invite code by code: %w", err)
	}
	return c, nil
}

// Redeem implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) Redeem(ctx context.Context, code string) (invitecode.InviteCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invite_codes
		SET status = 'used', updated_at = NOW()
		WHERE code = $1 AND status = 'active'
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitecode.InviteCode{}, invitecode.ErrInviteCodeNotFound
		}
		return invitecode.InviteCode{}, fmt.Errorf("failed to redeem invite code: %w", err)
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) UpdateStatus(ctx context.Context, id string, status invitecode.Status) (invitecode.InviteCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invite_codes
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'active'
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, status, id).Scan(&updatedID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return invitecode.InviteCode{}, fmt.Errorf("failed to update invite code status: %w", err)
		}
		// Either missing or already terminal
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return invitecode.InviteCode{}, getErr
		}
		return invitecode.InviteCode{}, invitecode.ErrInviteCodeTransition
	}

	return r.GetByID(ctx, updatedID)
}

// Report implements invitecode.InviteCodeRepository.
func (r *inviteCodeRepositoryImpl) Report(ctx context.Context, filter invitecode.ListFilter) ([]invitecode.ReportRow, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("ic.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PositionID != nil {
		conditions = append(conditions, fmt.Sprintf("ic.position_id = $%d", argIdx))
		args = append(args, *filter.PositionID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invite_codes ic WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invite codes: %w", err)
	}

	page, pageArgs := limitOffset(filter.Params, argIdx)
	args = append(args, pageArgs...)

	query := fmt.Sprintf(`
		SELECT ic.id, ic.code, ic.position_id, ic.status, ic.created_by, ic.created_at, ic.updated_at,
			p.name AS position_name,
			a.id, a.email, a.full_name, a.status
		FROM invite_codes ic
		LEFT JOIN positions p ON ic.position_id = p.id
		LEFT JOIN accounts a ON a.invite_code = ic.code
		WHERE %s
		ORDER BY ic.created_at DESC
		%s
	`, whereClause, page)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to report invite codes: %w", err)
	}
	defer rows.Close()

	var report []invitecode.ReportRow
	for rows.Next() {
		var row invitecode.ReportRow
		err := rows.Scan(
			&row.ID, &row.Code, &row.PositionID, &row.Status, &row.CreatedBy, &row.CreatedAt, &row.UpdatedAt,
			&row.PositionName,
			&row.AccountID, &row.AccountEmail, &row.AccountFullName, &row.AccountStatus,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invite code report: %w", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return report, total, nil
}
