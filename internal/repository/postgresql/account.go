package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) account.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

const accountColumns = `
	a.id, a.email, a.phone, a.password_hash, a.role, a.status, a.invite_code, a.google_id,
	a.full_name, a.department_id, a.position_id, a.salary, a.avatar_path,
	a.created_at, a.updated_at,
	d.name AS department_name,
	p.name AS position_name`

const accountJoins = `
	FROM accounts a
	LEFT JOIN departments d ON a.department_id = d.id
	LEFT JOIN positions p ON a.position_id = p.id`

func scanAccount(row pgx.Row) (account.Account, error) {
	var a account.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Phone, &a.PasswordHash, &a.Role, &a.Status, &a.InviteCode, &a.GoogleID,
		&a.Profile.FullName, &a.Profile.DepartmentID, &a.Profile.PositionID, &a.Profile.Salary, &a.Profile.AvatarPath,
		&a.CreatedAt, &a.UpdatedAt,
		&a.Profile.DepartmentName, &a.Profile.PositionName,
	)
	return a, err
}

// Create implements account.AccountRepository.
func (r *accountRepositoryImpl) Create(ctx context.Context, newAccount account.Account) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accounts (
			email, phone, password_hash, role, status, invite_code, google_id,
			full_name, department_id, position_id, salary, avatar_path, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newAccount.Email,
		newAccount.Phone,
		newAccount.PasswordHash,
		newAccount.Role,
		newAccount.Status,
		newAccount.InviteCode,
		newAccount.GoogleID,
		newAccount.Profile.FullName,
		newAccount.Profile.DepartmentID,
		newAccount.Profile.PositionID,
		newAccount.Profile.Salary,
		newAccount.Profile.AvatarPath,
	).Scan(&id)
	if err != nil {
		return account.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByID(ctx context.Context, id string) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + accountColumns + accountJoins + " WHERE a.id = $1"

	a, err := scanAccount(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return a, nil
}

// GetByEmail implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + accountColumns + accountJoins + " WHERE a.email = $1"

	a, err := scanAccount(q.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return a, nil
}

// List implements account.AccountRepository.
func (r *accountRepositoryImpl) List(ctx context.Context, filter account.ListFilter) ([]account.Account, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE conditions
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("a.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.PositionID != nil {
		conditions = append(conditions, fmt.Sprintf("a.position_id = $%d", argIdx))
		args = append(args, *filter.PositionID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(a.full_name ILIKE $%d OR a.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM accounts a WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	page, pageArgs := limitOffset(filter.Params, argIdx)
	args = append(args, pageArgs...)

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY a.created_at DESC %s",
		accountColumns, accountJoins, whereClause, page)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateProfile implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateProfile(ctx context.Context, req account.UpdateProfileRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE accounts
		SET full_name = COALESCE($1, full_name),
			phone = COALESCE($2, phone),
			department_id = COALESCE($3, department_id),
			position_id = COALESCE($4, position_id),
			salary = COALESCE($5, salary),
			updated_at = NOW()
		WHERE id = $6
	`

	commandTag, err := q.Exec(ctx, query, req.FullName, req.Phone, req.DepartmentID, req.PositionID, req.Salary, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update account profile: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// UpdateRole implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateRole(ctx context.Context, id, role string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE accounts SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update account role: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// UpdateStatus implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to account.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE accounts SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	commandTag, err := q.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return account.ErrAccountNotFound
		}
		return account.ErrStatusTransition
	}
	return nil
}

// SetPassword implements account.AccountRepository.
func (r *accountRepositoryImpl) SetPassword(ctx context.Context, id, passwordHash string, status account.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE accounts SET password_hash = $1, status = $2, updated_at = NOW() WHERE id = $3`

	commandTag, err := q.Exec(ctx, query, passwordHash, status, id)
	if err != nil {
		return fmt.Errorf("failed to set account password: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// UpdateAvatar implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateAvatar(ctx context.Context, id, avatarPath string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE accounts SET avatar_path = $1, updated_at = NOW() WHERE id = $2`, avatarPath, id)
	if err != nil {
		return fmt.Errorf("failed to update account avatar: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// LinkGoogleID implements account.AccountRepository.
func (r *accountRepositoryImpl) LinkGoogleID(ctx context.Context, id, googleID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE accounts SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, id)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}
