package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	deptRepo := postgresql.NewDepartmentRepository(db)
	posRepo := postgresql.NewPositionRepository(db)
	repo := postgresql.NewAccountRepository(db)

	dept, err := deptRepo.Create(ctx, department.Department{Name: "Engineering"})
	require.NoError(t, err)
	pos, err := posRepo.Create(ctx, position.Position{Name: "Backend Engineer", DepartmentID: &dept.ID})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", *pos.DepartmentName)

	created, err := repo.Create(ctx, account.Account{
		Email:  "jane@example.com",
		Phone:  ptr("+628123456789"),
		Role:   "employee",
		Status: account.StatusPending,
		Profile: account.Profile{
			FullName:     "Jane Doe",
			DepartmentID: &dept.ID,
			PositionID:   &pos.ID,
			Salary:       decimal.NewNullDecimal(decimal.RequireFromString("1500.50")),
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, account.StatusPending, created.Status)
	assert.Nil(t, created.PasswordHash)
	assert.Equal(t, "Backend Engineer", *created.Profile.PositionName)
	assert.True(t, created.Profile.Salary.Decimal.Equal(decimal.RequireFromString("1500.50")))

	byEmail, err := repo.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.Create(ctx, account.Account{Email: "jane@example.com", Role: "employee", Status: account.StatusPending, Profile: account.Profile{FullName: "Dup"}})
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}

func TestAccountRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAccountRepository(db)

	a, err := repo.Create(ctx, account.Account{Email: "john@example.com", Role: "employee", Status: account.StatusPending, Profile: account.Profile{FullName: "John"}})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, account.StatusPending, account.StatusVerified))

	err = repo.UpdateStatus(ctx, a.ID, account.StatusPending, account.StatusVerified)
	assert.ErrorIs(t, err, account.ErrStatusTransition)

	err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", account.StatusPending, account.StatusVerified)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	require.NoError(t, repo.SetPassword(ctx, a.ID, "hash", account.StatusActive))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, got.Status)
	assert.Equal(t, "hash", *got.PasswordHash)
}

func TestAccountRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAccountRepository(db)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := repo.Create(ctx, account.Account{
			Email:   name + "@example.com",
			Role:    "employee",
			Status:  account.StatusActive,
			Profile: account.Profile{FullName: name},
		})
		require.NoError(t, err)
	}

	status := account.StatusActive
	items, total, err := repo.List(ctx, account.ListFilter{
		Status: &status,
		Params: pagination.Params{Page: 1, Limit: 2, NeedPagination: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, account.ListFilter{
		Search: ptr("bo"),
		Params: pagination.Params{Page: 1, Limit: 1, NeedPagination: false},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Bob", items[0].Profile.FullName)
}

func TestDepartmentRepository_DeleteReferenced(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	deptRepo := postgresql.NewDepartmentRepository(db)
	posRepo := postgresql.NewPositionRepository(db)

	dept, err := deptRepo.Create(ctx, department.Department{Name: "Finance"})
	require.NoError(t, err)
	_, err = posRepo.Create(ctx, position.Position{Name: "Accountant", DepartmentID: &dept.ID})
	require.NoError(t, err)

	err = deptRepo.Delete(ctx, dept.ID)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23503", pgErr.Code)

	err = deptRepo.Delete(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
