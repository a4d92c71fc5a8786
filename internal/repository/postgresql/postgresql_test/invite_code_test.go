package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteCodeRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pos, err := postgresql.NewPositionRepository(db).Create(ctx, position.Position{Name: "Designer"})
	require.NoError(t, err)

	repo := postgresql.NewInviteCodeRepository(db)

	code, err := repo.Create(ctx, invitecode.InviteCode{Code: "2026-ABCDEFGH", PositionID: pos.ID})
	require.NoError(t, err)
	assert.Equal(t, invitecode.StatusActive, code.Status)
	assert.Equal(t, "Designer", *code.PositionName)

	_, err = repo.Create(ctx, invitecode.InviteCode{Code: "2026-ABCDEFGH", PositionID: pos.ID})
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeExists)

	redeemed, err := repo.Redeem(ctx, "2026-ABCDEFGH")
	require.NoError(t, err)
	assert.Equal(t, invitecode.StatusUsed, redeemed.Status)

	_, err = repo.Redeem(ctx, "2026-ABCDEFGH")
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeNotFound)

	_, err = repo.GetActiveByCode(ctx, "2026-ABCDEFGH")
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeNotFound)

	_, err = repo.UpdateStatus(ctx, code.ID, invitecode.StatusRevoked)
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeTransition)
}

func TestInviteCodeRepository_Report(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pos, err := postgresql.NewPositionRepository(db).Create(ctx, position.Position{Name: "QA"})
	require.NoError(t, err)

	repo := postgresql.NewInviteCodeRepository(db)
	_, err = repo.Create(ctx, invitecode.InviteCode{Code: "2026-USEDCODE", PositionID: pos.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, invitecode.InviteCode{Code: "2026-OPENCODE", PositionID: pos.ID})
	require.NoError(t, err)

	_, err = repo.Redeem(ctx, "2026-USEDCODE")
	require.NoError(t, err)
	_, err = postgresql.NewAccountRepository(db).Create(ctx, account.Account{
		Email:      "qa@example.com",
		Role:       "employee",
		Status:     account.StatusPending,
		InviteCode: ptr("2026-USEDCODE"),
		Profile:    account.Profile{FullName: "Quinn", PositionID: &pos.ID},
	})
	require.NoError(t, err)

	used := invitecode.StatusUsed
	rows, total, err := repo.Report(ctx, invitecode.ListFilter{
		Status: &used,
		Params: pagination.Params{Page: 1, Limit: 10, NeedPagination: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AccountEmail)
	assert.Equal(t, "qa@example.com", *rows[0].AccountEmail)

	rows, total, err = repo.Report(ctx, invitecode.ListFilter{Params: pagination.Params{NeedPagination: false}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)
}

func TestRoleRepository_Privileges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewRoleRepository(db)

	created, err := repo.Create(ctx, role.Role{
		Name:       "recruiter",
		Privileges: privilege.Map{privilege.KeyInviteCodes: {privilege.ActionCreate: true}},
	})
	require.NoError(t, err)
	assert.True(t, created.Privileges.Allows(privilege.KeyInviteCodes, privilege.ActionCreate))

	require.NoError(t, repo.Update(ctx, role.UpdateRoleRequest{
		ID:         created.ID,
		Privileges: privilege.Map{privilege.KeyAccounts: {privilege.ActionRead: true}},
	}))

	got, err := repo.GetByName(ctx, "recruiter")
	require.NoError(t, err)
	assert.False(t, got.Privileges.Has(privilege.KeyInviteCodes))
	assert.True(t, got.Privileges.Allows(privilege.KeyAccounts, privilege.ActionRead))

	admin, err := repo.GetByName(ctx, role.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.Privileges.Allows(privilege.KeyDepartments, privilege.ActionDelete))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}
