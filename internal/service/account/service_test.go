package account

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/storage"
	redisrepo "github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/redis"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	account.AccountRepository
	items     map[string]account.Account
	createErr error
}

func (f *fakeAccountRepo) Create(_ context.Context, a account.Account) (account.Account, error) {
	if f.createErr != nil {
		return account.Account{}, f.createErr
	}
	a.ID = uuid.NewString()
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := f.items[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, req account.UpdateProfileRequest) error {
	a, ok := f.items[req.ID]
	if !ok {
		return account.ErrAccountNotFound
	}
	if req.FullName != nil {
		a.Profile.FullName = *req.FullName
	}
	if req.Phone != nil {
		a.Phone = req.Phone
	}
	f.items[req.ID] = a
	return nil
}

func (f *fakeAccountRepo) UpdateRole(_ context.Context, id, r string) error {
	a := f.items[id]
	a.Role = r
	f.items[id] = a
	return nil
}

func (f *fakeAccountRepo) UpdateStatus(_ context.Context, id string, from, to account.Status) error {
	a, ok := f.items[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	if a.Status != from {
		return account.ErrStatusTransition
	}
	a.Status = to
	f.items[id] = a
	return nil
}

func (f *fakeAccountRepo) UpdateAvatar(_ context.Context, id, path string) error {
	a := f.items[id]
	a.Profile.AvatarPath = &path
	f.items[id] = a
	return nil
}

type fakeRoleRepo struct {
	role.RoleRepository
}

func (fakeRoleRepo) GetByName(_ context.Context, name string) (role.Role, error) {
	switch name {
	case role.RoleAdmin, role.RoleEmployee:
		return role.Role{ID: name, Name: name}, nil
	}
	return role.Role{}, role.ErrRoleNotFound
}

type fixture struct {
	svc     *AccountServiceImpl
	repo    *fakeAccountRepo
	store   session.Store
	storage *storage.LocalStorage
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	repo := &fakeAccountRepo{items: map[string]account.Account{}}
	store := redisrepo.NewSessionStore(client)
	svc := NewAccountService(repo, fakeRoleRepo{}, store, file.NewFileService(local, 1<<20))
	return fixture{svc: svc, repo: repo, store: store, storage: local}
}

func validCreateRequest() account.CreateAccountRequest {
	return account.CreateAccountRequest{
		Email:    " Admin@Example.com ",
		Password: "secret123",
		FullName: "Ada Admin",
		Role:     role.RoleAdmin,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.Equal(t, account.StatusActive, resp.Status)

	stored := f.repo.items[resp.ID]
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("secret123")))
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Role = "ghost"
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, account.ErrRoleNotFound)

	f.repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
	_, err = f.svc.Create(ctx, validCreateRequest())
	assert.ErrorIs(t, err, account.ErrEmailExists)

	f.repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_key"}
	_, err = f.svc.Create(ctx, validCreateRequest())
	assert.Equal(t, account.ErrPhoneExists, err)

	f.repo.createErr = &pgconn.PgError{Code: "23503", ConstraintName: "accounts_position_id_fkey"}
	_, err = f.svc.Create(ctx, validCreateRequest())
	assert.Equal(t, account.ErrPositionNotFound, err)
}

func TestDeactivateAndReactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, session.SessionKey(created.ID), "token", 0))
	require.NoError(t, f.store.Set(ctx, session.PrivilegeKey(created.ID), "{}", 0))

	_, err = f.svc.Deactivate(ctx, created.ID, created.ID)
	assert.ErrorIs(t, err, account.ErrCannotDeactivateSelf)

	resp, err := f.svc.Deactivate(ctx, "actor", created.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusDeactivated, resp.Status)

	_, err = f.store.Get(ctx, session.SessionKey(created.ID))
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = f.store.Get(ctx, session.PrivilegeKey(created.ID))
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = f.svc.Deactivate(ctx, "actor", created.ID)
	assert.ErrorIs(t, err, account.ErrStatusTransition)

	resp, err = f.svc.Reactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, resp.Status)
}

func TestUpdateMeAndChangeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	name := "Ada Lovelace"
	resp, err := f.svc.UpdateMe(ctx, created.ID, account.UpdateMeRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", resp.FullName)

	_, err = f.svc.UpdateMe(ctx, created.ID, account.UpdateMeRequest{})
	assert.Error(t, err)

	resp, err = f.svc.ChangeRole(ctx, account.ChangeRoleRequest{ID: created.ID, Role: role.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, role.RoleEmployee, resp.Role)

	_, err = f.svc.ChangeRole(ctx, account.ChangeRoleRequest{ID: created.ID, Role: "ghost"})
	assert.ErrorIs(t, err, account.ErrRoleNotFound)
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	img := buf.Bytes()

	first, err := f.svc.UploadAvatar(ctx, created.ID, bytes.NewReader(img), "me.png", int64(len(img)))
	require.NoError(t, err)
	require.NotNil(t, first.AvatarPath)

	second, err := f.svc.UploadAvatar(ctx, created.ID, bytes.NewReader(img), "me.png", int64(len(img)))
	require.NoError(t, err)
	assert.NotEqual(t, *first.AvatarPath, *second.AvatarPath)

	exists, err := f.storage.Exists(ctx, *first.AvatarPath)
	require.NoError(t, err)
	assert.False(t, exists)
}
