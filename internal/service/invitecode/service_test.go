package invitecode

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionID = "0192d4a4-7b4e-7c3a-9d2e-1f2a3b4c5d6e"

type fakeRepo struct {
	invitecode.InviteCodeRepository
	codes     map[string]invitecode.InviteCode // by id
	createErr error
	creates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{codes: map[string]invitecode.InviteCode{}}
}

func (f *fakeRepo) Create(_ context.Context, c invitecode.InviteCode) (invitecode.InviteCode, error) {
	f.creates++
	if f.createErr != nil {
		return invitecode.InviteCode{}, f.createErr
	}
	for _, existing := range f.codes {
		if existing.Code == c.Code {
			return invitecode.InviteCode{}, invitecode.ErrInviteCodeExists
		}
	}
	c.ID = uuid.NewString()
	c.Status = invitecode.StatusActive
	name := "Engineer"
	c.PositionName = &name
	f.codes[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (invitecode.InviteCode, error) {
	c, ok := f.codes[id]
	if !ok {
		return invitecode.InviteCode{}, invitecode.ErrInviteCodeNotFound
	}
	return c, nil
}

func (f *fakeRepo) GetActiveByCode(_ context.Context, code string) (invitecode.InviteCode, error) {
	for _, c := range f.codes {
		if c.Code == code && c.Status == invitecode.StatusActive {
			return c, nil
		}
	}
	return invitecode.InviteCode{}, invitecode.ErrInviteCodeNotFound
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status invitecode.Status) (invitecode.InviteCode, error) {
	c := f.codes[id]
	c.Status = status
	f.codes[id] = c
	return c, nil
}

func (f *fakeRepo) Report(_ context.Context, _ invitecode.ListFilter) ([]invitecode.ReportRow, int64, error) {
	var rows []invitecode.ReportRow
	for _, c := range f.codes {
		rows = append(rows, invitecode.ReportRow{InviteCode: c})
	}
	return rows, int64(len(rows)), nil
}

type fakeDispatcher struct {
	invites []mail.InviteCodeMail
}

func (f *fakeDispatcher) SendOTP(context.Context, mail.OTPMail) error { return nil }

func (f *fakeDispatcher) SendInviteCode(_ context.Context, m mail.InviteCodeMail) error {
	f.invites = append(f.invites, m)
	return nil
}

func fixedRandom(values ...string) func(int) (string, error) {
	i := 0
	return func(int) (string, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	}
}

func TestGenerate(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := &fakeDispatcher{}
	svc := NewInviteCodeService(repo, dispatcher)
	svc.random = fixedRandom("ABCDEFGH")

	email := "New.Hire@Example.com"
	resp, err := svc.Generate(context.Background(), invitecode.GenerateRequest{
		PositionID: positionID,
		Email:      &email,
		CreatedBy:  "admin-id",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.Code, "-ABCDEFGH"))
	assert.Equal(t, invitecode.StatusActive, resp.Status)
	require.Len(t, dispatcher.invites, 1)
	assert.Equal(t, "new.hire@example.com", dispatcher.invites[0].Email)
	assert.Equal(t, "Engineer", dispatcher.invites[0].PositionName)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	repo := newFakeRepo()
	svc := NewInviteCodeService(repo, &fakeDispatcher{})
	svc.random = fixedRandom("AAAAAAAA")

	_, err := svc.Generate(context.Background(), invitecode.GenerateRequest{PositionID: positionID})
	require.NoError(t, err)

	// every candidate now collides
	repo.creates = 0
	_, err = svc.Generate(context.Background(), invitecode.GenerateRequest{PositionID: positionID})
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeGenerationExhausted)
	assert.Equal(t, 6, repo.creates)
}

func TestGenerate_UnknownPosition(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = &pgconn.PgError{Code: "23503"}
	svc := NewInviteCodeService(repo, &fakeDispatcher{})

	_, err := svc.Generate(context.Background(), invitecode.GenerateRequest{PositionID: positionID})
	assert.ErrorIs(t, err, invitecode.ErrPositionNotFound)
	assert.Equal(t, 1, repo.creates)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewInviteCodeService(repo, &fakeDispatcher{})
	svc.random = fixedRandom("ZXCVBNMK")

	created, err := svc.Generate(context.Background(), invitecode.GenerateRequest{PositionID: positionID})
	require.NoError(t, err)
	uuidID := created.ID

	resp, err := svc.UpdateStatus(context.Background(), invitecode.UpdateStatusRequest{ID: uuidID, Status: invitecode.StatusRevoked})
	require.NoError(t, err)
	assert.Equal(t, invitecode.StatusRevoked, resp.Status)

	_, err = svc.UpdateStatus(context.Background(), invitecode.UpdateStatusRequest{ID: uuidID, Status: invitecode.StatusUsed})
	assert.ErrorIs(t, err, invitecode.ErrInviteCodeTransition)
}

func TestReport(t *testing.T) {
	repo := newFakeRepo()
	svc := NewInviteCodeService(repo, &fakeDispatcher{})
	svc.random = fixedRandom("PLMOKNIJ")

	_, err := svc.Generate(context.Background(), invitecode.GenerateRequest{PositionID: positionID})
	require.NoError(t, err)

	result, err := svc.Report(context.Background(), invitecode.ListFilter{Params: pagination.Params{Page: 1, Limit: 10, NeedPagination: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalItems)
	assert.Nil(t, result.Items[0].RedeemedBy)

	bad := invitecode.Status("expired")
	_, err = svc.Report(context.Background(), invitecode.ListFilter{Status: &bad})
	assert.Error(t, err)
}
