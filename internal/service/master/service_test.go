package master

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/technology"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deptID = "0192d4a4-7b4e-7c3a-9d2e-1f2a3b4c5d6e"

type fakeDepartmentRepo struct {
	department.DepartmentRepository
	items     map[string]department.Department
	createErr error
	deleteErr error
}

func (f *fakeDepartmentRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	if f.createErr != nil {
		return department.Department{}, f.createErr
	}
	d.ID = deptID
	f.items[d.ID] = d
	return d, nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	d, ok := f.items[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context, _ pagination.Params) ([]department.Department, int64, error) {
	var out []department.Department
	for _, d := range f.items {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	return nil
}

type fakePositionRepo struct {
	position.PositionRepository
	createErr error
	deleteErr error
}

func (f *fakePositionRepo) Create(_ context.Context, p position.Position) (position.Position, error) {
	return p, f.createErr
}

func (f *fakePositionRepo) Delete(_ context.Context, _ string) error {
	return f.deleteErr
}

type fakeTechnologyRepo struct {
	technology.TechnologyRepository
	items map[string]technology.Technology
}

func (f *fakeTechnologyRepo) GetByID(_ context.Context, id string) (technology.Technology, error) {
	t, ok := f.items[id]
	if !ok {
		return technology.Technology{}, technology.ErrTechnologyNotFound
	}
	return t, nil
}

func (f *fakeTechnologyRepo) Update(_ context.Context, req technology.UpdateTechnologyRequest) error {
	t, ok := f.items[req.ID]
	if !ok {
		return technology.ErrTechnologyNotFound
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	f.items[req.ID] = t
	return nil
}

func newTestService() (*masterServiceImpl, *fakeDepartmentRepo, *fakePositionRepo, *fakeTechnologyRepo) {
	d := &fakeDepartmentRepo{items: map[string]department.Department{}}
	p := &fakePositionRepo{}
	tr := &fakeTechnologyRepo{items: map[string]technology.Technology{}}
	svc := NewMasterService(d, p, tr).(*masterServiceImpl)
	return svc, d, p, tr
}

func TestCreateDepartment(t *testing.T) {
	svc, _, _, _ := newTestService()

	resp, err := svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, deptID, resp.ID)

	list, err := svc.ListDepartments(context.Background(), pagination.Params{Page: 1, Limit: 20, NeedPagination: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalItems)
}

func TestCreateDepartment_ValidationAndDuplicate(t *testing.T) {
	svc, repo, _, _ := newTestService()

	_, err := svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)

	repo.createErr = &pgconn.PgError{Code: "23505"}
	_, err = svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{Name: "Engineering"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
}

func TestDeleteDepartment_InUse(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.deleteErr = &pgconn.PgError{Code: "23503"}

	err := svc.DeleteDepartment(context.Background(), deptID)
	assert.ErrorIs(t, err, department.ErrDepartmentInUse)
}

func TestPosition_ForeignKeyMapping(t *testing.T) {
	svc, _, repo, _ := newTestService()

	repo.createErr = &pgconn.PgError{Code: "23503"}
	deptRef := deptID
	_, err := svc.CreatePosition(context.Background(), position.CreatePositionRequest{Name: "Backend", DepartmentID: &deptRef})
	assert.ErrorIs(t, err, position.ErrDepartmentNotFound)

	repo.deleteErr = &pgconn.PgError{Code: "23503"}
	err = svc.DeletePosition(context.Background(), deptID)
	assert.ErrorIs(t, err, position.ErrPositionInUse)
}

func TestArchiveTechnology(t *testing.T) {
	svc, _, _, repo := newTestService()
	repo.items[deptID] = technology.Technology{ID: deptID, Name: "Go", Status: technology.StatusActive}

	resp, err := svc.ArchiveTechnology(context.Background(), deptID)
	require.NoError(t, err)
	assert.Equal(t, technology.StatusArchived, resp.Status)

	_, err = svc.ArchiveTechnology(context.Background(), "0192d4a4-0000-7c3a-9d2e-1f2a3b4c5d6e")
	assert.ErrorIs(t, err, technology.ErrTechnologyNotFound)
}
