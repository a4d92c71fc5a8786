package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AccountServiceImpl struct {
	accountRepo  account.AccountRepository
	roleRepo     role.RoleRepository
	sessionStore session.Store
	fileService  file.FileService
}

func NewAccountService(
	accountRepo account.AccountRepository,
	roleRepo role.RoleRepository,
	sessionStore session.Store,
	fileService file.FileService,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo:  accountRepo,
		roleRepo:     roleRepo,
		sessionStore: sessionStore,
		fileService:  fileService,
	}
}

// mapWriteError translates constraint violations raised by account writes
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "phone") {
				return account.ErrPhoneExists
			}
			return account.ErrEmailExists
		case "23503": // foreign_key_violation
			switch {
			case strings.Contains(pgErr.ConstraintName, "department"):
				return account.ErrDepartmentNotFound
			case strings.Contains(pgErr.ConstraintName, "position"):
				return account.ErrPositionNotFound
			case strings.Contains(pgErr.ConstraintName, "role"):
				return account.ErrRoleNotFound
			}
		}
	}
	return err
}

// List implements account.AccountService.
func (s *AccountServiceImpl) List(ctx context.Context, filter account.ListFilter) (pagination.Result[account.AccountResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Result[account.AccountResponse]{}, err
	}

	accounts, total, err := s.accountRepo.List(ctx, filter)
	if err != nil {
		return pagination.Result[account.AccountResponse]{}, fmt.Errorf("failed to list accounts: %w", err)
	}

	items := make([]account.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, account.ToResponse(a))
	}
	return pagination.Result[account.AccountResponse]{Items: items, TotalItems: total}, nil
}

// Get implements account.AccountService.
func (s *AccountServiceImpl) Get(ctx context.Context, id string) (account.AccountResponse, error) {
	a, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return account.AccountResponse{}, err
	}
	return account.ToResponse(a), nil
}

// Create implements account.AccountService. Admin-created accounts are active immediately.
func (s *AccountServiceImpl) Create(ctx context.Context, req account.CreateAccountRequest) (account.AccountResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	if _, err := s.roleRepo.GetByName(ctx, req.Role); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return account.AccountResponse{}, account.ErrRoleNotFound
		}
		return account.AccountResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return account.AccountResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	salary := decimal.NullDecimal{}
	if req.Salary != nil {
		salary = decimal.NewNullDecimal(*req.Salary)
	}

	created, err := s.accountRepo.Create(ctx, account.Account{
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: &passwordHash,
		Role:         req.Role,
		Status:       account.StatusActive,
		Profile: account.Profile{
			FullName:     strings.TrimSpace(req.FullName),
			DepartmentID: req.DepartmentID,
			PositionID:   req.PositionID,
			Salary:       salary,
		},
	})
	if err != nil {
		return account.AccountResponse{}, mapWriteError(err)
	}

	slog.Info("account created by admin", "account_id", created.ID, "role", created.Role)
	return account.ToResponse(created), nil
}

// UpdateProfile implements account.AccountService.
func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, req account.UpdateProfileRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	if err := s.accountRepo.UpdateProfile(ctx, req); err != nil {
		return account.AccountResponse{}, mapWriteError(err)
	}
	return s.Get(ctx, req.ID)
}

// UpdateMe implements account.AccountService.
func (s *AccountServiceImpl) UpdateMe(ctx context.Context, accountID string, req account.UpdateMeRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	if err := s.accountRepo.UpdateProfile(ctx, account.UpdateProfileRequest{
		ID:       accountID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}); err != nil {
		return account.AccountResponse{}, mapWriteError(err)
	}
	return s.Get(ctx, accountID)
}

// ChangeRole implements account.AccountService. The cached privilege map is
// replaced at the account's next login or refresh.
func (s *AccountServiceImpl) ChangeRole(ctx context.Context, req account.ChangeRoleRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	if _, err := s.roleRepo.GetByName(ctx, req.Role); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return account.AccountResponse{}, account.ErrRoleNotFound
		}
		return account.AccountResponse{}, err
	}

	if err := s.accountRepo.UpdateRole(ctx, req.ID, req.Role); err != nil {
		return account.AccountResponse{}, mapWriteError(err)
	}
	return s.Get(ctx, req.ID)
}

// Deactivate implements account.AccountService. The account's session is dropped so
// its access token stops working immediately.
func (s *AccountServiceImpl) Deactivate(ctx context.Context, actorID, id string) (account.AccountResponse, error) {
	if actorID == id {
		return account.AccountResponse{}, account.ErrCannotDeactivateSelf
	}

	if err := s.accountRepo.UpdateStatus(ctx, id, account.StatusActive, account.StatusDeactivated); err != nil {
		return account.AccountResponse{}, err
	}

	if err := s.sessionStore.Delete(ctx, session.SessionKey(id), session.PrivilegeKey(id)); err != nil {
		slog.Error("failed to drop session of deactivated account", "account_id", id, "error", err)
	}

	slog.Info("account deactivated", "account_id", id, "by", actorID)
	return s.Get(ctx, id)
}

// Reactivate implements account.AccountService.
func (s *AccountServiceImpl) Reactivate(ctx context.Context, id string) (account.AccountResponse, error) {
	if err := s.accountRepo.UpdateStatus(ctx, id, account.StatusDeactivated, account.StatusActive); err != nil {
		return account.AccountResponse{}, err
	}
	return s.Get(ctx, id)
}

// UploadAvatar implements account.AccountService.
func (s *AccountServiceImpl) UploadAvatar(ctx context.Context, id string, f io.Reader, filename string, size int64) (account.AccountResponse, error) {
	current, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return account.AccountResponse{}, err
	}

	uploaded, err := s.fileService.UploadAvatar(ctx, id, f, filename, size)
	if err != nil {
		return account.AccountResponse{}, err
	}

	if err := s.accountRepo.UpdateAvatar(ctx, id, uploaded.Path); err != nil {
		if delErr := s.fileService.DeleteFile(ctx, uploaded.Path); delErr != nil {
			slog.Error("failed to remove orphaned avatar", "path", uploaded.Path, "error", delErr)
		}
		return account.AccountResponse{}, err
	}

	if current.Profile.AvatarPath != nil && *current.Profile.AvatarPath != uploaded.Path {
		if err := s.fileService.DeleteFile(ctx, *current.Profile.AvatarPath); err != nil {
			slog.Warn("failed to delete previous avatar", "path", *current.Profile.AvatarPath, "error", err)
		}
	}

	return s.Get(ctx, id)
}
