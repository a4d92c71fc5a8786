package account

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
)

type AccountService interface {
	List(ctx context.Context, filter ListFilter) (pagination.Result[AccountResponse], error)
	Get(ctx context.Context, id string) (AccountResponse, error)
	Create(ctx context.Context, req CreateAccountRequest) (AccountResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (AccountResponse, error)
	UpdateMe(ctx context.Context, accountID string, req UpdateMeRequest) (AccountResponse, error)
	ChangeRole(ctx context.Context, req ChangeRoleRequest) (AccountResponse, error)
	Deactivate(ctx context.Context, actorID, id string) (AccountResponse, error)
	Reactivate(ctx context.Context, id string) (AccountResponse, error)
	UploadAvatar(ctx context.Context, id string, file io.Reader, filename string, size int64) (AccountResponse, error)
}
