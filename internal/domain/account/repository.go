package account

import "context"

type AccountRepository interface {
	Create(ctx context.Context, newAccount Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	List(ctx context.Context, filter ListFilter) ([]Account, int64, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error
	UpdateRole(ctx context.Context, id, role string) error
	// UpdateStatus moves from one status to another; ErrStatusTransition when the row is not in from
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	SetPassword(ctx context.Context, id, passwordHash string, status Status) error
	UpdateAvatar(ctx context.Context, id, avatarPath string) error
	LinkGoogleID(ctx context.Context, id, googleID string) error
}
