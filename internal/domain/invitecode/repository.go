package invitecode

import "context"

type InviteCodeRepository interface {
	// Create inserts a code; ErrInviteCodeExists when the code collides
	Create(ctx context.Context, c InviteCode) (InviteCode, error)
	GetByID(ctx context.Context, id string) (InviteCode, error)
	GetActiveByCode(ctx context.Context, code string) (InviteCode, error)
	// Redeem marks an active code used; ErrInviteCodeNotFound when no active code matches
	Redeem(ctx context.Context, code string) (InviteCode, error)
	// UpdateStatus changes status only from active; ErrInviteCodeTransition otherwise
	UpdateStatus(ctx context.Context, id string, status Status) (InviteCode, error)
	Report(ctx context.Context, filter ListFilter) ([]ReportRow, int64, error)
}
