package invitecode

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrInviteCodeNotFound            = apperror.ErrInviteCodeNotFound
	ErrInviteCodeTransition          = apperror.ErrInviteCodeTransition
	ErrInviteCodeGenerationExhausted = apperror.ErrInviteCodeGenerationExhausted
	ErrInviteCodeExists              = apperror.Wrap(apperror.ErrDuplicateName, "invite code already exists")
	ErrPositionNotFound              = apperror.Wrap(apperror.ErrEntityNotFound, "position not found")
)
