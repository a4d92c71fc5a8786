package auth

import "github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"

var (
	ErrAccessTokenMissing  = apperror.ErrAccessTokenMissing
	ErrTokenExpired        = apperror.ErrTokenExpired
	ErrInvalidToken        = apperror.ErrInvalidToken
	ErrSessionNotFound     = apperror.ErrSessionNotFound
	ErrInvalidCredentials  = apperror.ErrInvalidCredentials
	ErrRefreshTokenMissing = apperror.ErrRefreshTokenMissing
	ErrRefreshTokenExpired = apperror.ErrRefreshTokenExpired
	ErrOTPExpired          = apperror.ErrOTPExpired
	ErrOTPInvalid          = apperror.ErrOTPInvalid
	ErrAccountInactive     = apperror.ErrAccountInactive
	ErrAccountNotVerified  = apperror.ErrAccountNotVerified
	ErrPasswordNotSet      = apperror.ErrPasswordNotSet
	ErrGoogleNotLinked     = apperror.Wrap(apperror.ErrInvalidCredentials, "no account is registered for this google email")
	ErrOAuthStateMismatch  = apperror.Wrap(apperror.ErrInvalidToken, "oauth state mismatch")
)

var (
	ErrRoleNotAllowed      = apperror.ErrRoleNotAllowed
	ErrPrivilegeNotAllowed = apperror.ErrPrivilegeNotAllowed
	ErrInvalidAPIKey       = apperror.ErrInvalidAPIKey
)
