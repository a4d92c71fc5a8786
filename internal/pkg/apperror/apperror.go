package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with a stable numeric code and the HTTP status it maps to
type Error struct {
	Code    int
	Status  int
	Message string
}

func New(code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Is matches on code so wrapped copies compare equal to their sentinel
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// As unwraps err into an *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Authentication
var (
	ErrAccessTokenMissing  = New(1001, http.StatusUnauthorized, "access token is missing")
	ErrTokenExpired        = New(1002, http.StatusUnauthorized, "token expired")
	ErrInvalidToken        = New(1003, http.StatusUnauthorized, "invalid token")
	ErrSessionNotFound     = New(1004, http.StatusUnauthorized, "session not found, please login again")
	ErrInvalidCredentials  = New(1005, http.StatusUnauthorized, "invalid email or password")
	ErrRefreshTokenMissing = New(1006, http.StatusUnauthorized, "refresh token is missing")
	ErrRefreshTokenExpired = New(1007, http.StatusUnauthorized, "refresh token expired")
	ErrOTPExpired          = New(1008, http.StatusUnauthorized, "otp expired or does not exist")
	ErrOTPInvalid          = New(1009, http.StatusUnauthorized, "otp is invalid")
	ErrAccountInactive     = New(1010, http.StatusForbidden, "account is not active")
	ErrAccountNotVerified  = New(1011, http.StatusForbidden, "account email is not verified")
)

// Authorization
var (
	ErrRoleNotAllowed      = New(2001, http.StatusForbidden, "role is not allowed to access this resource")
	ErrPrivilegeNotAllowed = New(2002, http.StatusForbidden, "missing privilege for this resource")
	ErrInvalidAPIKey       = New(2003, http.StatusForbidden, "invalid api key")
)

// Resources
var (
	ErrInviteCodeNotFound            = New(3001, http.StatusNotFound, "invite code not found")
	ErrInviteCodeTransition          = New(3002, http.StatusConflict, "invite code status transition not allowed")
	ErrMailSend                      = New(3003, http.StatusBadGateway, "failed to send mail")
	ErrFileNotUploaded               = New(3004, http.StatusBadRequest, "file is not uploaded")
	ErrEmailExists                   = New(3005, http.StatusConflict, "email is already registered")
	ErrAccountNotFound               = New(3006, http.StatusNotFound, "account not found")
	ErrEntityNotFound                = New(3007, http.StatusNotFound, "resource not found")
	ErrDuplicateName                 = New(3008, http.StatusConflict, "name already exists")
	ErrInviteCodeGenerationExhausted = New(3009, http.StatusInternalServerError, "could not generate a unique invite code")
	ErrStatusTransition              = New(3010, http.StatusConflict, "status transition not allowed")
	ErrEntityInUse                   = New(3011, http.StatusConflict, "resource is still in use")
	ErrPasswordNotSet                = New(3012, http.StatusConflict, "password has not been set for this account")
)

// Wrap returns a copy of base with a more specific message, still matching base via errors.Is
func Wrap(base *Error, message string) *Error {
	return &Error{Code: base.Code, Status: base.Status, Message: message}
}
