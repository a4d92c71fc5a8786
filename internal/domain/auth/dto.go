package auth

import (
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
)

const emailFormatMessage = "email must be a valid email address, e.g. user@example.com"

func validateEmail(email string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(email) {
		return append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if len(email) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be at least 6 characters long",
		})
	}
	if len(email) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 254 characters",
		})
	}
	if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: emailFormatMessage,
		})
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	errs := validateEmail(r.Email)

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// InviteCodeRequest is the first registration step
type InviteCodeRequest struct {
	Code string `json:"code"`
}

func (r *InviteCodeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if len(r.Code) > 32 {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must not exceed 32 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PersonalInfoRequest redeems the invite code and creates a pending account
type PersonalInfoRequest struct {
	Code     string `json:"code"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (r *PersonalInfoRequest) Validate() error {
	var errs validator.ValidationErrors

	code := InviteCodeRequest{Code: r.Code}
	if err := code.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	r.Code = code.Code

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	errs = append(errs, validateEmail(r.Email)...)

	r.FullName = strings.TrimSpace(r.FullName)
	if !validator.IsValidName(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must be between 2 and 100 characters",
		})
	}

	r.Phone = strings.TrimSpace(r.Phone)
	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone is required",
		})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain 8 to 15 digits, optionally prefixed with +",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.TrimSpace(r.Code)
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsNumeric(r.Code) || len(r.Code) > 10 {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be numeric",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *SetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	} else if !validator.IsStrongPassword(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long and contain a letter and a digit",
		})
	}
	if validator.IsEmpty(r.ConfirmPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "confirm_password is required",
		})
	} else if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "password and confirm_password do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if errs := validateEmail(r.Email); len(errs) > 0 {
		return errs
	}
	return nil
}

// AccountSummary is the identity returned alongside tokens
type AccountSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type TokenResponse struct {
	AccessToken           string         `json:"access_token"`
	AccessTokenExpiresIn  int64          `json:"access_token_expires_in"`
	RefreshToken          string         `json:"-"` // cookie only
	RefreshTokenExpiresIn int64          `json:"refresh_token_expires_in,omitempty"`
	Account               AccountSummary `json:"account"`
}

// FlowTokenResponse carries an otp or password_setup bearer token
type FlowTokenResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ExpiresIn int64  `json:"expires_in"`
}

// GoogleLoginResponse carries the provider redirect
type GoogleLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
	State       string `json:"-"`
}
