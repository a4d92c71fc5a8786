package account

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	Email        string           `json:"email"`
	Phone        *string          `json:"phone"`
	Password     string           `json:"password"`
	FullName     string           `json:"full_name"`
	Role         string           `json:"role"`
	DepartmentID *string          `json:"department_id"`
	PositionID   *string          `json:"position_id"`
	Salary       *decimal.Decimal `json:"salary"`
}

func (r *CreateAccountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email format is invalid"})
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone format is invalid"})
	}

	if !validator.IsStrongPassword(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters and contain a letter and a digit",
		})
	}

	if !validator.IsValidName(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must be 2-100 characters"})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role is required"})
	}

	errs = append(errs, validateProfileRefs(r.DepartmentID, r.PositionID, r.Salary)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateProfileRequest is the admin profile update; nil fields are left unchanged
type UpdateProfileRequest struct {
	ID           string           `json:"-"`
	FullName     *string          `json:"full_name"`
	Phone        *string          `json:"phone"`
	DepartmentID *string          `json:"department_id"`
	PositionID   *string          `json:"position_id"`
	Salary       *decimal.Decimal `json:"salary"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.FullName != nil && !validator.IsValidName(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must be 2-100 characters"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone format is invalid"})
	}
	errs = append(errs, validateProfileRefs(r.DepartmentID, r.PositionID, r.Salary)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateMeRequest is the self-service profile update
type UpdateMeRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

func (r *UpdateMeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName == nil && r.Phone == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field is required"})
	}
	if r.FullName != nil && !validator.IsValidName(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must be 2-100 characters"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone format is invalid"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ChangeRoleRequest struct {
	ID   string `json:"-"`
	Role string `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfileRefs(departmentID, positionID *string, salary *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if departmentID != nil && !validator.IsValidUUID(*departmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id must be a valid UUID"})
	}
	if positionID != nil && !validator.IsValidUUID(*positionID) {
		errs = append(errs, validator.ValidationError{Field: "position_id", Message: "position_id must be a valid UUID"})
	}
	if salary != nil && salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}
	return errs
}

type ListFilter struct {
	Status       *Status
	DepartmentID *string
	PositionID   *string
	Search       *string
	pagination.Params
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of pending, verified, active, deactivated"})
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id must be a valid UUID"})
	}
	if f.PositionID != nil && !validator.IsValidUUID(*f.PositionID) {
		errs = append(errs, validator.ValidationError{Field: "position_id", Message: "position_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AccountResponse struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	Phone          *string          `json:"phone"`
	Role           string           `json:"role"`
	Status         Status           `json:"status"`
	InviteCode     *string          `json:"invite_code,omitempty"`
	FullName       string           `json:"full_name"`
	DepartmentID   *string          `json:"department_id"`
	DepartmentName *string          `json:"department_name,omitempty"`
	PositionID     *string          `json:"position_id"`
	PositionName   *string          `json:"position_name,omitempty"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	AvatarPath     *string          `json:"avatar_path"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToResponse maps an account to its API shape
func ToResponse(a Account) AccountResponse {
	resp := AccountResponse{
		ID:             a.ID,
		Email:          a.Email,
		Phone:          a.Phone,
		Role:           a.Role,
		Status:         a.Status,
		InviteCode:     a.InviteCode,
		FullName:       a.Profile.FullName,
		DepartmentID:   a.Profile.DepartmentID,
		DepartmentName: a.Profile.DepartmentName,
		PositionID:     a.Profile.PositionID,
		PositionName:   a.Profile.PositionName,
		AvatarPath:     a.Profile.AvatarPath,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.Profile.Salary.Valid {
		salary := a.Profile.Salary.Decimal
		resp.Salary = &salary
	}
	return resp
}
