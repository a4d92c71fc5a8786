package role

import (
	"regexp"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
)

var roleNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,49}$`)

type CreateRoleRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Privileges  privilege.Map `json:"privileges"`
}

func (r *CreateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if !roleNameRegex.MatchString(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be 2-50 lowercase letters, digits, '_' or '-'",
		})
	}

	if len(r.Description) > 255 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 255 characters"})
	}

	errs = append(errs, validatePrivileges(r.Privileges)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRoleRequest struct {
	ID          string        `json:"-"`
	Description *string       `json:"description"`
	Privileges  privilege.Map `json:"privileges"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Description == nil && r.Privileges == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "description or privileges is required"})
	}
	if r.Description != nil && len(*r.Description) > 255 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 255 characters"})
	}

	errs = append(errs, validatePrivileges(r.Privileges)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePrivileges(m privilege.Map) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for _, key := range m.SortedKeys() {
		if validator.IsEmpty(key) {
			errs = append(errs, validator.ValidationError{Field: "privileges", Message: "privilege key must not be empty"})
			continue
		}
		if m[key] == nil {
			errs = append(errs, validator.ValidationError{Field: "privileges." + key, Message: "actions must be an object"})
		}
	}
	return errs
}

type RoleResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Privileges  privilege.Map `json:"privileges"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func ToResponse(r Role) RoleResponse {
	privileges := r.Privileges
	if privileges == nil {
		privileges = privilege.Map{}
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Privileges:  privileges,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
