package technology

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
)

type CreateTechnologyRequest struct {
	Name     string  `json:"name"`
	IconPath *string `json:"icon_path"`
}

func (r *CreateTechnologyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateTechnologyRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	IconPath *string `json:"icon_path"`
	Status   *Status `json:"status"`
}

func (r *UpdateTechnologyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Name != nil && (validator.IsEmpty(*r.Name) || len(*r.Name) > 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be 1-100 characters",
		})
	}

	if r.Status != nil && !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or archived",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	Status *Status
	pagination.Params
}

type TechnologyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IconPath  *string   `json:"icon_path"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(t Technology) TechnologyResponse {
	return TechnologyResponse{
		ID:        t.ID,
		Name:      t.Name,
		IconPath:  t.IconPath,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (f *ListFilter) Validate() error {
	if f.Status != nil && !f.Status.Valid() {
		return validator.ValidationErrors{{Field: "status", Message: "status must be active or archived"}}
	}
	return nil
}
