package invitecode

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	PositionID string  `json:"position_id"`
	Email      *string `json:"email"` // optional recipient of the code
	CreatedBy  string  `json:"-"`     // From JWT
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.PositionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "position_id",
			Message: "position_id must be a valid UUID",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Status != StatusUsed && r.Status != StatusRevoked {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be used or revoked",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	Status     *Status
	PositionID *string
	pagination.Params
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of active, used, revoked",
		})
	}
	if f.PositionID != nil && !validator.IsValidUUID(*f.PositionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "position_id",
			Message: "position_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InviteCodeResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	PositionID   string    `json:"position_id"`
	PositionName *string   `json:"position_name,omitempty"`
	Status       Status    `json:"status"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RedeemedBy is the account registered with a code
type RedeemedBy struct {
	AccountID string  `json:"account_id"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	Status    *string `json:"status"`
}

type ReportResponse struct {
	InviteCodeResponse
	RedeemedBy *RedeemedBy `json:"redeemed_by"`
}

// CheckResponse is returned for a valid code at the first registration step
type CheckResponse struct {
	Code         string  `json:"code"`
	PositionID   string  `json:"position_id"`
	PositionName *string `json:"position_name"`
}

func ToResponse(c InviteCode) InviteCodeResponse {
	return InviteCodeResponse{
		ID:           c.ID,
		Code:         c.Code,
		PositionID:   c.PositionID,
		PositionName: c.PositionName,
		Status:       c.Status,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func ToReportResponse(r ReportRow) ReportResponse {
	resp := ReportResponse{InviteCodeResponse: ToResponse(r.InviteCode)}
	if r.AccountID != nil {
		resp.RedeemedBy = &RedeemedBy{
			AccountID: *r.AccountID,
			Email:     r.AccountEmail,
			FullName:  r.AccountFullName,
			Status:    r.AccountStatus,
		}
	}
	return resp
}
