package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if appErr, ok := apperror.As(err); ok {
		AppError(w, appErr)
		return
	}

	// Default
	InternalServerError(w, "An unexpected error occurred")
}

// AppError writes an application error with its status and numeric code
func AppError(w http.ResponseWriter, err *apperror.Error) {
	writeJSON(w, err.Status, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:      statusCode(err.Status),
			ErrorCode: err.Code,
			Message:   err.Message,
		},
	})
}

// statusCode turns 404 into NOT_FOUND
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
