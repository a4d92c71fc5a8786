package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type AccountHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ChangeRole(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Reactivate(w http.ResponseWriter, r *http.Request)
	UploadAvatar(w http.ResponseWriter, r *http.Request)

	// Self service
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
}

type accountHandlerImpl struct {
	accountService account.AccountService
	maxUploadSize  int64
}

func NewAccountHandler(accountService account.AccountService, maxUploadSize int64) AccountHandler {
	return &accountHandlerImpl{
		accountService: accountService,
		maxUploadSize:  maxUploadSize,
	}
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func (h *accountHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := account.ListFilter{
		DepartmentID: optionalQuery(r, "department_id"),
		PositionID:   optionalQuery(r, "position_id"),
		Search:       optionalQuery(r, "search"),
		Params:       pagination.FromQuery(r.URL.Query()),
	}
	if status := optionalQuery(r, "status"); status != nil {
		s := account.Status(*status)
		filter.Status = &s
	}

	result, err := h.accountService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List accounts error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, response.PageMeta(filter.Params, result.TotalItems))
}

func (h *accountHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *accountHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req account.CreateAccountRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.accountService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create account error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Account created successfully", result)
}

func (h *accountHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req account.UpdateProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.accountService.UpdateProfile(r.Context(), req)
	if err != nil {
		slog.Error("Update account error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account updated successfully", result)
}

func (h *accountHandlerImpl) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req account.ChangeRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.accountService.ChangeRole(r.Context(), req)
	if err != nil {
		slog.Error("Change role error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role changed successfully", result)
}

func (h *accountHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	result, err := h.accountService.Deactivate(r.Context(), principal.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Deactivate account error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account deactivated successfully", result)
}

func (h *accountHandlerImpl) Reactivate(w http.ResponseWriter, r *http.Request) {
	result, err := h.accountService.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Reactivate account error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account reactivated successfully", result)
}

func (h *accountHandlerImpl) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, apperror.ErrFileNotUploaded)
		return
	}
	defer file.Close()

	result, err := h.accountService.UploadAvatar(r.Context(), chi.URLParam(r, "id"), file, header.Filename, header.Size)
	if err != nil {
		slog.Error("Upload avatar error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Avatar uploaded successfully", result)
}

func (h *accountHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	result, err := h.accountService.Get(r.Context(), principal.AccountID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *accountHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req account.UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.accountService.UpdateMe(r.Context(), principal.AccountID, req)
	if err != nil {
		slog.Error("Update me error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}
