package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RoleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type roleHandlerImpl struct {
	roleService role.RoleService
}

func NewRoleHandler(roleService role.RoleService) RoleHandler {
	return &roleHandlerImpl{roleService: roleService}
}

func (h *roleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req role.CreateRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.roleService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create role error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Role created successfully", result)
}

func (h *roleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.roleService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *roleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.roleService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *roleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req role.UpdateRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.roleService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update role error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated successfully", result)
}

func (h *roleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.roleService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete role error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role deleted successfully", nil)
}
