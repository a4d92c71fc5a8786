package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/technology"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/master"
)

// WebHandler serves read-only data to the portfolio site
type WebHandler interface {
	ListTechnologies(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
}

type webHandlerImpl struct {
	masterService master.MasterService
}

func NewWebHandler(masterService master.MasterService) WebHandler {
	return &webHandlerImpl{masterService: masterService}
}

// ListTechnologies returns active technologies only
func (h *webHandlerImpl) ListTechnologies(w http.ResponseWriter, r *http.Request) {
	active := technology.StatusActive
	filter := technology.ListFilter{Status: &active, Params: pagination.FromQuery(r.URL.Query())}

	result, err := h.masterService.ListTechnologies(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, response.PageMeta(filter.Params, result.TotalItems))
}

func (h *webHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query())

	result, err := h.masterService.ListDepartments(r.Context(), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, response.PageMeta(params, result.TotalItems))
}

func (h *webHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query())

	result, err := h.masterService.ListPositions(r.Context(), optionalQuery(r, "department_id"), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, response.PageMeta(params, result.TotalItems))
}
