package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type InviteCodeHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
}

type inviteCodeHandlerImpl struct {
	inviteCodeService invitecode.InviteCodeService
}

func NewInviteCodeHandler(inviteCodeService invitecode.InviteCodeService) InviteCodeHandler {
	return &inviteCodeHandlerImpl{inviteCodeService: inviteCodeService}
}

func (h *inviteCodeHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req invitecode.GenerateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	req.CreatedBy = principal.AccountID

	result, err := h.inviteCodeService.Generate(r.Context(), req)
	if err != nil {
		slog.Error("Generate invite code error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invite code generated successfully", result)
}

func (h *inviteCodeHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req invitecode.UpdateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.inviteCodeService.UpdateStatus(r.Context(), req)
	if err != nil {
		slog.Error("Update invite code status error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invite code status updated successfully", result)
}

func (h *inviteCodeHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	filter := invitecode.ListFilter{
		PositionID: optionalQuery(r, "position_id"),
		Params:     pagination.FromQuery(r.URL.Query()),
	}
	if status := optionalQuery(r, "status"); status != nil {
		s := invitecode.Status(*status)
		filter.Status = &s
	}

	result, err := h.inviteCodeService.Report(r.Context(), filter)
	if err != nil {
		slog.Error("Invite code report error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, response.PageMeta(filter.Params, result.TotalItems))
}
