package invitecode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5/pgconn"
)

type InviteCodeServiceImpl struct {
	repo       invitecode.InviteCodeRepository
	dispatcher mail.Dispatcher
	random     func(n int) (string, error)
}

func NewInviteCodeService(repo invitecode.InviteCodeRepository, dispatcher mail.Dispatcher) *InviteCodeServiceImpl {
	return &InviteCodeServiceImpl{
		repo:       repo,
		dispatcher: dispatcher,
		random:     invitecode.RandomString,
	}
}

// Generate implements invitecode.InviteCodeService.
func (s *InviteCodeServiceImpl) Generate(ctx context.Context, req invitecode.GenerateRequest) (invitecode.InviteCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return invitecode.InviteCodeResponse{}, err
	}

	var createdBy *string
	if req.CreatedBy != "" {
		createdBy = &req.CreatedBy
	}

	var created invitecode.InviteCode
	gen := invitecode.Generator{
		Random: s.random,
		Claim: func(ctx context.Context, code string) (bool, error) {
			c, err := s.repo.Create(ctx, invitecode.InviteCode{
				Code:       code,
				PositionID: req.PositionID,
				CreatedBy:  createdBy,
			})
			if err != nil {
				if errors.Is(err, invitecode.ErrInviteCodeExists) {
					slog.Warn("invite code collision, retrying", "code", code)
					return false, nil
				}
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) {
					switch pgErr.Code {
					case "23503": // foreign_key_violation
						return false, invitecode.ErrPositionNotFound
					}
				}
				return false, err
			}
			created = c
			return true, nil
		},
	}

	if _, err := gen.Generate(ctx); err != nil {
		if errors.Is(err, invitecode.ErrInviteCodeGenerationExhausted) {
			slog.Error("invite code generation exhausted", "position_id", req.PositionID)
		}
		return invitecode.InviteCodeResponse{}, err
	}

	if req.Email != nil {
		positionName := ""
		if created.PositionName != nil {
			positionName = *created.PositionName
		}
		err := s.dispatcher.SendInviteCode(ctx, mail.InviteCodeMail{
			Email:        strings.ToLower(*req.Email),
			Code:         created.Code,
			PositionName: positionName,
		})
		if err != nil {
			slog.Error("failed to enqueue invite code mail", "code", created.Code, "error", err)
		}
	}

	return invitecode.ToResponse(created), nil
}

// UpdateStatus implements invitecode.InviteCodeService.
func (s *InviteCodeServiceImpl) UpdateStatus(ctx context.Context, req invitecode.UpdateStatusRequest) (invitecode.InviteCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return invitecode.InviteCodeResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return invitecode.InviteCodeResponse{}, err
	}
	if !current.Status.CanTransitionTo(req.Status) {
		return invitecode.InviteCodeResponse{}, invitecode.ErrInviteCodeTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		return invitecode.InviteCodeResponse{}, fmt.Errorf("failed to update invite code status: %w", err)
	}

	return invitecode.ToResponse(updated), nil
}

// Report implements invitecode.InviteCodeService.
func (s *InviteCodeServiceImpl) Report(ctx context.Context, filter invitecode.ListFilter) (pagination.Result[invitecode.ReportResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Result[invitecode.ReportResponse]{}, err
	}

	rows, total, err := s.repo.Report(ctx, filter)
	if err != nil {
		return pagination.Result[invitecode.ReportResponse]{}, err
	}

	items := make([]invitecode.ReportResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, invitecode.ToReportResponse(row))
	}
	return pagination.Result[invitecode.ReportResponse]{Items: items, TotalItems: total}, nil
}
