package invitecode

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
)

type InviteCodeService interface {
	Generate(ctx context.Context, req GenerateRequest) (InviteCodeResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (InviteCodeResponse, error)
	Report(ctx context.Context, filter ListFilter) (pagination.Result[ReportResponse], error)
}
