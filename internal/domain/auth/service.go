package auth

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context) (GoogleLoginResponse, error)
	OAuthCallbackGoogle(ctx context.Context, code string) (TokenResponse, error)
	Logout(ctx context.Context, accountID string)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)

	// Registration
	CheckInviteCode(ctx context.Context, req InviteCodeRequest) (invitecode.CheckResponse, error)
	SubmitPersonalInfo(ctx context.Context, req PersonalInfoRequest) (FlowTokenResponse, error)
	SendOTP(ctx context.Context, accountID, email string) error
	VerifyOTP(ctx context.Context, accountID, email string, req VerifyOTPRequest) (FlowTokenResponse, error)
	SetPassword(ctx context.Context, accountID string, req SetPasswordRequest) (TokenResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (FlowTokenResponse, error)
}
