package mail

import "context"

// Job types carried on the mail queue
const (
	JobOTP        = "otp"
	JobInviteCode = "invite_code"
)

type OTPMail struct {
	AccountID    string `json:"account_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Code         string `json:"code"`
	ValidMinutes int    `json:"valid_minutes"`
}

type InviteCodeMail struct {
	Email        string `json:"email"`
	Code         string `json:"code"`
	PositionName string `json:"position_name"`
}

// Dispatcher enqueues mail for asynchronous delivery; it never sends inline
type Dispatcher interface {
	SendOTP(ctx context.Context, m OTPMail) error
	SendInviteCode(ctx context.Context, m InviteCodeMail) error
}
