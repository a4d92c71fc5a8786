package invitecode

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusRevoked Status = "revoked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusRevoked:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next. Used and revoked are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && (next == StatusUsed || next == StatusRevoked)
}

type InviteCode struct {
	ID         string
	Code       string
	PositionID string
	Status     Status
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	PositionName *string
}

// ReportRow is an invite code with the account that redeemed it, if any
type ReportRow struct {
	InviteCode
	AccountID       *string
	AccountEmail    *string
	AccountFullName *string
	AccountStatus   *string
}
