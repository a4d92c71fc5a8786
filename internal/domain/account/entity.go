package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending     Status = "pending"     // registered, email not verified
	StatusVerified    Status = "verified"    // email verified, no password yet
	StatusActive      Status = "active"      // can log in
	StatusDeactivated Status = "deactivated" // soft-disabled by an admin
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusActive, StatusDeactivated:
		return true
	}
	return false
}

type Account struct {
	ID           string
	Email        string
	Phone        *string
	PasswordHash *string
	Role         string
	Status       Status
	InviteCode   *string
	GoogleID     *string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the employee part of an account
type Profile struct {
	FullName     string
	DepartmentID *string
	PositionID   *string
	Salary       decimal.NullDecimal
	AvatarPath   *string

	// Join
	DepartmentName *string
	PositionName   *string
}

// IsActive checks if the account may log in
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// IsVerified checks if the account email has been verified
func (a *Account) IsVerified() bool {
	return a.Status == StatusVerified || a.Status == StatusActive || a.Status == StatusDeactivated
}

// CanTransition reports whether the lifecycle allows moving from the current status to next
func (a *Account) CanTransition(next Status) bool {
	switch a.Status {
	case StatusPending:
		return next == StatusVerified
	case StatusVerified:
		return next == StatusActive
	case StatusActive:
		return next == StatusDeactivated
	case StatusDeactivated:
		return next == StatusActive
	}
	return false
}
