package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session key not found")
	// ErrContended is returned when Update keeps losing races on the same key
	ErrContended = errors.New("session key is being modified concurrently")
)

// Op is the write an UpdateFunc asks for
type Op int

const (
	// Keep leaves the key untouched
	Keep Op = iota
	// Replace writes the returned value and keeps the remaining TTL
	Replace
	// Remove deletes the key
	Remove
)

// UpdateFunc receives the current value and decides the write. A non-nil
// error aborts without writing.
type UpdateFunc func(current string) (next string, op Op, err error)

// Store is the key-value cache holding auth state. Writes are last-writer-wins.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Update applies fn atomically against concurrent writers of key.
	// Returns ErrNotFound when key is absent.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

const (
	privilegeSuffix = "privileges"
	otpSuffix       = "otp"
)

// SessionKey holds the current access token for an account
func SessionKey(accountID string) string {
	return accountID
}

// PrivilegeKey holds the account's serialized privilege map
func PrivilegeKey(accountID string) string {
	return accountID + privilegeSuffix
}

// OTPKey holds the pending OTP for an email
func OTPKey(email string) string {
	return email + otpSuffix
}
