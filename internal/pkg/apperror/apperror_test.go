package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	specific := Wrap(ErrEntityNotFound, "department not found")

	assert.True(t, errors.Is(specific, ErrEntityNotFound))
	assert.False(t, errors.Is(specific, ErrAccountNotFound))
	assert.Equal(t, "department not found", specific.Message)
	assert.Equal(t, http.StatusNotFound, specific.Status)
}

func TestAs_WrappedError(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrInvalidCredentials)

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, 1005, appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, ErrAccountInactive.Status)
	assert.Equal(t, http.StatusForbidden, ErrInvalidAPIKey.Status)
	assert.Equal(t, http.StatusConflict, ErrInviteCodeTransition.Status)
	assert.Equal(t, http.StatusBadGateway, ErrMailSend.Status)
	assert.Equal(t, "1002: token expired", ErrTokenExpired.Error())
}
