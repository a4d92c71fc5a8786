package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
)

const APIKeyHeader = "X-API-Key"

// RequireAPIKey guards service-to-service routes with a shared key
func (m *Middleware) RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				m.reject(w, "invalid_api_key", auth.ErrInvalidAPIKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
