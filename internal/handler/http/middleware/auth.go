package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

// Middleware holds the dependencies shared by the auth guards
type Middleware struct {
	accessAuth   *jwtauth.JWTAuth
	jwtService   jwt.Service
	sessionStore session.Store
	metrics      *metrics.Metrics
}

func New(accessAuth *jwtauth.JWTAuth, jwtService jwt.Service, sessionStore session.Store, m *metrics.Metrics) *Middleware {
	return &Middleware{
		accessAuth:   accessAuth,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		metrics:      m,
	}
}

func (m *Middleware) reject(w http.ResponseWriter, reason string, err error) {
	m.metrics.GuardRejected(reason)
	response.HandleError(w, err)
}

// TokenFromAccessCookie reads the access token cookie set at login
func TokenFromAccessCookie(r *http.Request) string {
	cookie, err := r.Cookie(jwt.AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Authenticate verifies the access token, checks it against the session marker
// and attaches the principal with its cached privileges to the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	verifier := jwtauth.Verify(m.accessAuth, jwtauth.TokenFromHeader, TokenFromAccessCookie)
	return verifier(m.authenticated(next))
}

// rawToken returns the token string in the order the verifier searched for it
func rawToken(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return TokenFromAccessCookie(r)
}

func (m *Middleware) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, jwtauth.ErrNoTokenFound):
				m.reject(w, "token_missing", auth.ErrAccessTokenMissing)
			case errors.Is(err, jwtauth.ErrExpired):
				m.reject(w, "token_expired", auth.ErrTokenExpired)
			default:
				m.reject(w, "token_invalid", auth.ErrInvalidToken)
			}
			return
		}
		if token == nil {
			m.reject(w, "token_invalid", auth.ErrInvalidToken)
			return
		}

		tokenType, _ := claims["type"].(string)
		accountID, _ := claims["account_id"].(string)
		if tokenType != string(jwt.TypeAccess) || accountID == "" {
			m.reject(w, "token_invalid", auth.ErrInvalidToken)
			return
		}

		// The marker holds the latest access token; anything else was superseded or logged out
		marker, err := m.sessionStore.Get(r.Context(), session.SessionKey(accountID))
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			response.HandleError(w, err)
			return
		}
		if err != nil || marker != rawToken(r) {
			m.reject(w, "session_not_found", auth.ErrSessionNotFound)
			return
		}

		principal := auth.Principal{AccountID: accountID}
		principal.Email, _ = claims["email"].(string)
		principal.Role, _ = claims["role"].(string)
		principal.Verified, _ = claims["verified"].(bool)
		principal.Active, _ = claims["active"].(bool)

		raw, err := m.sessionStore.Get(r.Context(), session.PrivilegeKey(accountID))
		switch {
		case err == nil:
			if principal.Privileges, err = privilege.Decode(raw); err != nil {
				response.HandleError(w, err)
				return
			}
		case !errors.Is(err, session.ErrNotFound):
			response.HandleError(w, err)
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTokenType guards the registration and recovery steps that take an
// otp or password_setup bearer token instead of an access token.
func (m *Middleware) RequireTokenType(want jwt.TokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				m.reject(w, "token_missing", auth.ErrAccessTokenMissing)
				return
			}

			claims, err := m.jwtService.VerifyFlowToken(token, want)
			if err != nil {
				if errors.Is(err, jwt.ErrExpired) {
					m.reject(w, "token_expired", auth.ErrTokenExpired)
					return
				}
				m.reject(w, "token_invalid", auth.ErrInvalidToken)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), auth.Principal{
				AccountID: claims.AccountID,
				Email:     claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
