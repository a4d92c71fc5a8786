package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const (
	oauthStateCookie = "state"
	oauthCallbackURL = "/api/v1/auth/oauth/callback/google"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)

	// Registration and recovery
	CheckInviteCode(w http.ResponseWriter, r *http.Request)
	SubmitPersonalInfo(w http.ResponseWriter, r *http.Request)
	SendOTP(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
	SetPassword(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService   jwt.Service
	authService  auth.AuthService
	frontendURL  string
	cookieSecure bool
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, frontendURL string, cookieSecure bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:   jwtService,
		authService:  authService,
		frontendURL:  frontendURL,
		cookieSecure: cookieSecure,
	}
}

// setSessionCookies writes the access cookie and, when present, the refresh cookie
func (a *AuthHandlerImpl) setSessionCookies(w http.ResponseWriter, tokenResponse auth.TokenResponse) {
	http.SetCookie(w, a.jwtService.AccessTokenCookie(tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn))
	if tokenResponse.RefreshToken != "" {
		http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		slog.Error("Login validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	a.setSessionCookies(w, tokenResponse)
	slog.Info("Account logged in successfully", "account_id", tokenResponse.Account.ID)
	response.SuccessWithMessage(w, "Logged in successfully", tokenResponse)
}

// LoginWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	redirect, err := a.authService.LoginWithGoogle(r.Context())
	if err != nil {
		slog.Error("LoginWithGoogle service error", "error", err)
		response.HandleError(w, err)
		return
	}

	cookie := &http.Cookie{
		Name:     oauthStateCookie,
		Value:    redirect.State,
		Path:     oauthCallbackURL,
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, redirect.RedirectURL, http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	// Helper function to redirect to frontend with error
	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/callback/google?error=%s", a.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	if errorValue := r.URL.Query().Get("error"); errorValue != "" {
		slog.Error("Error in OAuth callback", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	stateReq, err := r.Cookie(oauthStateCookie)
	if err != nil || stateReq.Value == "" {
		slog.Error("State cookie not found", "error", auth.ErrOAuthStateMismatch)
		redirectWithError("state_cookie_not_found")
		return
	}
	if r.URL.Query().Get("state") != stateReq.Value {
		slog.Error("State mismatch", "error", auth.ErrOAuthStateMismatch)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Error("Code value is empty")
		redirectWithError("code_empty")
		return
	}

	tokenResponse, err := a.authService.OAuthCallbackGoogle(r.Context(), code)
	if err != nil {
		slog.Error("Failed to login with Google", "error", err)
		switch {
		case errors.Is(err, auth.ErrGoogleNotLinked):
			redirectWithError("account_not_found")
		case errors.Is(err, auth.ErrAccountInactive):
			redirectWithError("account_inactive")
		default:
			redirectWithError("login_failed")
		}
		return
	}

	a.setSessionCookies(w, tokenResponse)
	slog.Info("Account logged in successfully via Google OAuth", "account_id", tokenResponse.Account.ID)

	// Redirect to frontend with access token
	redirectURL := fmt.Sprintf("%s/auth/callback/google?access_token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// Logout implements AuthHandler. It always succeeds; the account is taken from
// the refresh cookie, falling back to the access token.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var accountID string
	if cookie, err := r.Cookie(jwt.RefreshTokenCookieName); err == nil {
		if claims, err := a.jwtService.VerifyRefreshToken(cookie.Value); err == nil {
			accountID = claims.AccountID
		}
	}
	if accountID == "" {
		token := jwtauth.TokenFromHeader(r)
		if token == "" {
			token = middleware.TokenFromAccessCookie(r)
		}
		if claims, err := a.jwtService.VerifyAccessToken(token); err == nil {
			accountID = claims.AccountID
		}
	}

	if accountID != "" {
		a.authService.Logout(r.Context(), accountID)
	}

	for _, cookie := range a.jwtService.ClearCookies() {
		http.SetCookie(w, cookie)
	}
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	// Try to get refresh token from cookie first (preferred method)
	refreshTokenCookie, err := r.Cookie(jwt.RefreshTokenCookieName)
	if err == nil && refreshTokenCookie.Value != "" {
		refreshTokenReq.RefreshToken = refreshTokenCookie.Value
	} else {
		// Fallback: try to get from JSON body
		if err := json.NewDecoder(r.Body).Decode(&refreshTokenReq); err != nil && !errors.Is(err, io.EOF) {
			slog.Error("Refresh Token decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	// Call service
	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq.RefreshToken)
	if err != nil {
		slog.Error("Refresh Token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	a.setSessionCookies(w, tokenResponse)
	slog.Info("Token refreshed successfully", "account_id", tokenResponse.Account.ID)
	response.SuccessWithMessage(w, "Token refreshed successfully", tokenResponse)
}

// CheckInviteCode implements AuthHandler.
func (a *AuthHandlerImpl) CheckInviteCode(w http.ResponseWriter, r *http.Request) {
	var req auth.InviteCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckInviteCode decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.CheckInviteCode(r.Context(), req)
	if err != nil {
		slog.Error("CheckInviteCode service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SubmitPersonalInfo implements AuthHandler.
func (a *AuthHandlerImpl) SubmitPersonalInfo(w http.ResponseWriter, r *http.Request) {
	var req auth.PersonalInfoRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitPersonalInfo decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.SubmitPersonalInfo(r.Context(), req)
	if err != nil {
		slog.Error("SubmitPersonalInfo service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Verification code has been sent", result)
}

// SendOTP implements AuthHandler.
func (a *AuthHandlerImpl) SendOTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := a.authService.SendOTP(r.Context(), principal.AccountID, principal.Email); err != nil {
		slog.Error("SendOTP service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Verification code has been sent", nil)
}

// VerifyOTP implements AuthHandler.
func (a *AuthHandlerImpl) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("VerifyOTP decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.VerifyOTP(r.Context(), principal.AccountID, principal.Email, req)
	if err != nil {
		slog.Error("VerifyOTP service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Verification code accepted", result)
}

// SetPassword implements AuthHandler.
func (a *AuthHandlerImpl) SetPassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req auth.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetPassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.SetPassword(r.Context(), principal.AccountID, req)
	if err != nil {
		slog.Error("SetPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	a.setSessionCookies(w, tokenResponse)
	slog.Info("Password set successfully", "account_id", principal.AccountID)
	response.SuccessWithMessage(w, "Password set successfully", tokenResponse)
}

// ForgotPassword implements AuthHandler.
func (a *AuthHandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var forgotPasswordReq auth.ForgotPasswordRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&forgotPasswordReq); err != nil {
		slog.Error("ForgotPassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Call service
	result, err := a.authService.ForgotPassword(r.Context(), forgotPasswordReq)
	if err != nil {
		slog.Error("ForgotPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response - always the same to prevent email enumeration
	response.SuccessWithMessage(w, "If the email is registered, a verification code has been sent", result)
}
