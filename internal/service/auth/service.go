package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/invitecode"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/otp"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var ErrGoogleDisabled = errors.New("google login is not configured")

const defaultOTPMaxAttempts = 5

// Options holds the cache lifetimes and OTP shape
type Options struct {
	SessionTTL   time.Duration
	PrivilegeTTL time.Duration
	OTPLength    int
	OTPTTL       time.Duration
	// OTPMaxAttempts is how many wrong codes burn a stored OTP
	OTPMaxAttempts int
}

// otpRecord is stored under session.OTPKey; the code itself is never persisted
type otpRecord struct {
	AccountID string `json:"account_id"`
	CodeHash  string `json:"code_hash"`
	Attempts  int    `json:"attempts"`
}

type AuthServiceImpl struct {
	accountRepo    account.AccountRepository
	inviteCodeRepo invitecode.InviteCodeRepository
	roleResolver   role.Resolver
	transactor     postgresql.Transactor
	sessionStore   session.Store
	jwtService     jwt.Service
	dispatcher     mail.Dispatcher
	google         oauth.GoogleService
	metrics        *metrics.Metrics
	opts           Options
}

func NewAuthService(
	accountRepo account.AccountRepository,
	inviteCodeRepo invitecode.InviteCodeRepository,
	roleResolver role.Resolver,
	transactor postgresql.Transactor,
	sessionStore session.Store,
	jwtService jwt.Service,
	dispatcher mail.Dispatcher,
	google oauth.GoogleService,
	m *metrics.Metrics,
	opts Options,
) *AuthServiceImpl {
	if opts.OTPMaxAttempts < 1 {
		opts.OTPMaxAttempts = defaultOTPMaxAttempts
	}
	return &AuthServiceImpl{
		accountRepo:    accountRepo,
		inviteCodeRepo: inviteCodeRepo,
		roleResolver:   roleResolver,
		transactor:     transactor,
		sessionStore:   sessionStore,
		jwtService:     jwtService,
		dispatcher:     dispatcher,
		google:         google,
		metrics:        m,
		opts:           opts,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	acc, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			s.metrics.LoginAttempt("invalid_credentials")
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		s.metrics.LoginAttempt("error")
		return auth.TokenResponse{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	// Cek password
	if acc.PasswordHash == nil {
		s.metrics.LoginAttempt("invalid_credentials")
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.LoginAttempt("invalid_credentials")
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := checkCanLogin(acc); err != nil {
		s.metrics.LoginAttempt("inactive")
		return auth.TokenResponse{}, err
	}

	resp, err := s.issueSession(ctx, acc)
	if err != nil {
		s.metrics.LoginAttempt("error")
		return auth.TokenResponse{}, err
	}
	s.metrics.LoginAttempt("success")
	return resp, nil
}

func checkCanLogin(acc account.Account) error {
	switch acc.Status {
	case account.StatusActive:
		return nil
	case account.StatusPending:
		return auth.ErrAccountNotVerified
	case account.StatusVerified:
		return auth.ErrPasswordNotSet
	default:
		return auth.ErrAccountInactive
	}
}

// issueSession mints an access/refresh pair, records the session marker and caches privileges
func (s *AuthServiceImpl) issueSession(ctx context.Context, acc account.Account) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = s.jwtService.GenerateAccessToken(accessClaims(acc))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = s.jwtService.GenerateRefreshToken(acc.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := s.sessionStore.Set(ctx, session.SessionKey(acc.ID), resp.AccessToken, s.opts.SessionTTL); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store session: %w", err)
	}
	if err := s.cachePrivileges(ctx, acc); err != nil {
		return auth.TokenResponse{}, err
	}

	resp.Account = summary(acc)
	return resp, nil
}

func (s *AuthServiceImpl) cachePrivileges(ctx context.Context, acc account.Account) error {
	privileges, err := s.roleResolver.Resolve(ctx, acc.Role)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			// A missing role leaves the account with no privileges
			slog.Warn("role of account not found", "account_id", acc.ID, "role", acc.Role)
			return s.sessionStore.Delete(ctx, session.PrivilegeKey(acc.ID))
		}
		return fmt.Errorf("failed to resolve privileges: %w", err)
	}

	encoded, err := privilege.Encode(privileges)
	if err != nil {
		return fmt.Errorf("failed to encode privileges: %w", err)
	}
	if err := s.sessionStore.Set(ctx, session.PrivilegeKey(acc.ID), encoded, s.opts.PrivilegeTTL); err != nil {
		return fmt.Errorf("failed to cache privileges: %w", err)
	}
	return nil
}

func accessClaims(acc account.Account) jwt.AccessClaims {
	return jwt.AccessClaims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
		Verified:  acc.IsVerified(),
		Active:    acc.IsActive(),
	}
}

func summary(acc account.Account) auth.AccountSummary {
	return auth.AccountSummary{
		ID:       acc.ID,
		Email:    acc.Email,
		FullName: acc.Profile.FullName,
		Role:     acc.Role,
		Status:   string(acc.Status),
	}
}

// Logout implements auth.AuthService. Store failures are logged only.
func (s *AuthServiceImpl) Logout(ctx context.Context, accountID string) {
	if err := s.sessionStore.Delete(ctx, session.SessionKey(accountID), session.PrivilegeKey(accountID)); err != nil {
		slog.Error("failed to delete session", "account_id", accountID, "error", err)
	}
}

// RefreshToken implements auth.AuthService.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	if refreshToken == "" {
		return auth.TokenResponse{}, auth.ErrRefreshTokenMissing
	}

	claims, err := s.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return auth.TokenResponse{}, auth.ErrRefreshTokenExpired
		}
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	if _, err := s.sessionStore.Get(ctx, session.SessionKey(claims.AccountID)); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return auth.TokenResponse{}, auth.ErrSessionNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	acc, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get account: %w", err)
	}
	if !acc.IsActive() {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.TokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = s.jwtService.GenerateAccessToken(accessClaims(acc))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	if err := s.sessionStore.Set(ctx, session.SessionKey(acc.ID), resp.AccessToken, s.opts.SessionTTL); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store session: %w", err)
	}
	if err := s.cachePrivileges(ctx, acc); err != nil {
		return auth.TokenResponse{}, err
	}

	resp.Account = summary(acc)
	return resp, nil
}

// LoginWithGoogle implements auth.AuthService.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context) (auth.GoogleLoginResponse, error) {
	if s.google == nil {
		return auth.GoogleLoginResponse{}, ErrGoogleDisabled
	}
	state, err := s.google.GenerateState()
	if err != nil {
		return auth.GoogleLoginResponse{}, err
	}
	return auth.GoogleLoginResponse{
		RedirectURL: s.google.RedirectURL(state),
		State:       state,
	}, nil
}

// OAuthCallbackGoogle implements auth.AuthService. Only accounts that already
// exist may sign in with Google; the Google ID is linked on first use.
func (s *AuthServiceImpl) OAuthCallbackGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	if s.google == nil {
		return auth.TokenResponse{}, ErrGoogleDisabled
	}

	info, err := s.google.Identify(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			s.metrics.LoginAttempt("invalid_credentials")
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to identify google account: %w", err)
	}

	acc, err := s.accountRepo.GetByEmail(ctx, strings.ToLower(info.Email))
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			s.metrics.LoginAttempt("invalid_credentials")
			return auth.TokenResponse{}, auth.ErrGoogleNotLinked
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if acc.GoogleID != nil && *acc.GoogleID != info.GoogleID {
		s.metrics.LoginAttempt("invalid_credentials")
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := checkCanLogin(acc); err != nil {
		s.metrics.LoginAttempt("inactive")
		return auth.TokenResponse{}, err
	}

	if acc.GoogleID == nil {
		if err := s.accountRepo.LinkGoogleID(ctx, acc.ID, info.GoogleID); err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
		acc.GoogleID = &info.GoogleID
	}

	resp, err := s.issueSession(ctx, acc)
	if err != nil {
		s.metrics.LoginAttempt("error")
		return auth.TokenResponse{}, err
	}
	s.metrics.LoginAttempt("success")
	return resp, nil
}

// CheckInviteCode implements auth.AuthService.
func (s *AuthServiceImpl) CheckInviteCode(ctx context.Context, req auth.InviteCodeRequest) (invitecode.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return invitecode.CheckResponse{}, err
	}

	code, err := s.inviteCodeRepo.GetActiveByCode(ctx, req.Code)
	if err != nil {
		return invitecode.CheckResponse{}, err
	}
	return invitecode.CheckResponse{
		Code:         code.Code,
		PositionID:   code.PositionID,
		PositionName: code.PositionName,
	}, nil
}

// SubmitPersonalInfo implements auth.AuthService. The code is redeemed and the
// pending account created in one transaction, then an OTP is sent.
func (s *AuthServiceImpl) SubmitPersonalInfo(ctx context.Context, req auth.PersonalInfoRequest) (auth.FlowTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.FlowTokenResponse{}, err
	}

	var created account.Account
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		code, err := s.inviteCodeRepo.Redeem(txCtx, req.Code)
		if err != nil {
			return err
		}

		phone := req.Phone
		created, err = s.accountRepo.Create(txCtx, account.Account{
			Email:      req.Email,
			Phone:      &phone,
			Role:       role.DefaultRole,
			Status:     account.StatusPending,
			InviteCode: &code.Code,
			Profile: account.Profile{
				FullName:   req.FullName,
				PositionID: &code.PositionID,
			},
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if strings.Contains(pgErr.ConstraintName, "phone") {
					return account.ErrPhoneExists
				}
				return account.ErrEmailExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.FlowTokenResponse{}, err
	}

	return s.startOTP(ctx, created)
}

// startOTP stores a fresh OTP for acc, queues its mail and returns the otp flow token
func (s *AuthServiceImpl) startOTP(ctx context.Context, acc account.Account) (auth.FlowTokenResponse, error) {
	if err := s.issueOTP(ctx, acc); err != nil {
		return auth.FlowTokenResponse{}, err
	}
	return s.otpToken(acc.ID, acc.Email)
}

func (s *AuthServiceImpl) otpToken(accountID, email string) (auth.FlowTokenResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateOTPToken(accountID, email)
	if err != nil {
		return auth.FlowTokenResponse{}, fmt.Errorf("failed to create otp token: %w", err)
	}
	return auth.FlowTokenResponse{Token: token, Type: string(jwt.TypeOTP), ExpiresIn: expiresAt}, nil
}

func (s *AuthServiceImpl) issueOTP(ctx context.Context, acc account.Account) error {
	code, err := otp.Generate(s.opts.OTPLength)
	if err != nil {
		return err
	}

	record, err := json.Marshal(otpRecord{AccountID: acc.ID, CodeHash: otp.Hash(code)})
	if err != nil {
		return fmt.Errorf("failed to encode otp: %w", err)
	}
	if err := s.sessionStore.Set(ctx, session.OTPKey(acc.Email), string(record), s.opts.OTPTTL); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	err = s.dispatcher.SendOTP(ctx, mail.OTPMail{
		AccountID:    acc.ID,
		Email:        acc.Email,
		FullName:     acc.Profile.FullName,
		Code:         code,
		ValidMinutes: int(s.opts.OTPTTL.Minutes()),
	})
	if err != nil {
		slog.Error("failed to enqueue otp mail", "account_id", acc.ID, "error", err)
		return apperror.ErrMailSend
	}
	return nil
}

// SendOTP implements auth.AuthService. Unknown accounts get no mail and no error.
func (s *AuthServiceImpl) SendOTP(ctx context.Context, accountID, email string) error {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get account: %w", err)
	}
	if acc.Email != email {
		return auth.ErrInvalidToken
	}
	if acc.Status == account.StatusDeactivated {
		return auth.ErrAccountInactive
	}
	return s.issueOTP(ctx, acc)
}

// VerifyOTP implements auth.AuthService.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, accountID, email string, req auth.VerifyOTPRequest) (auth.FlowTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.FlowTokenResponse{}, err
	}

	if err := s.consumeOTP(ctx, accountID, email, req.Code); err != nil {
		return auth.FlowTokenResponse{}, err
	}

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return auth.FlowTokenResponse{}, fmt.Errorf("failed to get account: %w", err)
	}
	switch acc.Status {
	case account.StatusPending:
		if err := s.accountRepo.UpdateStatus(ctx, acc.ID, account.StatusPending, account.StatusVerified); err != nil {
			return auth.FlowTokenResponse{}, fmt.Errorf("failed to verify account: %w", err)
		}
	case account.StatusDeactivated:
		return auth.FlowTokenResponse{}, auth.ErrAccountInactive
	}

	token, expiresAt, err := s.jwtService.GeneratePasswordSetupToken(acc.ID, acc.Email)
	if err != nil {
		return auth.FlowTokenResponse{}, fmt.Errorf("failed to create password setup token: %w", err)
	}
	return auth.FlowTokenResponse{Token: token, Type: string(jwt.TypePasswordSetup), ExpiresIn: expiresAt}, nil
}

// consumeOTP checks code against the stored record in one atomic step.
// A match removes the record; a miss counts an attempt and removes the
// record once OTPMaxAttempts is reached, keeping the remaining TTL otherwise.
func (s *AuthServiceImpl) consumeOTP(ctx context.Context, accountID, email, code string) error {
	var matched bool
	err := s.sessionStore.Update(ctx, session.OTPKey(email), func(current string) (string, session.Op, error) {
		matched = false

		var record otpRecord
		if err := json.Unmarshal([]byte(current), &record); err != nil {
			return "", session.Keep, fmt.Errorf("failed to decode otp: %w", err)
		}
		if record.AccountID == accountID && otp.Matches(code, record.CodeHash) {
			matched = true
			return "", session.Remove, nil
		}

		record.Attempts++
		if record.Attempts >= s.opts.OTPMaxAttempts {
			return "", session.Remove, nil
		}
		next, err := json.Marshal(record)
		if err != nil {
			return "", session.Keep, fmt.Errorf("failed to encode otp: %w", err)
		}
		return string(next), session.Replace, nil
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		return auth.ErrOTPExpired
	case err != nil:
		return fmt.Errorf("failed to verify otp: %w", err)
	case !matched:
		return auth.ErrOTPInvalid
	}
	return nil
}

// SetPassword implements auth.AuthService. A verified account becomes active;
// an active account is resetting its password.
func (s *AuthServiceImpl) SetPassword(ctx context.Context, accountID string, req auth.SetPasswordRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	switch acc.Status {
	case account.StatusPending:
		return auth.TokenResponse{}, auth.ErrAccountNotVerified
	case account.StatusDeactivated:
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accountRepo.SetPassword(ctx, acc.ID, string(hash), account.StatusActive); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to set password: %w", err)
	}

	hashed := string(hash)
	acc.PasswordHash = &hashed
	acc.Status = account.StatusActive
	return s.issueSession(ctx, acc)
}

// ForgotPassword implements auth.AuthService. The response has the same shape
// whether or not the email belongs to an account. A pending or verified account
// gets an OTP too, so an abandoned registration can be finished this way.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (auth.FlowTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.FlowTokenResponse{}, err
	}

	acc, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, account.ErrAccountNotFound) {
		return auth.FlowTokenResponse{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	if err != nil || acc.Status == account.StatusDeactivated {
		// No OTP is stored for this id, so verification reports it expired
		return s.otpToken(uuid.NewString(), req.Email)
	}

	return s.startOTP(ctx, acc)
}
