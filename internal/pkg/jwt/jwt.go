package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type TokenType string

const (
	TypeAccess        TokenType = "access"
	TypeRefresh       TokenType = "refresh"
	TypeOTP           TokenType = "otp"
	TypePasswordSetup TokenType = "password_setup"
)

const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
	refreshCookiePath      = "/api/v1/auth"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// AccessClaims is the identity embedded in an access token
type AccessClaims struct {
	AccountID string
	Email     string
	Role      string
	Verified  bool
	Active    bool
}

// Claims is a decoded token of any type
type Claims struct {
	AccessClaims
	Type      TokenType
	ExpiresAt time.Time
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(accountID string) (token string, expiresAt int64, err error)
	GenerateOTPToken(accountID, email string) (token string, expiresAt int64, err error)
	GeneratePasswordSetupToken(accountID, email string) (token string, expiresAt int64, err error)
	VerifyAccessToken(token string) (*Claims, error)
	VerifyRefreshToken(token string) (*Claims, error)
	VerifyFlowToken(token string, want TokenType) (*Claims, error)
	AccessTokenCookie(token string, expiresAt int64) *http.Cookie
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearCookies() []*http.Cookie
}

// Options configures lifetimes and cookie flags
type Options struct {
	AccessSecret         string
	RefreshSecret        string
	FlowSecret           string
	AccessExpiration     time.Duration
	RefreshExpiration    time.Duration
	OTPExpiration        time.Duration
	PasswordSetupExpires time.Duration
	CookieSecure         bool
}

type JWTService struct {
	opts        Options
	accessAuth  *jwtauth.JWTAuth
	refreshAuth *jwtauth.JWTAuth
	flowAuth    *jwtauth.JWTAuth
	now         func() time.Time
}

func NewJWTService(opts Options) *JWTService {
	return &JWTService{
		opts:        opts,
		accessAuth:  newAuth(opts.AccessSecret),
		refreshAuth: newAuth(opts.RefreshSecret),
		flowAuth:    newAuth(opts.FlowSecret),
		now:         time.Now,
	}
}

func newAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second))
}

// AccessAuth exposes the access token signer for middleware
func (j *JWTService) AccessAuth() *jwtauth.JWTAuth {
	return j.accessAuth
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.opts.AccessExpiration).Unix()
	_, token, err = j.accessAuth.Encode(map[string]interface{}{
		"account_id": c.AccountID,
		"email":      c.Email,
		"role":       c.Role,
		"verified":   c.Verified,
		"active":     c.Active,
		"type":       string(TypeAccess),
		"exp":        expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(accountID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.opts.RefreshExpiration).Unix()
	_, token, err = j.refreshAuth.Encode(map[string]interface{}{
		"account_id": accountID,
		"type":       string(TypeRefresh),
		"exp":        expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateOTPToken(accountID, email string) (token string, expiresAt int64, err error) {
	return j.flowToken(accountID, email, TypeOTP, j.opts.OTPExpiration)
}

func (j *JWTService) GeneratePasswordSetupToken(accountID, email string) (token string, expiresAt int64, err error) {
	return j.flowToken(accountID, email, TypePasswordSetup, j.opts.PasswordSetupExpires)
}

func (j *JWTService) flowToken(accountID, email string, typ TokenType, ttl time.Duration) (string, int64, error) {
	expiresAt := j.now().Add(ttl).Unix()
	_, token, err := j.flowAuth.Encode(map[string]interface{}{
		"account_id": accountID,
		"email":      email,
		"type":       string(typ),
		"exp":        expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) VerifyAccessToken(token string) (*Claims, error) {
	return verify(j.accessAuth, token, TypeAccess)
}

func (j *JWTService) VerifyRefreshToken(token string) (*Claims, error) {
	return verify(j.refreshAuth, token, TypeRefresh)
}

// VerifyFlowToken verifies an otp or password_setup token
func (j *JWTService) VerifyFlowToken(token string, want TokenType) (*Claims, error) {
	return verify(j.flowAuth, token, want)
}

func verify(auth *jwtauth.JWTAuth, tokenString string, want TokenType) (*Claims, error) {
	token, err := jwtauth.VerifyToken(auth, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims := &Claims{
		AccessClaims: AccessClaims{
			AccountID: stringClaim(token, "account_id"),
			Email:     stringClaim(token, "email"),
			Role:      stringClaim(token, "role"),
			Verified:  boolClaim(token, "verified"),
			Active:    boolClaim(token, "active"),
		},
		Type:      TokenType(stringClaim(token, "type")),
		ExpiresAt: token.Expiration(),
	}

	if claims.Type != want || claims.AccountID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func boolClaim(token jwt.Token, name string) bool {
	v, ok := token.Get(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (j *JWTService) AccessTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookies expires both auth cookies
func (j *JWTService) ClearCookies() []*http.Cookie {
	access := j.AccessTokenCookie("", 0)
	access.MaxAge = -1
	refresh := j.RefreshTokenCookie("", 0)
	refresh.MaxAge = -1
	return []*http.Cookie{access, refresh}
}
