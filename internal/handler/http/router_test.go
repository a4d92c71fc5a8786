package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/master/technology"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
	redisrepo "github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/redis"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/master"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "portfolio-key"
	testAccountID = "6f1d8a52-3c1e-4a7b-9d0f-2b8e5c4a1f30"
)

type fakeAuthService struct {
	auth.AuthService
	loggedOut []string
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "secret123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{
		AccessToken:           "access",
		AccessTokenExpiresIn:  time.Now().Add(time.Hour).Unix(),
		RefreshToken:          "refresh",
		RefreshTokenExpiresIn: time.Now().Add(24 * time.Hour).Unix(),
		Account:               auth.AccountSummary{ID: testAccountID, Email: req.Email},
	}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, accountID string) {
	f.loggedOut = append(f.loggedOut, accountID)
}

func (f *fakeAuthService) ForgotPassword(_ context.Context, req auth.ForgotPasswordRequest) (auth.FlowTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.FlowTokenResponse{}, err
	}
	return auth.FlowTokenResponse{Token: "otp", Type: string(jwt.TypeOTP)}, nil
}

type fakeMasterService struct {
	master.MasterService
	techFilter technology.ListFilter
}

func (f *fakeMasterService) ListTechnologies(_ context.Context, filter technology.ListFilter) (pagination.Result[technology.TechnologyResponse], error) {
	f.techFilter = filter
	return pagination.Result[technology.TechnologyResponse]{
		Items:      []technology.TechnologyResponse{{ID: "t-1", Name: "Go", Status: technology.StatusActive}},
		TotalItems: 41,
	}, nil
}

func (f *fakeMasterService) ListDepartments(_ context.Context, params pagination.Params) (pagination.Result[department.DepartmentResponse], error) {
	return pagination.Result[department.DepartmentResponse]{Items: []department.DepartmentResponse{}}, nil
}

func (f *fakeMasterService) GetDepartment(_ context.Context, id string) (department.DepartmentResponse, error) {
	return department.DepartmentResponse{}, department.ErrDepartmentNotFound
}

type fakeAccountService struct {
	account.AccountService
}

func (fakeAccountService) Get(_ context.Context, id string) (account.AccountResponse, error) {
	return account.AccountResponse{ID: id, Email: "ada@example.com"}, nil
}

type routerFixture struct {
	router  *chi.Mux
	jwt     *jwt.JWTService
	store   session.Store
	auth    *fakeAuthService
	masters *fakeMasterService
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	return newRouterFixtureWith(t, nil)
}

// newRouterFixtureWith lets a test adjust the router config before it is built
func newRouterFixtureWith(t *testing.T, configure func(*RouterConfig)) routerFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	jwtService := jwt.NewJWTService(jwt.Options{
		AccessSecret:         "access-secret",
		RefreshSecret:        "refresh-secret",
		FlowSecret:           "flow-secret",
		AccessExpiration:     15 * time.Minute,
		RefreshExpiration:    time.Hour,
		OTPExpiration:        15 * time.Minute,
		PasswordSetupExpires: 10 * time.Minute,
	})
	store := redisrepo.NewSessionStore(client)
	m := metrics.New()

	f := routerFixture{
		jwt:     jwtService,
		store:   store,
		auth:    &fakeAuthService{},
		masters: &fakeMasterService{},
	}
	cfg := RouterConfig{
		Env:                "test",
		AllowedOrigins:     []string{"http://localhost:3000"},
		APIKey:             testAPIKey,
		UploadDir:          t.TempDir(),
		AuthRequestsPerMin: 100,
	}
	if configure != nil {
		configure(&cfg)
	}
	f.router = NewRouter(cfg, middleware.New(jwtService.AccessAuth(), jwtService, store, m), m, Handlers{
		Auth:    NewAuthHandler(jwtService, f.auth, "http://localhost:3000", false),
		Account: NewAccountHandler(fakeAccountService{}, 1<<20),
		Master:  NewMasterHandler(f.masters),
		Web:     NewWebHandler(f.masters),
	})
	return f
}

// login stores a session like the auth service would and returns the access token
func (f routerFixture) login(t *testing.T, privileges privilege.Map) string {
	t.Helper()
	ctx := context.Background()

	token, _, err := f.jwt.GenerateAccessToken(jwt.AccessClaims{AccountID: testAccountID, Role: "admin", Active: true, Verified: true})
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, session.SessionKey(testAccountID), token, time.Hour))
	encoded, err := privilege.Encode(privileges)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, session.PrivilegeKey(testAccountID), encoded, time.Hour))
	return token
}

func (f routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code      string            `json:"code"`
		ErrorCode int               `json:"error_code"`
		Details   map[string]string `json:"details"`
	} `json:"error"`
	Meta struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin_SetsCookies(t *testing.T) {
	f := newRouterFixture(t)

	body := bytes.NewBufferString(`{"email":"ada@example.com","password":"secret123"}`)
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	assert.Equal(t, "access", cookies[jwt.AccessTokenCookieName])
	assert.Equal(t, "refresh", cookies[jwt.RefreshTokenCookieName])
	assert.NotContains(t, rec.Body.String(), `"refresh"`)
}

func TestLogin_Errors(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"bad","password":""}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "email")

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"ada@example.com","password":"wrong-pass1"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 1005, body.Error.ErrorCode)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestLogin_RateLimitIgnoresForwardedFor(t *testing.T) {
	f := newRouterFixtureWith(t, func(cfg *RouterConfig) { cfg.AuthRequestsPerMin = 1 })

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"ada@example.com","password":"secret123"}`))
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		return f.do(req).Code
	}

	assert.Equal(t, http.StatusOK, login("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.3"))
}

func TestLogin_RateLimitBehindTrustedProxy(t *testing.T) {
	f := newRouterFixtureWith(t, func(cfg *RouterConfig) {
		cfg.AuthRequestsPerMin = 1
		cfg.TrustProxy = true
	})

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"ada@example.com","password":"secret123"}`))
		req.RemoteAddr = "10.0.0.2:40000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		return f.do(req).Code
	}

	assert.Equal(t, http.StatusOK, login("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.1"))
	assert.Equal(t, http.StatusOK, login("203.0.113.2"))
}

func TestLogout_ClearsCookiesAndSession(t *testing.T) {
	f := newRouterFixture(t)
	refresh, _, err := f.jwt.GenerateRefreshToken(testAccountID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookieName, Value: refresh})
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{testAccountID}, f.auth.loggedOut)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestLogout_WithoutTokens(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.auth.loggedOut)
}

func TestForgotPassword_ValidationError(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/password/forgot", bytes.NewBufferString(`{"email":""}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "email")
}

func TestOTPRoutes_RequireOTPToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", bytes.NewBufferString(`{"code":"123456"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1001, decode(t, rec).Error.ErrorCode)

	setup, _, err := f.jwt.GeneratePasswordSetupToken(testAccountID, "ada@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", bytes.NewBufferString(`{"code":"123456"}`))
	req.Header.Set("Authorization", "Bearer "+setup)
	rec = f.do(req)
	assert.Equal(t, 1003, decode(t, rec).Error.ErrorCode)
}

func TestWebRoutes_RequireAPIKey(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/web/technologies", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 2003, decode(t, rec).Error.ErrorCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/web/technologies?page=2&limit=20", nil)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	rec = f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.masters.techFilter.Status)
	assert.Equal(t, technology.StatusActive, *f.masters.techFilter.Status)

	body := decode(t, rec)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, int64(41), body.Meta.TotalItems)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestAdminRoutes(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("unauthenticated", func(t *testing.T) {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/departments", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing privilege", func(t *testing.T) {
		token := f.login(t, privilege.Map{privilege.KeyTechnologies: {privilege.ActionRead: true}})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/departments", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := f.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 2002, decode(t, rec).Error.ErrorCode)
	})

	t.Run("allowed", func(t *testing.T) {
		token := f.login(t, privilege.Map{privilege.KeyDepartments: {privilege.ActionRead: true}})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/departments?need_pagination=false", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := f.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("domain error maps to status", func(t *testing.T) {
		token := f.login(t, privilege.Map{privilege.KeyDepartments: {privilege.ActionRead: true}})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/departments/"+testAccountID, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := f.do(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 3007, decode(t, rec).Error.ErrorCode)
	})

	t.Run("me needs no privilege", func(t *testing.T) {
		token := f.login(t, privilege.Map{})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(decode(t, rec).Data), testAccountID)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	f.do(httptest.NewRequest(http.MethodGet, "/api/v1/web/technologies", nil))
	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_guard_rejections_total")
}
