package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterConfig carries the settings the route tree depends on
type RouterConfig struct {
	Env                string
	Version            string
	AllowedOrigins     []string
	APIKey             string
	UploadDir          string
	GoogleEnabled      bool
	AuthRequestsPerMin int
	// TrustProxy lets forwarding headers set the client address
	TrustProxy bool
	// AuthLimiter overrides the limiter built from AuthRequestsPerMin
	AuthLimiter *ratelimit.Limiter
}

type Handlers struct {
	Auth       AuthHandler
	Account    AccountHandler
	Master     MasterHandler
	Role       RoleHandler
	InviteCode InviteCodeHandler
	Upload     UploadHandler
	Web        WebHandler
}

func NewRouter(cfg RouterConfig, mw *middleware.Middleware, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-admin"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	if cfg.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Instrument)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", m.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	authLimiter := cfg.AuthLimiter
	if authLimiter == nil {
		authLimiter = ratelimit.PerMinute(cfg.AuthRequestsPerMin)
	}
	limited := mw.RateLimit(authLimiter)

	// can requires action on the privilege key
	can := func(key string, action privilege.Action) func(http.Handler) http.Handler {
		return mw.RequirePrivilegeActions([]string{key}, action)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(limited).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			if cfg.GoogleEnabled {
				r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
				r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
			}

			r.Route("/register", func(r chi.Router) {
				r.Use(limited)
				r.Post("/invite-code", h.Auth.CheckInviteCode)
				r.Post("/personal-info", h.Auth.SubmitPersonalInfo)
			})

			r.Route("/otp", func(r chi.Router) {
				r.Use(mw.RequireTokenType(jwt.TypeOTP))
				r.Use(limited)
				r.Post("/send", h.Auth.SendOTP)
				r.Post("/verify", h.Auth.VerifyOTP)
			})

			r.Route("/password", func(r chi.Router) {
				r.With(limited).Post("/forgot", h.Auth.ForgotPassword)
				r.With(mw.RequireTokenType(jwt.TypePasswordSetup)).Post("/set", h.Auth.SetPassword)
			})
		})

		// Portfolio site, service API key
		r.Route("/web", func(r chi.Router) {
			r.Use(mw.RequireAPIKey(cfg.APIKey))
			r.Get("/technologies", h.Web.ListTechnologies)
			r.Get("/departments", h.Web.ListDepartments)
			r.Get("/positions", h.Web.ListPositions)
		})

		// Requires authentication
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.Authenticate)

			r.Get("/me", h.Account.Me)
			r.Put("/me", h.Account.UpdateMe)

			r.Route("/accounts", func(r chi.Router) {
				r.With(can(privilege.KeyAccounts, privilege.ActionRead)).Get("/", h.Account.List)
				r.With(can(privilege.KeyAccounts, privilege.ActionCreate)).Post("/", h.Account.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(can(privilege.KeyAccounts, privilege.ActionRead)).Get("/", h.Account.Get)

					r.Group(func(r chi.Router) {
						r.Use(can(privilege.KeyAccounts, privilege.ActionUpdate))
						r.Put("/", h.Account.UpdateProfile)
						r.Patch("/deactivate", h.Account.Deactivate)
						r.Patch("/reactivate", h.Account.Reactivate)
						r.Post("/avatar", h.Account.UploadAvatar)
					})

					// Role assignment also needs role management rights
					r.With(mw.Require(middleware.Capability{
						PrivilegeKeys: []string{privilege.KeyRoles},
						Actions:       []privilege.Action{privilege.ActionUpdate},
					}), can(privilege.KeyAccounts, privilege.ActionUpdate)).Put("/role", h.Account.ChangeRole)
				})
			})

			r.Route("/roles", func(r chi.Router) {
				r.Use(mw.RequireRoles(role.RoleSuperAdmin, role.RoleAdmin))
				r.With(can(privilege.KeyRoles, privilege.ActionRead)).Get("/", h.Role.List)
				r.With(can(privilege.KeyRoles, privilege.ActionCreate)).Post("/", h.Role.Create)
				r.With(can(privilege.KeyRoles, privilege.ActionRead)).Get("/{id}", h.Role.Get)
				r.With(can(privilege.KeyRoles, privilege.ActionUpdate)).Put("/{id}", h.Role.Update)
				r.With(can(privilege.KeyRoles, privilege.ActionDelete)).Delete("/{id}", h.Role.Delete)
			})

			r.Route("/departments", func(r chi.Router) {
				r.With(can(privilege.KeyDepartments, privilege.ActionRead)).Get("/", h.Master.ListDepartments)
				r.With(can(privilege.KeyDepartments, privilege.ActionCreate)).Post("/", h.Master.CreateDepartment)
				r.With(can(privilege.KeyDepartments, privilege.ActionRead)).Get("/{id}", h.Master.GetDepartment)
				r.With(can(privilege.KeyDepartments, privilege.ActionUpdate)).Put("/{id}", h.Master.UpdateDepartment)
				r.With(can(privilege.KeyDepartments, privilege.ActionDelete)).Delete("/{id}", h.Master.DeleteDepartment)
			})

			r.Route("/positions", func(r chi.Router) {
				r.With(can(privilege.KeyPositions, privilege.ActionRead)).Get("/", h.Master.ListPositions)
				r.With(can(privilege.KeyPositions, privilege.ActionCreate)).Post("/", h.Master.CreatePosition)
				r.With(can(privilege.KeyPositions, privilege.ActionRead)).Get("/{id}", h.Master.GetPosition)
				r.With(can(privilege.KeyPositions, privilege.ActionUpdate)).Put("/{id}", h.Master.UpdatePosition)
				r.With(can(privilege.KeyPositions, privilege.ActionDelete)).Delete("/{id}", h.Master.DeletePosition)
			})

			r.Route("/technologies", func(r chi.Router) {
				r.With(can(privilege.KeyTechnologies, privilege.ActionRead)).Get("/", h.Master.ListTechnologies)
				r.With(can(privilege.KeyTechnologies, privilege.ActionCreate)).Post("/", h.Master.CreateTechnology)
				r.With(can(privilege.KeyTechnologies, privilege.ActionRead)).Get("/{id}", h.Master.GetTechnology)
				r.With(can(privilege.KeyTechnologies, privilege.ActionUpdate)).Put("/{id}", h.Master.UpdateTechnology)
				r.With(mw.RequirePrivilegeActions([]string{privilege.KeyTechnologies}, privilege.ActionUpdate, privilege.ActionDelete)).
					Patch("/{id}/archive", h.Master.ArchiveTechnology)
			})

			r.Route("/invite-codes", func(r chi.Router) {
				r.With(can(privilege.KeyInviteCodes, privilege.ActionRead)).Get("/", h.InviteCode.Report)
				r.With(can(privilege.KeyInviteCodes, privilege.ActionCreate)).Post("/", h.InviteCode.Generate)
				r.With(can(privilege.KeyInviteCodes, privilege.ActionUpdate)).Patch("/{id}/status", h.InviteCode.UpdateStatus)
			})

			r.With(can(privilege.KeyUploads, privilege.ActionCreate)).Post("/uploads/{key}", h.Upload.Upload)
		})
	})
	return r
}

// SplitOrigins parses a comma separated origin list
func SplitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
