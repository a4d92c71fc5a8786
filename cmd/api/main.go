package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/queue"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/postgresql"
	redisrepo "github.com/cmlabs-hris/hr-admin-backend-go/internal/repository/redis"
	accountService "github.com/cmlabs-hris/hr-admin-backend-go/internal/service/account"
	serviceAuth "github.com/cmlabs-hris/hr-admin-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/file"
	inviteCodeService "github.com/cmlabs-hris/hr-admin-backend-go/internal/service/invitecode"
	mailService "github.com/cmlabs-hris/hr-admin-backend-go/internal/service/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/master"
	roleService "github.com/cmlabs-hris/hr-admin-backend-go/internal/service/role"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout    = 15 * time.Second
	limiterSweepPeriod = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	redisClient, err := redisrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Error connecting to redis: ", err)
	}
	defer redisClient.Close()

	accountRepo := postgresql.NewAccountRepository(db)
	roleRepo := postgresql.NewRoleRepository(db)
	inviteCodeRepo := postgresql.NewInviteCodeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	technologyRepo := postgresql.NewTechnologyRepository(db)
	transactor := postgresql.NewTransactor(db)
	sessionStore := redisrepo.NewSessionStore(redisClient)

	appMetrics := metrics.New()

	JWTService := jwt.NewJWTService(jwt.Options{
		AccessSecret:         cfg.JWT.AccessSecret,
		RefreshSecret:        cfg.JWT.RefreshSecret,
		FlowSecret:           cfg.JWT.OTPSecret,
		AccessExpiration:     cfg.JWT.AccessExpiration,
		RefreshExpiration:    cfg.JWT.RefreshExpiration,
		OTPExpiration:        cfg.JWT.OTPTokenExpiration,
		PasswordSetupExpires: cfg.JWT.PasswordSetupExpires,
		CookieSecure:         cfg.App.CookieSecure,
	})

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.MaxUploadSize)

	emailService, err := email.NewEmailService(email.NewSMTPSender(cfg.SMTP))
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	mailQueue := queue.NewRedisQueue(redisClient, cfg.MailQueue.Name)
	dispatcher := mailService.NewDispatcher(mailQueue)
	mailWorker := mailService.NewWorker(mailQueue, emailService, accountRepo, appMetrics, mailService.WorkerOptions{
		MaxAttempts: cfg.MailQueue.MaxAttempts,
		BaseBackoff: cfg.MailQueue.BaseBackoff,
		RegisterURL: cfg.Invitation.RegisterURL,
	})

	roleSvc := roleService.NewRoleService(roleRepo)
	authSvc := serviceAuth.NewAuthService(
		accountRepo,
		inviteCodeRepo,
		roleSvc,
		transactor,
		sessionStore,
		JWTService,
		dispatcher,
		googleService,
		appMetrics,
		serviceAuth.Options{
			SessionTTL:     cfg.Session.TTL,
			PrivilegeTTL:   cfg.Session.PrivilegeTTL,
			OTPLength:      cfg.OTP.Length,
			OTPTTL:         cfg.OTP.TTL,
			OTPMaxAttempts: cfg.OTP.MaxAttempts,
		},
	)
	accountSvc := accountService.NewAccountService(accountRepo, roleRepo, sessionStore, fileService)
	masterSvc := master.NewMasterService(departmentRepo, positionRepo, technologyRepo)
	inviteCodeSvc := inviteCodeService.NewInviteCodeService(inviteCodeRepo, dispatcher)

	authLimiter := ratelimit.PerMinute(cfg.OTP.RequestsPerMin)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: appHTTP.SplitOrigins(cfg.App.FrontendURL),
			APIKey:         cfg.ServiceAuth.APIKey,
			UploadDir:      cfg.Storage.BasePath,
			GoogleEnabled:  googleService != nil,
			TrustProxy:     cfg.App.TrustProxy,
			AuthLimiter:    authLimiter,
		},
		middleware.New(JWTService.AccessAuth(), JWTService, sessionStore, appMetrics),
		appMetrics,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, cfg.App.FrontendURL, cfg.App.CookieSecure),
			Account:    appHTTP.NewAccountHandler(accountSvc, cfg.Storage.MaxUploadSize),
			Master:     appHTTP.NewMasterHandler(masterSvc),
			Role:       appHTTP.NewRoleHandler(roleSvc),
			InviteCode: appHTTP.NewInviteCodeHandler(inviteCodeSvc),
			Upload:     appHTTP.NewUploadHandler(fileService, cfg.Storage.MaxUploadSize),
			Web:        appHTTP.NewWebHandler(masterSvc),
		},
	)

	go mailWorker.Run(ctx)
	go sweepLimiter(ctx, authLimiter)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func sweepLimiter(ctx context.Context, l *ratelimit.Limiter) {
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
