package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Session      SessionConfig
	OTP          OTPConfig
	App          AppConfig
	SMTP         SMTPConfig
	MailQueue    MailQueueConfig
	Storage      StorageConfig
	Invitation   InvitationConfig
	ServiceAuth  ServiceAuthConfig
	OAuth2Google OAuth2GoogleConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds token secrets and lifetimes
type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	OTPSecret            string
	AccessExpiration     time.Duration
	RefreshExpiration    time.Duration
	OTPTokenExpiration   time.Duration
	PasswordSetupExpires time.Duration
}

// SessionConfig holds cache TTLs for the session marker and privilege map
type SessionConfig struct {
	TTL          time.Duration
	PrivilegeTTL time.Duration
}

type OTPConfig struct {
	Length         int
	TTL            time.Duration
	RequestsPerMin int
	MaxAttempts    int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port         int
	Env          string
	LogLevel     string
	FrontendURL  string
	CookieSecure bool
	// TrustProxy honors X-Forwarded-For / X-Real-IP; enable only behind a proxy that sets them
	TrustProxy bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type MailQueueConfig struct {
	Name        string
	MaxAttempts int
	BaseBackoff time.Duration
}

type StorageConfig struct {
	Type          string
	BasePath      string
	BaseURL       string
	MaxUploadSize int64
}

type InvitationConfig struct {
	RegisterURL string
}

type ServiceAuthConfig struct {
	APIKey string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google login is configured
func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, reading configuration from environment")
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr_admin"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		TrustProxy:   getEnv("TRUST_PROXY", "false") == "true",
	}

	// JWT configuration
	config.JWT = JWTConfig{
		AccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		OTPSecret:     getEnv("JWT_OTP_SECRET", ""),
	}
	if config.JWT.AccessExpiration, err = getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", "15m"); err != nil {
		return nil, err
	}
	if config.JWT.RefreshExpiration, err = getEnvDuration("JWT_REFRESH_EXPIRATION_TIME", "168h"); err != nil {
		return nil, err
	}
	if config.JWT.OTPTokenExpiration, err = getEnvDuration("JWT_OTP_EXPIRATION_TIME", "15m"); err != nil {
		return nil, err
	}
	if config.JWT.PasswordSetupExpires, err = getEnvDuration("JWT_PASSWORD_SETUP_EXPIRATION_TIME", "10m"); err != nil {
		return nil, err
	}

	// Session configuration
	if config.Session.TTL, err = getEnvDuration("SESSION_TTL", "168h"); err != nil {
		return nil, err
	}
	if config.Session.PrivilegeTTL, err = getEnvDuration("SESSION_PRIVILEGE_TTL", "168h"); err != nil {
		return nil, err
	}

	// OTP configuration
	otpLength, err := strconv.Atoi(getEnv("OTP_LENGTH", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_LENGTH: %w", err)
	}
	otpRate, err := strconv.Atoi(getEnv("OTP_REQUESTS_PER_MINUTE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_REQUESTS_PER_MINUTE: %w", err)
	}
	otpAttempts, err := strconv.Atoi(getEnv("OTP_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_MAX_ATTEMPTS: %w", err)
	}
	config.OTP = OTPConfig{Length: otpLength, RequestsPerMin: otpRate, MaxAttempts: otpAttempts}
	if config.OTP.TTL, err = getEnvDuration("OTP_TTL", "5m"); err != nil {
		return nil, err
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Admin"),
	}

	// Mail queue configuration
	maxAttempts, err := strconv.Atoi(getEnv("MAIL_QUEUE_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_QUEUE_MAX_ATTEMPTS: %w", err)
	}
	config.MailQueue = MailQueueConfig{
		Name:        getEnv("MAIL_QUEUE_NAME", "mail"),
		MaxAttempts: maxAttempts,
	}
	if config.MailQueue.BaseBackoff, err = getEnvDuration("MAIL_QUEUE_BACKOFF", "1s"); err != nil {
		return nil, err
	}

	// Storage configuration
	maxUpload, err := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_BYTES", "5242880"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_MAX_UPLOAD_BYTES: %w", err)
	}
	config.Storage = StorageConfig{
		Type:          getEnv("STORAGE_TYPE", "local"),
		BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		MaxUploadSize: maxUpload,
	}

	config.Invitation = InvitationConfig{
		RegisterURL: getEnv("INVITATION_REGISTER_URL", config.App.FrontendURL+"/register"),
	}

	config.ServiceAuth = ServiceAuthConfig{
		APIKey: getEnv("SERVICE_API_KEY", ""),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.AccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is required")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_REFRESH_SECRET must differ from JWT_ACCESS_SECRET")
	}
	if c.JWT.OTPSecret == "" {
		return errors.New("JWT_OTP_SECRET is required")
	}
	if c.ServiceAuth.APIKey == "" {
		return errors.New("SERVICE_API_KEY is required")
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return errors.New("OTP_LENGTH must be between 4 and 10")
	}
	if c.OTP.RequestsPerMin < 1 {
		return errors.New("OTP_REQUESTS_PER_MINUTE must be at least 1")
	}
	if c.OTP.MaxAttempts < 1 {
		return errors.New("OTP_MAX_ATTEMPTS must be at least 1")
	}
	if c.MailQueue.MaxAttempts < 1 {
		return errors.New("MAIL_QUEUE_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
