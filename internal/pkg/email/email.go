package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService renders and sends transactional mail. Each call is a single
// delivery attempt; retries belong to the mail queue worker.
type EmailService interface {
	SendOTP(to, fullName, code string, validMinutes int) error
	SendInviteCode(to, code, positionName, registerURL string) error
}

// Sender delivers a rendered HTML message
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type emailServiceImpl struct {
	sender    Sender
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(sender Sender) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		sender:    sender,
		templates: tmpl,
	}, nil
}

type otpEmailData struct {
	FullName     string
	Code         string
	ValidMinutes int
}

// SendOTP sends a one-time verification code
func (s *emailServiceImpl) SendOTP(to, fullName, code string, validMinutes int) error {
	data := otpEmailData{
		FullName:     fullName,
		Code:         code,
		ValidMinutes: validMinutes,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "otp.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.Send(to, "Your verification code", body.String())
}

type inviteCodeEmailData struct {
	Code         string
	PositionName string
	RegisterURL  string
}

// SendInviteCode sends a registration invite code
func (s *emailServiceImpl) SendInviteCode(to, code, positionName, registerURL string) error {
	data := inviteCodeEmailData{
		Code:         code,
		PositionName: positionName,
		RegisterURL:  registerURL,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "invite_code.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.Send(to, "You are invited to register", body.String())
}

type smtpSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender sends through net/smtp with PLAIN auth
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
