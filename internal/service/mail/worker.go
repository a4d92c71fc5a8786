package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/account"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/queue"
)

const (
	defaultPollTimeout = 5 * time.Second
	dequeueErrorDelay  = time.Second
)

// WorkerOptions configures retry behaviour
type WorkerOptions struct {
	MaxAttempts int
	BaseBackoff time.Duration
	RegisterURL string
	PollTimeout time.Duration
}

// Worker consumes the mail queue. A job is tried MaxAttempts times with
// exponential backoff, then abandoned with a diagnostic log entry.
type Worker struct {
	queue    queue.Queue
	emails   email.EmailService
	accounts account.AccountRepository
	metrics  *metrics.Metrics
	opts     WorkerOptions
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewWorker(q queue.Queue, emails email.EmailService, accounts account.AccountRepository, m *metrics.Metrics, opts WorkerOptions) *Worker {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	return &Worker{
		queue:    q,
		emails:   emails,
		accounts: accounts,
		metrics:  m,
		opts:     opts,
		sleep:    sleepContext,
	}
}

// Run blocks until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	slog.Info("mail worker started", "queue", w.queue.Name())
	defer slog.Info("mail worker stopped", "queue", w.queue.Name())

	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.queue.Dequeue(ctx, w.opts.PollTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to dequeue mail job", "queue", w.queue.Name(), "error", err)
			if w.sleep(ctx, dequeueErrorDelay) != nil {
				return
			}
			continue
		}

		w.Process(ctx, job)
	}
}

// Process delivers one job with retries
func (w *Worker) Process(ctx context.Context, job queue.Job) {
	var lastErr error
	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		job.Attempt = attempt
		lastErr = w.deliver(job)
		if lastErr == nil {
			w.metrics.MailJob("sent")
			slog.Info("mail sent", "job_id", job.ID, "type", job.Type, "attempt", attempt)
			return
		}

		slog.Warn("mail delivery failed",
			"job_id", job.ID,
			"type", job.Type,
			"attempt", attempt,
			"max_attempts", w.opts.MaxAttempts,
			"error", lastErr,
		)
		w.metrics.MailJob("failed")

		if attempt == w.opts.MaxAttempts {
			break
		}
		if err := w.sleep(ctx, queue.Backoff(w.opts.BaseBackoff, attempt)); err != nil {
			slog.Warn("mail job interrupted by shutdown", "job_id", job.ID, "attempt", attempt)
			return
		}
	}

	w.abandon(ctx, job, lastErr)
}

func (w *Worker) deliver(job queue.Job) error {
	switch job.Type {
	case mail.JobOTP:
		var m mail.OTPMail
		if err := json.Unmarshal(job.Payload, &m); err != nil {
			return fmt.Errorf("decode otp mail: %w", err)
		}
		return w.emails.SendOTP(m.Email, m.FullName, m.Code, m.ValidMinutes)
	case mail.JobInviteCode:
		var m mail.InviteCodeMail
		if err := json.Unmarshal(job.Payload, &m); err != nil {
			return fmt.Errorf("decode invite code mail: %w", err)
		}
		return w.emails.SendInviteCode(m.Email, m.Code, m.PositionName, w.opts.RegisterURL)
	default:
		return fmt.Errorf("unknown mail job type %q", job.Type)
	}
}

// abandon drops the job. The recipient account is looked up so the log entry
// identifies who did not get their mail.
func (w *Worker) abandon(ctx context.Context, job queue.Job, cause error) {
	w.metrics.MailJob("abandoned")

	attrs := []any{
		"job_id", job.ID,
		"type", job.Type,
		"attempts", job.Attempt,
		"error", cause,
	}

	var target struct {
		AccountID string `json:"account_id"`
		Email     string `json:"email"`
	}
	_ = json.Unmarshal(job.Payload, &target)
	attrs = append(attrs, "email", target.Email)

	var (
		acc account.Account
		err error
	)
	switch {
	case target.AccountID != "":
		acc, err = w.accounts.GetByID(ctx, target.AccountID)
	case target.Email != "":
		acc, err = w.accounts.GetByEmail(ctx, target.Email)
	default:
		err = account.ErrAccountNotFound
	}
	if err == nil {
		attrs = append(attrs, "account_id", acc.ID, "account_status", acc.Status)
	} else {
		attrs = append(attrs, "account_lookup_error", err)
	}

	slog.Error("mail job abandoned", attrs...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
