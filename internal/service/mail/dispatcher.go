package mail

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/mail"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/queue"
)

type queueDispatcher struct {
	queue queue.Queue
}

// NewDispatcher enqueues mail jobs for the worker
func NewDispatcher(q queue.Queue) mail.Dispatcher {
	return &queueDispatcher{queue: q}
}

func (d *queueDispatcher) SendOTP(ctx context.Context, m mail.OTPMail) error {
	return d.enqueue(ctx, mail.JobOTP, m)
}

func (d *queueDispatcher) SendInviteCode(ctx context.Context, m mail.InviteCodeMail) error {
	return d.enqueue(ctx, mail.JobInviteCode, m)
}

func (d *queueDispatcher) enqueue(ctx context.Context, jobType string, payload any) error {
	job, err := queue.NewJob(jobType, payload)
	if err != nil {
		return err
	}
	if err := d.queue.Enqueue(ctx, job); err != nil {
		return err
	}
	slog.Debug("mail job enqueued", "queue", d.queue.Name(), "job_id", job.ID, "type", jobType)
	return nil
}
