package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/pkg/jobs"
	"github.com/noah-isme/internship-noc-api/pkg/mailer"
)

// Notification kinds.
const (
	NotificationOTP         = "otp"
	NotificationMagicLink   = "magic_link"
	NotificationNOCApproved = "noc_approved"
)

// Notification is an email queued for best-effort delivery.
type Notification struct {
	Kind    string
	To      string
	ToName  string
	Subject string
	Body    string
}

// NotificationConfig sizes the delivery worker pool.
type NotificationConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// NotificationService delivers notifications asynchronously. Delivery is
// fire-and-forget: a full queue or an exhausted retry budget is logged and
// counted but never reported to the caller's caller.
type NotificationService struct {
	sender  mailer.Sender
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs the service and its worker queue.
func NewNotificationService(sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = mailer.NewLogSender(logger)
	}
	s := &NotificationService{sender: sender, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnGiveUp: func(job jobs.Job, err error) {
			s.metrics.RecordNotification(job.Kind, "failed")
		},
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify enqueues n without blocking.
func (s *NotificationService) Notify(n Notification) error {
	if err := s.queue.TryEnqueue(jobs.Job{Kind: n.Kind, Payload: n}); err != nil {
		s.metrics.RecordNotification(n.Kind, "dropped")
		s.logger.Warn("notification dropped", zap.String("kind", n.Kind), zap.String("to", n.To), zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(Notification)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	err := s.sender.Send(ctx, mailer.Message{
		To:      n.To,
		ToName:  n.ToName,
		Subject: n.Subject,
		Text:    n.Body,
	})
	if err != nil {
		return fmt.Errorf("send %s notification: %w", n.Kind, err)
	}
	s.metrics.RecordNotification(n.Kind, "sent")
	return nil
}
