package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/pkg/mailer"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	failures int
	sent     chan struct{}
}

func newRecordingSender(failures int) *recordingSender {
	return &recordingSender{failures: failures, sent: make(chan struct{}, 8)}
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp down")
	}
	r.messages = append(r.messages, msg)
	r.sent <- struct{}{}
	return nil
}

func TestNotificationServiceDelivers(t *testing.T) {
	sender := newRecordingSender(1)
	svc := NewNotificationService(sender, NewMetricsService(), nil, NotificationConfig{Workers: 1, BufferSize: 2, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	svc.Start(context.Background())
	defer svc.Stop()

	require.NoError(t, svc.Notify(Notification{Kind: NotificationNOCApproved, To: "asha@example.com", Subject: "NOC approved", Body: "ok"}))

	select {
	case <-sender.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "asha@example.com", sender.messages[0].To)
}

func TestNotificationServiceNotStartedDrops(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewNotificationService(newRecordingSender(0), metrics, nil, NotificationConfig{})
	assert.Error(t, svc.Notify(Notification{Kind: NotificationOTP, To: "x@example.com"}))
	assert.Equal(t, uint64(1), metrics.Snapshot().NotificationFailures)
}
