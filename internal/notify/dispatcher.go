package notify

import (
	"context"
	"log/slog"

	appmodels "blockrent/internal/application/models"
	"blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
)

type job struct {
	kind    string
	deliver func(ctx context.Context) error
}

// Dispatcher queues notifications onto a buffered channel drained by Run.
// Enqueueing never blocks: when the queue is full the notification is
// dropped and counted. Delivery failures are logged and discarded, never
// surfaced to the caller.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Metrics
	queue   chan job
}

func NewDispatcher(sender Sender, logger *slog.Logger, m *metrics.Metrics, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		metrics: m,
		queue:   make(chan job, queueSize),
	}
}

// AccountCreated queues the account-creation notification carrying the
// plaintext one-time password.
func (d *Dispatcher) AccountCreated(_ context.Context, user models.User, oneTimePassword string) {
	d.enqueue(job{
		kind: "account_created",
		deliver: func(ctx context.Context) error {
			return d.sender.AccountCreated(ctx, user, oneTimePassword)
		},
	})
}

// ConfirmationRequest queues the dual confirmation-request notification for
// a freshly registered application.
func (d *Dispatcher) ConfirmationRequest(_ context.Context, tenant, owner models.User, application appmodels.Application) {
	d.enqueue(job{
		kind: "confirmation_request",
		deliver: func(ctx context.Context) error {
			return d.sender.ConfirmationRequest(ctx, tenant, owner, application)
		},
	})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.queue <- j:
		if d.metrics != nil {
			d.metrics.NotificationsEnqueued.Inc()
		}
	default:
		if d.metrics != nil {
			d.metrics.NotificationsDropped.Inc()
		}
		d.logger.Warn("notification queue full, dropping", "kind", j.kind)
	}
}

// Run drains the queue until the context is cancelled. It then delivers
// whatever is still queued before returning, so a graceful shutdown does not
// silently lose accepted notifications.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return ctx.Err()
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) drain() {
	// Detached context: the run context is already cancelled.
	ctx := context.Background()
	for {
		select {
		case j := <-d.queue:
			d.deliver(ctx, j)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	if err := j.deliver(ctx); err != nil {
		if d.metrics != nil {
			d.metrics.NotificationFailures.Inc()
		}
		d.logger.Warn("notification delivery failed", "kind", j.kind, "error", err)
	}
}
