package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmodels "blockrent/internal/application/models"
	"blockrent/internal/identity/models"
)

type capturingSender struct {
	mu           sync.Mutex
	accounts     []string
	confirmSends int
	fail         bool
}

func (s *capturingSender) AccountCreated(_ context.Context, user models.User, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.accounts = append(s.accounts, user.Email)
	return nil
}

func (s *capturingSender) ConfirmationRequest(_ context.Context, _, _ models.User, _ appmodels.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.confirmSends++
	return nil
}

func (s *capturingSender) snapshot() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.accounts...), s.confirmSends
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversQueuedNotifications(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, discardLogger(), nil, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	d.AccountCreated(ctx, models.User{Email: "a@example.com"}, "otp")
	d.AccountCreated(ctx, models.User{Email: "b@example.com"}, "otp")
	d.ConfirmationRequest(ctx, models.User{}, models.User{}, appmodels.Application{})

	require.Eventually(t, func() bool {
		accounts, confirms := sender.snapshot()
		return len(accounts) == 2 && confirms == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestDispatcher_DrainsQueueOnShutdown(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, discardLogger(), nil, 8)

	// Enqueue before Run ever starts, then cancel immediately: the accepted
	// notifications must still go out.
	ctx, cancel := context.WithCancel(context.Background())
	d.AccountCreated(ctx, models.User{Email: "a@example.com"}, "otp")
	d.AccountCreated(ctx, models.User{Email: "b@example.com"}, "otp")
	cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	accounts, _ := sender.snapshot()
	assert.Len(t, accounts, 2)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, discardLogger(), nil, 1)

	ctx := context.Background()
	// Run is not draining; the second enqueue overflows and is dropped
	// without blocking.
	d.AccountCreated(ctx, models.User{Email: "kept@example.com"}, "otp")
	d.AccountCreated(ctx, models.User{Email: "dropped@example.com"}, "otp")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = d.Run(cancelled)

	accounts, _ := sender.snapshot()
	assert.Equal(t, []string{"kept@example.com"}, accounts)
}

func TestDispatcher_SwallowsDeliveryFailures(t *testing.T) {
	sender := &capturingSender{fail: true}
	d := NewDispatcher(sender, discardLogger(), nil, 8)

	ctx, cancel := context.WithCancel(context.Background())
	d.AccountCreated(ctx, models.User{Email: "a@example.com"}, "otp")
	cancel()

	// A failing sender never propagates past the dispatcher.
	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
