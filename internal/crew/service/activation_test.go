package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func newActivation(h *harness, mailer Mailer) *ActivationService {
	return &ActivationService{
		Store:         h.store,
		Mailer:        mailer,
		Dispatcher:    h.dispatcher,
		OperatorEmail: "ops@example.com",
		Now:           func() time.Time { return h.now },
	}
}

func TestActivationSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and notifies", func(t *testing.T) {
		h := newHarness(t)
		mailer := &recordingMailer{}
		svc := newActivation(h, mailer)

		req, err := svc.Submit(ctx, ActivationInput{
			CompanyName:  " Acme Pty Ltd ",
			ContactName:  "Sam",
			ContactEmail: "sam@acme.test",
		})
		require.NoError(t, err)
		require.Equal(t, "Acme Pty Ltd", req.CompanyName)
		h.dispatcher.Wait()

		require.Len(t, mailer.sent, 1)
		require.Equal(t, "ops@example.com", mailer.sent[0].To)
		require.Equal(t, "New activation request: Acme Pty Ltd", mailer.sent[0].Subject)
		require.Contains(t, mailer.sent[0].Body, "Message: (no message)")

		stored, err := h.raw.ActivationRequests().GetActivationRequest(ctx, req.ID)
		require.NoError(t, err)
		require.True(t, stored.NotificationSent)
	})

	t.Run("mail failure keeps the request", func(t *testing.T) {
		h := newHarness(t)
		svc := newActivation(h, &recordingMailer{err: errors.New("relay down")})

		req, err := svc.Submit(ctx, ActivationInput{CompanyName: "Acme", ContactName: "Sam", ContactEmail: "sam@acme.test"})
		require.NoError(t, err)
		h.dispatcher.Wait()

		stored, err := h.raw.ActivationRequests().GetActivationRequest(ctx, req.ID)
		require.NoError(t, err)
		require.False(t, stored.NotificationSent)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)
		svc := newActivation(h, LogMailer{})
		_, err := svc.Submit(ctx, ActivationInput{CompanyName: "Acme", ContactName: " "})
		require.ErrorIs(t, err, ErrMissingFields)
	})
}
