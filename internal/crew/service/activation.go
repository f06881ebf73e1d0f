package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// ActivationService records requests to activate a new company and tells
// the operator about them.
type ActivationService struct {
	Store         store.Store
	Mailer        Mailer
	Dispatcher    *Dispatcher
	OperatorEmail string
	Now           func() time.Time
}

type ActivationInput struct {
	CompanyName  string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Message      string
}

// Submit stores the request. The operator email goes out after the write
// and its failure is only logged.
func (s *ActivationService) Submit(ctx context.Context, in ActivationInput) (domain.ActivationRequest, error) {
	if strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.ContactName) == "" ||
		strings.TrimSpace(in.ContactEmail) == "" {
		return domain.ActivationRequest{}, ErrMissingFields
	}

	now := clock(s.Now)
	req := domain.ActivationRequest{
		ID:           idx.NewAt(now).String(),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Message:      in.Message,
		CreatedAt:    now,
	}
	if err := s.Store.ActivationRequests().CreateActivationRequest(ctx, req); err != nil {
		return domain.ActivationRequest{}, internal(ctx, "failed to store activation request", err)
	}

	slogx.FromContext(ctx).Info("activation request received", slog.String("activation_request_id", req.ID))

	s.Dispatcher.Go(ctx, "activation_email", func(ctx context.Context) error {
		return s.notify(ctx, req)
	})
	return req, nil
}

func (s *ActivationService) notify(ctx context.Context, req domain.ActivationRequest) error {
	if s.OperatorEmail == "" {
		slogx.FromContext(ctx).Warn("no operator email configured, activation request not mailed",
			slog.String("activation_request_id", req.ID))
		return nil
	}

	message := req.Message
	if message == "" {
		message = "(no message)"
	}
	body := fmt.Sprintf(
		"New activation request\n\nID: %s\nCompany: %s\nContact: %s\nEmail: %s\nPhone: %s\nMessage: %s\n\nReceived: %s\n",
		req.ID, req.CompanyName, req.ContactName, req.ContactEmail, req.ContactPhone, message,
		req.CreatedAt.Format(time.RFC1123),
	)

	if err := s.Mailer.Send(ctx, Mail{
		To:      s.OperatorEmail,
		Subject: "New activation request: " + req.CompanyName,
		Body:    body,
	}); err != nil {
		return err
	}
	return s.Store.ActivationRequests().MarkActivationNotified(ctx, req.ID)
}
