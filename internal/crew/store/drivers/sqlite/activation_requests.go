package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type activationRequestsRepo struct{ conn }

func (r *activationRequestsRepo) CreateActivationRequest(ctx context.Context, a domain.ActivationRequest) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO activation_requests (
			id, company_name, contact_name, contact_email, contact_phone, message,
			notification_sent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CompanyName, a.ContactName, a.ContactEmail, a.ContactPhone, a.Message,
		a.NotificationSent, millis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *activationRequestsRepo) GetActivationRequest(ctx context.Context, id string) (domain.ActivationRequest, error) {
	var (
		a         domain.ActivationRequest
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, company_name, contact_name, contact_email, contact_phone, message,
			notification_sent, created_at
		FROM activation_requests WHERE id = ?`, id,
	).Scan(&a.ID, &a.CompanyName, &a.ContactName, &a.ContactEmail, &a.ContactPhone, &a.Message,
		&a.NotificationSent, &createdAt)
	if err != nil {
		return domain.ActivationRequest{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}

func (r *activationRequestsRepo) MarkActivationNotified(ctx context.Context, id string) error {
	return requireRow(r.q.ExecContext(ctx, `
		UPDATE activation_requests SET notification_sent = 1 WHERE id = ?`, id))
}
