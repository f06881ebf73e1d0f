package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type receiptsRepo struct{ conn }

func (r *receiptsRepo) GetReceipt(ctx context.Context, key string) (domain.OnboardingReceipt, error) {
	var (
		rc        domain.OnboardingReceipt
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT receipt_key, organization_id, invitation_id, user_id, created_at
		FROM onboarding_receipts WHERE receipt_key = ?`, key,
	).Scan(&rc.Key, &rc.OrganizationID, &rc.InvitationID, &rc.UserID, &createdAt)
	if err != nil {
		return domain.OnboardingReceipt{}, mapNotFound(err)
	}
	rc.CreatedAt = fromMillis(createdAt)
	return rc, nil
}

func (r *receiptsRepo) CreateReceipt(ctx context.Context, rc domain.OnboardingReceipt) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO onboarding_receipts (receipt_key, organization_id, invitation_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rc.Key, rc.OrganizationID, rc.InvitationID, rc.UserID, millis(rc.CreatedAt),
	)
	return mapConstraint(err)
}
