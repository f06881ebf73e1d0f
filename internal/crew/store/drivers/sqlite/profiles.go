package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type profilesRepo struct{ conn }

func (r *profilesRepo) UpsertProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO user_profiles (id, email, name, phone, organization_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email           = CASE WHEN excluded.email <> '' THEN excluded.email ELSE user_profiles.email END,
			name            = CASE WHEN excluded.name <> '' THEN excluded.name ELSE user_profiles.name END,
			phone           = CASE WHEN excluded.phone <> '' THEN excluded.phone ELSE user_profiles.phone END,
			organization_id = CASE WHEN excluded.organization_id <> '' THEN excluded.organization_id ELSE user_profiles.organization_id END,
			updated_at      = excluded.updated_at`,
		p.ID, p.Email, p.Name, p.Phone, p.OrganizationID, millis(p.CreatedAt), millis(p.UpdatedAt),
	)
	return err
}

func (r *profilesRepo) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	var (
		p                    domain.UserProfile
		createdAt, updatedAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, phone, organization_id, created_at, updated_at
		FROM user_profiles WHERE id = ?`, userID,
	).Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &p.OrganizationID, &createdAt, &updatedAt)
	if err != nil {
		return domain.UserProfile{}, mapNotFound(err)
	}
	p.CreatedAt, p.UpdatedAt = fromMillis(createdAt), fromMillis(updatedAt)
	return p, nil
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = ?`, userID)
	return err
}
