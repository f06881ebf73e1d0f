package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type identitiesRepo struct{ conn }

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		i.ID, i.Email, i.PasswordHash, millis(i.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var (
		i         domain.Identity
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM identities WHERE email = ?`, email,
	).Scan(&i.ID, &i.Email, &i.PasswordHash, &createdAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	i.CreatedAt = fromMillis(createdAt)
	return i, nil
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, id string) error {
	return requireRow(r.q.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id))
}
