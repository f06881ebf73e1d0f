package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type organizationsRepo struct{ conn }

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO organizations (id, name, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.OwnerID, millis(o.CreatedAt), millis(o.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	var (
		o                    domain.Organization
		createdAt, updatedAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM organizations WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &o.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	o.CreatedAt, o.UpdatedAt = fromMillis(createdAt), fromMillis(updatedAt)
	return o, nil
}

func (r *organizationsRepo) ListOrganizationIDs(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.q, `SELECT id FROM organizations ORDER BY created_at, id`)
}

func queryStrings(ctx context.Context, q dbtx, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
