package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type clientsRepo struct{ conn }

func (r *clientsRepo) UpsertClient(ctx context.Context, c domain.Client) error {
	perms, err := encodeSimpleMap(c.Permissions)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO clients (organization_id, id, name, permissions, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, id) DO UPDATE SET
			name        = excluded.name,
			permissions = excluded.permissions,
			updated_at  = excluded.updated_at`,
		c.OrganizationID, c.ID, c.Name, perms, millis(c.UpdatedAt),
	)
	return err
}

func (r *clientsRepo) GetClient(ctx context.Context, organizationID, clientID string) (domain.Client, error) {
	var (
		c         domain.Client
		perms     string
		updatedAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT organization_id, id, name, permissions, updated_at
		FROM clients WHERE organization_id = ? AND id = ?`, organizationID, clientID,
	).Scan(&c.OrganizationID, &c.ID, &c.Name, &perms, &updatedAt)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	if err := json.Unmarshal([]byte(perms), &c.Permissions); err != nil {
		return domain.Client{}, fmt.Errorf("client %s/%s permissions: %w", organizationID, clientID, err)
	}
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func (r *clientsRepo) UpdateClientPermissions(
	ctx context.Context,
	organizationID, clientID string,
	perms map[string]any,
	at time.Time,
) error {
	b, err := encodeSimpleMap(perms)
	if err != nil {
		return err
	}
	return requireRow(r.q.ExecContext(ctx, `
		UPDATE clients SET permissions = ?, updated_at = ?
		WHERE organization_id = ? AND id = ?`,
		b, millis(at), organizationID, clientID,
	))
}

func encodeSimpleMap(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode permission map: %w", err)
	}
	return string(b), nil
}
