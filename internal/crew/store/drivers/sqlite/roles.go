package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

type rolesRepo struct{ conn }

const roleColumns = `organization_id, id, name, color, permissions, created_at, updated_at`

func (r *rolesRepo) UpsertRole(ctx context.Context, role domain.Role) error {
	doc, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode role permissions: %w", err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO roles (`+roleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, id) DO UPDATE SET
			name        = excluded.name,
			color       = excluded.color,
			permissions = excluded.permissions,
			updated_at  = excluded.updated_at`,
		role.OrganizationID, role.ID, role.Name, role.Color, string(doc),
		millis(role.CreatedAt), millis(role.UpdatedAt),
	)
	return err
}

func (r *rolesRepo) GetRole(ctx context.Context, organizationID, roleID string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE organization_id = ? AND id = ?`, organizationID, roleID)
	role, err := scanRole(row)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) ListRoles(ctx context.Context, organizationID string) ([]domain.Role, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE organization_id = ? ORDER BY id`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *rolesRepo) UpdateRolePermissions(
	ctx context.Context,
	organizationID, roleID string,
	doc permission.Document,
	at time.Time,
) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode role permissions: %w", err)
	}
	return requireRow(r.q.ExecContext(ctx, `
		UPDATE roles SET permissions = ?, updated_at = ?
		WHERE organization_id = ? AND id = ?`,
		string(b), millis(at), organizationID, roleID,
	))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(s scanner) (domain.Role, error) {
	var (
		role                 domain.Role
		perms                string
		createdAt, updatedAt int64
	)
	if err := s.Scan(&role.OrganizationID, &role.ID, &role.Name, &role.Color, &perms, &createdAt, &updatedAt); err != nil {
		return domain.Role{}, err
	}
	doc, err := permission.DecodeDocument([]byte(perms))
	if err != nil {
		return domain.Role{}, fmt.Errorf("role %s/%s: %w", role.OrganizationID, role.ID, err)
	}
	role.Permissions = doc
	role.CreatedAt, role.UpdatedAt = fromMillis(createdAt), fromMillis(updatedAt)
	return role, nil
}
