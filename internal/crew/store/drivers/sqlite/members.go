package sqlite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

type membersRepo struct{ conn }

const memberColumns = `organization_id, user_id, name, email, role_id, role_name, role_color,
	client_id, permission_overrides, assigned_phases, can_manage_all_phases, is_active,
	joined_at, updated_at`

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) error {
	overrides, err := encodeOverrides(m.Overrides, m.LegacyOverrides)
	if err != nil {
		return err
	}
	phases := m.AssignedPhases
	if phases == nil {
		phases = []string{}
	}
	phasesJSON, err := json.Marshal(phases)
	if err != nil {
		return fmt.Errorf("encode assigned phases: %w", err)
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.OrganizationID, m.UserID, m.Name, m.Email, m.RoleID, m.RoleName, m.RoleColor,
		m.ClientID, overrides, string(phasesJSON), m.CanManageAllPhases, m.IsActive,
		millis(m.JoinedAt), millis(m.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *membersRepo) GetMember(ctx context.Context, organizationID, userID string) (domain.Member, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE organization_id = ? AND user_id = ?`, organizationID, userID)
	m, err := scanMember(row)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) ListMembers(ctx context.Context, organizationID string) ([]domain.Member, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE organization_id = ? ORDER BY joined_at, user_id`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membersRepo) ListActiveMemberIDs(ctx context.Context, organizationID string) ([]string, error) {
	return queryStrings(ctx, r.q, `
		SELECT user_id FROM members
		WHERE organization_id = ? AND is_active = 1
		ORDER BY joined_at, user_id`, organizationID)
}

func (r *membersRepo) ReplaceOverrides(
	ctx context.Context,
	organizationID, userID string,
	overrides map[string]permission.Override,
	at time.Time,
) error {
	b, err := encodeOverrides(overrides, nil)
	if err != nil {
		return err
	}
	return requireRow(r.q.ExecContext(ctx, `
		UPDATE members SET permission_overrides = ?, updated_at = ?
		WHERE organization_id = ? AND user_id = ?`,
		b, millis(at), organizationID, userID,
	))
}

func scanMember(s scanner) (domain.Member, error) {
	var (
		m                   domain.Member
		overrides, phases   string
		joinedAt, updatedAt int64
	)
	err := s.Scan(
		&m.OrganizationID, &m.UserID, &m.Name, &m.Email, &m.RoleID, &m.RoleName, &m.RoleColor,
		&m.ClientID, &overrides, &phases, &m.CanManageAllPhases, &m.IsActive,
		&joinedAt, &updatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}

	m.Overrides, m.LegacyOverrides, err = decodeOverrides(overrides)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s/%s overrides: %w", m.OrganizationID, m.UserID, err)
	}
	if err := json.Unmarshal([]byte(phases), &m.AssignedPhases); err != nil {
		return domain.Member{}, fmt.Errorf("member %s/%s phases: %w", m.OrganizationID, m.UserID, err)
	}
	m.JoinedAt, m.UpdatedAt = fromMillis(joinedAt), fromMillis(updatedAt)
	return m, nil
}

// The overrides column holds one JSON object. Values that are objects are
// structured overrides; scalars are the legacy simple form.
func encodeOverrides(structured map[string]permission.Override, legacy map[string]any) (string, error) {
	merged := make(map[string]any, len(structured)+len(legacy))
	for k, v := range legacy {
		merged[k] = v
	}
	for k, v := range structured {
		merged[k] = v
	}
	b, err := json.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("encode overrides: %w", err)
	}
	return string(b), nil
}

func decodeOverrides(raw string) (map[string]permission.Override, map[string]any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, nil, err
	}

	structured := make(map[string]permission.Override, len(fields))
	var legacy map[string]any
	for key, value := range fields {
		if trimmed := bytes.TrimSpace(value); len(trimmed) > 0 && trimmed[0] == '{' {
			var o permission.Override
			if err := json.Unmarshal(value, &o); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", key, err)
			}
			structured[key] = o
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", key, err)
		}
		if legacy == nil {
			legacy = map[string]any{}
		}
		legacy[key] = v
	}
	return structured, legacy, nil
}
