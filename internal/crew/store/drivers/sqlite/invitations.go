package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
)

type invitationsRepo struct{ conn }

const invitationColumns = `id, code, organization_id, role_id, client_id, status, used_count,
	max_uses, created_by, expires_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, domain.NormalizeCode(inv.Code), inv.OrganizationID, inv.RoleID, inv.ClientID,
		string(inv.Status), inv.UsedCount, inv.MaxUses, inv.CreatedBy,
		millis(inv.ExpiresAt), millis(inv.CreatedAt), millis(inv.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetInvitationByCode matches case-insensitively; the unique index makes
// the match unambiguous.
func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	return r.get(ctx, `WHERE code = ?`, domain.NormalizeCode(code))
}

func (r *invitationsRepo) get(ctx context.Context, where string, arg any) (domain.Invitation, error) {
	var (
		inv                             domain.Invitation
		status                          string
		expiresAt, createdAt, updatedAt int64
	)
	err := r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations `+where, arg).Scan(
		&inv.ID, &inv.Code, &inv.OrganizationID, &inv.RoleID, &inv.ClientID, &status, &inv.UsedCount,
		&inv.MaxUses, &inv.CreatedBy, &expiresAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt = fromMillis(expiresAt), fromMillis(createdAt), fromMillis(updatedAt)

	inv.UsedBy, err = queryStrings(ctx, r.q, `
		SELECT user_id FROM invitation_uses
		WHERE invitation_id = ? ORDER BY used_at, user_id`, inv.ID)
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (r *invitationsRepo) Consume(
	ctx context.Context,
	invitationID, userID string,
	now time.Time,
) (store.ConsumeOutcome, error) {
	var outcome store.ConsumeOutcome
	err := r.atomic(ctx, func(q dbtx) error {
		var one int
		err := q.QueryRowContext(ctx, `
			SELECT 1 FROM invitation_uses
			WHERE invitation_id = ? AND user_id = ?`, invitationID, userID,
		).Scan(&one)
		switch {
		case err == nil:
			outcome = store.AlreadyConsumed
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		// The guard and the increment are one statement, so no two
		// writers can both take the last use.
		res, err := q.ExecContext(ctx, `
			UPDATE invitations SET
				used_count = used_count + 1,
				status     = CASE WHEN used_count + 1 >= max_uses THEN 'used' ELSE status END,
				updated_at = ?
			WHERE id = ?
			  AND status = 'active'
			  AND used_count < max_uses
			  AND expires_at >= ?`,
			millis(now), invitationID, millis(now),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrConflict
		}

		if _, err := q.ExecContext(ctx, `
			INSERT INTO invitation_uses (invitation_id, user_id, used_at)
			VALUES (?, ?, ?)`, invitationID, userID, millis(now),
		); err != nil {
			return mapConstraint(err)
		}
		outcome = store.Consumed
		return nil
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}
