package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

type notificationsRepo struct{ conn }

func (r *notificationsRepo) CreateBroadcast(ctx context.Context, n domain.Notification) error {
	dest, err := json.Marshal(n.DestinationUserIDs)
	if err != nil {
		return fmt.Errorf("encode destinations: %w", err)
	}

	return r.atomic(ctx, func(q dbtx) error {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO notifications (
				id, organization_id, type, title, message, destination_user_ids,
				related_entity_type, related_entity_id, status, priority, created_by,
				created_at, expires_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.OrganizationID, n.Type, n.Title, n.Message, string(dest),
			n.RelatedEntityType, n.RelatedEntityID, n.Status, n.Priority, n.CreatedBy,
			millis(n.CreatedAt), millis(n.ExpiresAt),
		); err != nil {
			return mapConstraint(err)
		}

		for _, userID := range n.DestinationUserIDs {
			if _, err := q.ExecContext(ctx, `
				INSERT INTO user_notifications (user_id, notification_id, read, resolved, created_at)
				VALUES (?, ?, 0, 0, ?)`,
				userID, n.ID, millis(n.CreatedAt),
			); err != nil {
				return mapConstraint(err)
			}
		}
		return nil
	})
}

func (r *notificationsRepo) GetNotification(ctx context.Context, id string) (domain.Notification, error) {
	var (
		n                    domain.Notification
		dest                 string
		createdAt, expiresAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, organization_id, type, title, message, destination_user_ids,
			related_entity_type, related_entity_id, status, priority, created_by,
			created_at, expires_at
		FROM notifications WHERE id = ?`, id,
	).Scan(
		&n.ID, &n.OrganizationID, &n.Type, &n.Title, &n.Message, &dest,
		&n.RelatedEntityType, &n.RelatedEntityID, &n.Status, &n.Priority, &n.CreatedBy,
		&createdAt, &expiresAt,
	)
	if err != nil {
		return domain.Notification{}, mapNotFound(err)
	}
	if err := json.Unmarshal([]byte(dest), &n.DestinationUserIDs); err != nil {
		return domain.Notification{}, fmt.Errorf("notification %s destinations: %w", id, err)
	}
	n.CreatedAt, n.ExpiresAt = fromMillis(createdAt), fromMillis(expiresAt)
	return n, nil
}

func (r *notificationsRepo) ListUserNotifications(ctx context.Context, userID string) ([]domain.UserNotification, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT user_id, notification_id, read, resolved, created_at
		FROM user_notifications WHERE user_id = ?
		ORDER BY created_at DESC, notification_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserNotification
	for rows.Next() {
		var (
			un        domain.UserNotification
			createdAt int64
		)
		if err := rows.Scan(&un.UserID, &un.NotificationID, &un.Read, &un.Resolved, &createdAt); err != nil {
			return nil, err
		}
		un.CreatedAt = fromMillis(createdAt)
		out = append(out, un)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.atomic(ctx, func(q dbtx) error {
		if _, err := q.ExecContext(ctx, `
			DELETE FROM user_notifications WHERE notification_id IN (
				SELECT id FROM notifications WHERE expires_at < ?
			)`, millis(now)); err != nil {
			return err
		}
		res, err := q.ExecContext(ctx, `DELETE FROM notifications WHERE expires_at < ?`, millis(now))
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}
