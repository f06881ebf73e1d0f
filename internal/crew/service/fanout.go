package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/realtime"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

const defaultNotificationTTL = 7 * 24 * time.Hour

// FanoutService tells an organization's active members that someone joined.
type FanoutService struct {
	Store     store.Store
	Publisher realtime.Publisher
	Metrics   *observability.Metrics

	// TTL is how long join notifications live. Zero means seven days.
	TTL time.Duration
	Now func() time.Time
}

// Broadcast writes one notification for every active member except
// excludeUserID, plus a pointer per recipient, in a single write. It
// reports false when there was nobody to notify.
func (s *FanoutService) Broadcast(
	ctx context.Context,
	organizationID string,
	excludeUserID string,
	joinerName string,
	roleName string,
) (domain.Notification, bool, error) {
	log := slogx.FromContext(ctx).With(slog.String("organization_id", organizationID))

	ids, err := s.Store.Members().ListActiveMemberIDs(ctx, organizationID)
	if err != nil {
		return domain.Notification{}, false, fmt.Errorf("list active members: %w", err)
	}

	dest := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != excludeUserID {
			dest = append(dest, id)
		}
	}
	if len(dest) == 0 {
		log.Debug("no members to notify")
		return domain.Notification{}, false, nil
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultNotificationTTL
	}
	now := clock(s.Now)

	n := domain.Notification{
		ID:                 idx.NewAt(now).String(),
		OrganizationID:     organizationID,
		Type:               domain.NotificationMemberJoined,
		Title:              "New member",
		Message:            fmt.Sprintf("%s joined as %s", joinerName, roleName),
		DestinationUserIDs: dest,
		RelatedEntityType:  "member",
		RelatedEntityID:    excludeUserID,
		Status:             domain.NotificationStatusActive,
		Priority:           domain.NotificationPriorityInfo,
		CreatedBy:          excludeUserID,
		CreatedAt:          now,
		ExpiresAt:          now.Add(ttl),
	}
	if err := s.Store.Notifications().CreateBroadcast(ctx, n); err != nil {
		return domain.Notification{}, false, fmt.Errorf("create broadcast: %w", err)
	}
	s.Metrics.ObserveFanout(len(dest))

	if s.Publisher != nil {
		if err := s.Publisher.PublishNotification(ctx, n); err != nil {
			log.Warn("failed to publish notification", slog.String("notification_id", n.ID), slog.Any("error", err))
		}
	}

	log.Info("join notification sent",
		slog.String("notification_id", n.ID),
		slog.Int("recipients", len(dest)),
	)
	return n, true, nil
}
