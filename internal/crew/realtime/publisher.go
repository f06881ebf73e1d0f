// Package realtime pushes organization events to connected clients
// through Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
)

// Publisher announces a committed notification.
type Publisher interface {
	PublishNotification(ctx context.Context, n domain.Notification) error
}

// NopPublisher drops everything. It is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishNotification(context.Context, domain.Notification) error { return nil }

// Channel is the pub/sub channel for an organization's notifications.
func Channel(organizationID string) string {
	return "crew:org:" + organizationID + ":notifications"
}

// Event is the JSON payload published for each notification.
type Event struct {
	NotificationID     string    `json:"notificationId"`
	OrganizationID     string    `json:"organizationId"`
	Type               string    `json:"type"`
	Title              string    `json:"title"`
	Message            string    `json:"message"`
	DestinationUserIDs []string  `json:"destinationUserIds"`
	CreatedAt          time.Time `json:"createdAt"`
}

type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to addr and checks the connection.
func NewRedisPublisher(ctx context.Context, addr string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) PublishNotification(ctx context.Context, n domain.Notification) error {
	b, err := json.Marshal(Event{
		NotificationID:     n.ID,
		OrganizationID:     n.OrganizationID,
		Type:               n.Type,
		Title:              n.Title,
		Message:            n.Message,
		DestinationUserIDs: n.DestinationUserIDs,
		CreatedAt:          n.CreatedAt,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(n.OrganizationID), b).Err()
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error { return p.client.Close() }
