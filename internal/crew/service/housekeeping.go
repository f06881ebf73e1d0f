package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/store"
)

// DefaultHousekeepingSchedule runs cleanup at the top of every hour.
const DefaultHousekeepingSchedule = "@hourly"

// HousekeepingService deletes expired notifications and their per-user
// pointers on a cron schedule.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Schedule string
	Now      func() time.Time

	cron *cron.Cron
}

// NewHousekeepingService creates a housekeeping service. An empty schedule
// means DefaultHousekeepingSchedule.
func NewHousekeepingService(st store.Store, logger *slog.Logger, schedule string) *HousekeepingService {
	if schedule == "" {
		schedule = DefaultHousekeepingSchedule
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Schedule: schedule,
	}
}

// Start registers the job and starts the scheduler. It is non-blocking.
func (s *HousekeepingService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Schedule, s.cleanup); err != nil {
		return err
	}
	s.cron.Start()
	s.Logger.Info("housekeeping service started", "schedule", s.Schedule)
	return nil
}

// Stop stops the scheduler and waits for a running cleanup to finish.
func (s *HousekeepingService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.Logger.Info("housekeeping service stopped")
}

// RunOnce deletes everything expired at the current time.
func (s *HousekeepingService) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.Store.Notifications().DeleteExpiredNotifications(ctx, clock(s.Now))
	if err != nil {
		return 0, err
	}
	s.Metrics.ObserveExpiredNotifications(n)
	return n, nil
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	n, err := s.RunOnce(ctx)
	if err != nil {
		s.Logger.Error("failed to delete expired notifications", "error", err)
		return
	}
	s.Logger.Info("housekeeping cleanup completed",
		"notifications_deleted", n,
		"duration", time.Since(start),
	)
}
