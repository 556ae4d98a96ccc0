package worker

import (
	"context"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

// Announcer refreshes the nearly sold out announcement on a fixed interval.
type Announcer struct {
	service  domain.AnnouncementService
	interval time.Duration
	metrics  *Metrics
	logger   *slog.Logger
}

func NewAnnouncer(service domain.AnnouncementService, interval time.Duration, metrics *Metrics, logger *slog.Logger) *Announcer {
	return &Announcer{service: service, interval: interval, metrics: metrics, logger: logger}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (a *Announcer) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.refresh(ctx)
		}
	}
}

func (a *Announcer) refresh(ctx context.Context) {
	result := "ok"
	if _, err := a.service.CacheAnnouncement(ctx); err != nil {
		result = "error"
		a.logger.ErrorContext(ctx, "refresh announcement failed", "err", err)
	}
	if a.metrics != nil {
		a.metrics.AnnouncementRuns.WithLabelValues(result).Inc()
	}
}
