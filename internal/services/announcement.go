package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "
	nearlySoldOutSeats = 5
)

type announcementService struct {
	conferenceRepo domain.ConferenceRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAnnouncementService creates the service maintaining the "nearly sold out" announcement.
func NewAnnouncementService(conferenceRepo domain.ConferenceRepository, cache domain.Cache, logger *slog.Logger, timeout time.Duration) domain.AnnouncementService {
	return &announcementService{
		conferenceRepo: conferenceRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CacheAnnouncement publishes the names of conferences with 1 to 5 seats left,
// or clears the announcement when there are none.
func (s *announcementService) CacheAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.Query(ctx, &domain.ConferenceQuery{
		Predicates: []domain.Predicate{
			{Property: domain.PropertySeatsAvailable, Operator: domain.OpLessOrEqual, Value: nearlySoldOutSeats},
			{Property: domain.PropertySeatsAvailable, Operator: domain.OpGreater, Value: 0},
		},
		InequalityProperty: domain.PropertySeatsAvailable,
		OrderBy:            []string{domain.PropertySeatsAvailable, domain.PropertyName},
	})
	if err != nil {
		return "", fmt.Errorf("query nearly sold out conferences: %w", err)
	}

	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, domain.AnnouncementsCacheKey); err != nil {
			return "", fmt.Errorf("clear announcement: %w", err)
		}
		return "", nil
	}

	names := make([]string, len(confs))
	for i, c := range confs {
		names[i] = c.Name
	}
	announcement := announcementPrefix + strings.Join(names, ", ")
	if err := s.cache.Set(ctx, domain.AnnouncementsCacheKey, announcement); err != nil {
		return "", fmt.Errorf("set announcement: %w", err)
	}
	s.logger.InfoContext(ctx, "announcement published", "conferences", len(confs))
	return announcement, nil
}

func (s *announcementService) GetAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	announcement, _, err := s.cache.Get(ctx, domain.AnnouncementsCacheKey)
	if err != nil {
		return "", fmt.Errorf("get announcement: %w", err)
	}
	return announcement, nil
}
