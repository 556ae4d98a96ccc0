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
	featuredHeader = "FEATURED SPEAKERS AND SESSIONS FOR THE CONFERENCE:  "
	// featuredMinSessions is the number of sessions a speaker needs within one conference.
	featuredMinSessions = 2
	noFeaturedSpeakers  = "There are no featured speakers!"
)

type featuredSpeakerService struct {
	sessionRepo domain.SessionRepository
	speakerRepo domain.SpeakerRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewFeaturedSpeakerService returns the background aggregator that publishes
// featured speaker announcements to cache.
func NewFeaturedSpeakerService(sessionRepo domain.SessionRepository, speakerRepo domain.SpeakerRepository, cache domain.Cache, logger *slog.Logger, timeout time.Duration) domain.FeaturedSpeakerService {
	return &featuredSpeakerService{
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Review rescans every session of the conference. Errors return before the
// cache is touched, so a failed run leaves the previous announcement in place.
func (s *featuredSpeakerService) Review(ctx context.Context, websafeConferenceKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confKey, err := domain.DecodeConferenceKey(websafeConferenceKey)
	if err != nil {
		return "", err
	}

	sessions, err := s.sessionRepo.ListByConference(ctx, confKey.IntID)
	if err != nil {
		return "", fmt.Errorf("list conference sessions: %w", err)
	}
	speakers, err := s.speakerRepo.ListOrderedByName(ctx)
	if err != nil {
		return "", fmt.Errorf("list speakers: %w", err)
	}

	announcement := BuildFeaturedAnnouncement(speakers, sessions)
	cacheKey := domain.FeaturedSpeakerCacheKey(confKey.Encode())
	if announcement == "" {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			return "", fmt.Errorf("clear featured speaker: %w", err)
		}
		s.logger.DebugContext(ctx, "no featured speakers", "conference", confKey.String())
		return "", nil
	}
	if err := s.cache.Set(ctx, cacheKey, announcement); err != nil {
		return "", fmt.Errorf("set featured speaker: %w", err)
	}
	s.logger.InfoContext(ctx, "featured speakers published", "conference", confKey.String())
	return announcement, nil
}

// BuildFeaturedAnnouncement counts every (session, speaker reference) pair,
// including a speaker listed twice in one session, and features each speaker
// whose count reaches featuredMinSessions. Speakers appear in the given order;
// their sessions appear in session order, each once.
func BuildFeaturedAnnouncement(speakers []*domain.Speaker, sessions []*domain.Session) string {
	counts := make(map[string]int)
	for _, sess := range sessions {
		for _, key := range sess.Speakers {
			counts[key]++
		}
	}

	var b strings.Builder
	n := 0
	for _, spkr := range speakers {
		if counts[spkr.Key] < featuredMinSessions {
			continue
		}
		n++
		if n == 1 {
			b.WriteString(featuredHeader)
		}
		fmt.Fprintf(&b, " FEATURED %d: %s SESSIONS: ", n, spkr.Name)
		var names []string
		for _, sess := range sessions {
			for _, key := range sess.Speakers {
				if key == spkr.Key {
					names = append(names, sess.Name)
					break
				}
			}
		}
		b.WriteString(strings.Join(names, ", "))
	}
	return b.String()
}
