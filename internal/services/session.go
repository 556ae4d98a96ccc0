package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	defaultSessionDuration  = "00:00"
	defaultSessionDate      = "1999-12-12"
	defaultSessionStartTime = "12:00"
	defaultSessionLocation  = "Default Location"
)

var defaultHighlights = []string{"Default", "Highlight"}

type sessionService struct {
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	tasks          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSessionService creates a SessionService with the given repositories and task queue.
func NewSessionService(
	conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	tasks domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		conferenceRepo: conferenceRepo,
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userID, websafeConferenceKey string, in *domain.SessionInput) (*domain.SessionWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	conf, err := loadConference(ctx, s.conferenceRepo, websafeConferenceKey)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != userID {
		return nil, fmt.Errorf("%w: only the owner can add sessions", domain.ErrForbidden)
	}

	sess, err := buildSession(conf, in)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(in.Speakers))
	for _, raw := range in.Speakers {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		spkr, err := s.speakerRepo.GetOrCreate(ctx, domain.NormalizeSpeakerKey(name), name)
		if err != nil {
			return nil, fmt.Errorf("get or create speaker: %w", err)
		}
		sess.Speakers = append(sess.Speakers, spkr.Key)
		names = append(names, spkr.Name)
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	confKey := conf.Key().Encode()
	if err := s.tasks.Enqueue(ctx, domain.TaskReviewSpeakers, map[string]string{
		domain.TaskParamConferenceKey: confKey,
	}); err != nil {
		s.logger.WarnContext(ctx, "enqueue speaker review failed", "conference", confKey, "err", err)
	}
	return &domain.SessionWithSpeakers{Session: sess, SpeakerNames: names}, nil
}

// buildSession applies defaults and parses the textual fields of in.
func buildSession(conf *domain.Conference, in *domain.SessionInput) (*domain.Session, error) {
	now := time.Now()
	sess := &domain.Session{
		ConferenceID:    conf.ID,
		OrganizerUserID: conf.OrganizerUserID,
		Name:            strings.TrimSpace(in.Name),
		Highlights:      in.Highlights,
		Location:        in.Location,
		Speakers:        []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(sess.Highlights) == 0 {
		sess.Highlights = append([]string(nil), defaultHighlights...)
	}
	if sess.Location == "" {
		sess.Location = defaultSessionLocation
	}

	var err error
	if sess.Duration, err = domain.ParseClock(orDefault(in.Duration, defaultSessionDuration)); err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}
	if sess.StartTime, err = domain.ParseClock(orDefault(in.StartTime, defaultSessionStartTime)); err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	if sess.Date, err = parseDate(orDefault(in.Date, defaultSessionDate)); err != nil {
		return nil, err
	}
	sess.TypeOfSession = domain.SessionTypeNotSpecified
	if in.TypeOfSession != "" {
		if sess.TypeOfSession, err = domain.ParseTypeOfSession(in.TypeOfSession); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s *sessionService) ListByConference(ctx context.Context, websafeConferenceKey string) ([]*domain.SessionWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := loadConference(ctx, s.conferenceRepo, websafeConferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConference(ctx, conf.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return withSpeakerNames(ctx, s.speakerRepo, sessions)
}

func (s *sessionService) ListByConferenceAndType(ctx context.Context, websafeConferenceKey, typeOfSession string) ([]*domain.SessionWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := domain.ParseTypeOfSession(typeOfSession)
	if err != nil {
		return nil, err
	}
	conf, err := loadConference(ctx, s.conferenceRepo, websafeConferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conf.ID, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return withSpeakerNames(ctx, s.speakerRepo, sessions)
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speakerName string) ([]*domain.SessionWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := domain.NormalizeSpeakerKey(speakerName)
	if key == "" {
		return nil, fmt.Errorf("%w: speaker name required", domain.ErrInvalidInput)
	}
	if _, err := s.speakerRepo.GetByKey(ctx, key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker found with name: %s", domain.ErrNotFound, speakerName)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	sessions, err := s.sessionRepo.ListBySpeaker(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return withSpeakerNames(ctx, s.speakerRepo, sessions)
}

// withSpeakerNames resolves speaker display names for every session with a single lookup.
func withSpeakerNames(ctx context.Context, speakerRepo domain.SpeakerRepository, sessions []*domain.Session) ([]*domain.SessionWithSpeakers, error) {
	out := make([]*domain.SessionWithSpeakers, 0, len(sessions))
	seen := make(map[string]struct{})
	var keys []string
	for _, sess := range sessions {
		for _, k := range sess.Speakers {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	speakers := map[string]*domain.Speaker{}
	if len(keys) > 0 {
		var err error
		if speakers, err = speakerRepo.GetMulti(ctx, keys); err != nil {
			return nil, fmt.Errorf("get speakers: %w", err)
		}
	}
	for _, sess := range sessions {
		names := make([]string, 0, len(sess.Speakers))
		for _, k := range sess.Speakers {
			if spkr, ok := speakers[k]; ok {
				names = append(names, spkr.Name)
			} else {
				names = append(names, k)
			}
		}
		out = append(out, &domain.SessionWithSpeakers{Session: sess, SpeakerNames: names})
	}
	return out, nil
}
