package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	defaultCity   = "Default City"
	defaultTopics = []string{"Default", "Topic"}
)

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	cache          domain.Cache
	tasks          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewConferenceService creates a ConferenceService with the given repositories and collaborators.
func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	cache domain.Cache,
	tasks domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		cache:          cache,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, identity *domain.Identity, in *domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}
	profile, err := s.profileRepo.GetOrCreate(ctx, domain.NewProfile(identity, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	now := time.Now()
	conf := &domain.Conference{
		OrganizerUserID: identity.UserID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		City:            in.City,
		Topics:          in.Topics,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if conf.City == "" {
		conf.City = defaultCity
	}
	if len(conf.Topics) == 0 {
		conf.Topics = append([]string(nil), defaultTopics...)
	}
	if in.MaxAttendees != nil {
		if *in.MaxAttendees < 0 {
			return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
		}
		conf.MaxAttendees = *in.MaxAttendees
		conf.SeatsAvailable = *in.MaxAttendees
	}
	if err := applyDates(conf, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	if err := s.conferenceRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	if err := s.tasks.Enqueue(ctx, domain.TaskSendConfirmationEmail, map[string]string{
		domain.TaskParamEmail:          identity.Email,
		domain.TaskParamConferenceInfo: describeConference(conf),
	}); err != nil {
		s.logger.WarnContext(ctx, "enqueue confirmation email failed", "conference", conf.Key().String(), "err", err)
	}
	return &domain.ConferenceWithOrganizer{Conference: conf, OrganizerDisplayName: profile.DisplayName}, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, userID, websafeKey string, in *domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeConferenceKey(websafeKey)
	if err != nil {
		return nil, err
	}
	updated, err := s.conferenceRepo.Update(ctx, key.IntID, func(c *domain.Conference) error {
		if c.OrganizerUserID != key.Parent.StringID {
			return domain.ErrNotFound
		}
		if c.OrganizerUserID != userID {
			return domain.ErrForbidden
		}
		return applyConferencePatch(c, in)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("update conference: %w", err)
	}
	return s.withOrganizer(ctx, updated)
}

// applyConferencePatch copies the provided fields of in onto c. Changing
// maxAttendees keeps the number of taken seats constant.
func applyConferencePatch(c *domain.Conference, in *domain.ConferenceInput) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.City != "" {
		c.City = in.City
	}
	if len(in.Topics) > 0 {
		c.Topics = in.Topics
	}
	if in.MaxAttendees != nil {
		taken := c.MaxAttendees - c.SeatsAvailable
		if *in.MaxAttendees < taken {
			return fmt.Errorf("%w: maxAttendees below %d registered attendees", domain.ErrInvalidInput, taken)
		}
		c.MaxAttendees = *in.MaxAttendees
		c.SeatsAvailable = *in.MaxAttendees - taken
	}
	start, end := "", ""
	if in.StartDate != "" {
		start = in.StartDate
	} else if c.StartDate != nil {
		start = c.StartDate.Format(dateLayout)
	}
	if in.EndDate != "" {
		end = in.EndDate
	} else if c.EndDate != nil {
		end = c.EndDate.Format(dateLayout)
	}
	if err := applyDates(c, start, end); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

// applyDates parses the first ten characters of each date, derives the month
// from the start date and checks the range.
func applyDates(c *domain.Conference, startDate, endDate string) error {
	c.StartDate, c.EndDate, c.Month = nil, nil, 0
	if startDate != "" {
		d, err := parseDate(startDate)
		if err != nil {
			return err
		}
		c.StartDate = &d
		c.Month = int(d.Month())
	}
	if endDate != "" {
		d, err := parseDate(endDate)
		if err != nil {
			return err
		}
		c.EndDate = &d
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", domain.ErrInvalidInput)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return d, nil
}

func describeConference(c *domain.Conference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\r\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\r\n", c.Description)
	}
	fmt.Fprintf(&b, "City: %s\r\n", c.City)
	fmt.Fprintf(&b, "Topics: %s\r\n", strings.Join(c.Topics, ", "))
	if c.StartDate != nil {
		fmt.Fprintf(&b, "Start date: %s\r\n", c.StartDate.Format(dateLayout))
	}
	if c.EndDate != nil {
		fmt.Fprintf(&b, "End date: %s\r\n", c.EndDate.Format(dateLayout))
	}
	fmt.Fprintf(&b, "Max attendees: %s\r\n", strconv.Itoa(c.MaxAttendees))
	fmt.Fprintf(&b, "Key: %s", c.Key().Encode())
	return b.String()
}

func (s *conferenceService) GetConference(ctx context.Context, websafeKey string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := loadConference(ctx, s.conferenceRepo, websafeKey)
	if err != nil {
		return nil, err
	}
	return s.withOrganizer(ctx, conf)
}

func (s *conferenceService) ListCreated(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	return withOrganizers(ctx, s.profileRepo, confs)
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.ConferenceFilter) ([]*domain.ConferenceWithOrganizer, error) {
	q, err := CompileConferenceQuery(filters)
	if err != nil {
		return nil, err
	}
	return s.runQuery(ctx, q)
}

func (s *conferenceService) ListMinAttendees(ctx context.Context) ([]*domain.ConferenceWithOrganizer, error) {
	q, err := CompileConferenceQuery([]domain.ConferenceFilter{{Field: "MAX_ATTENDEES", Operator: "LTEQ", Value: "5"}})
	if err != nil {
		return nil, err
	}
	return s.runQuery(ctx, q)
}

func (s *conferenceService) ListMaxAttendees(ctx context.Context) ([]*domain.ConferenceWithOrganizer, error) {
	q, err := CompileConferenceQuery([]domain.ConferenceFilter{{Field: "MAX_ATTENDEES", Operator: "GTEQ", Value: "100"}})
	if err != nil {
		return nil, err
	}
	return s.runQuery(ctx, q)
}

func (s *conferenceService) runQuery(ctx context.Context, q *domain.ConferenceQuery) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return withOrganizers(ctx, s.profileRepo, confs)
}

func (s *conferenceService) GetFeaturedSpeaker(ctx context.Context, websafeKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := loadConference(ctx, s.conferenceRepo, websafeKey)
	if err != nil {
		return "", err
	}
	featured, ok, err := s.cache.Get(ctx, domain.FeaturedSpeakerCacheKey(conf.Key().Encode()))
	if err != nil {
		return "", fmt.Errorf("get featured speaker: %w", err)
	}
	if !ok || featured == "" {
		return noFeaturedSpeakers, nil
	}
	return featured, nil
}

func (s *conferenceService) withOrganizer(ctx context.Context, c *domain.Conference) (*domain.ConferenceWithOrganizer, error) {
	out, err := withOrganizers(ctx, s.profileRepo, []*domain.Conference{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// loadConference decodes a conference key and fetches the conference it addresses.
func loadConference(ctx context.Context, repo domain.ConferenceRepository, websafeKey string) (*domain.Conference, error) {
	key, err := domain.DecodeConferenceKey(websafeKey)
	if err != nil {
		return nil, err
	}
	conf, err := repo.GetByID(ctx, key.IntID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, websafeKey)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerUserID != key.Parent.StringID {
		return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, websafeKey)
	}
	return conf, nil
}

// withOrganizers attaches organizer display names, fetching all profiles in one call.
func withOrganizers(ctx context.Context, profileRepo domain.ProfileRepository, confs []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	out := make([]*domain.ConferenceWithOrganizer, 0, len(confs))
	if len(confs) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range confs {
		if _, ok := seen[c.OrganizerUserID]; !ok {
			seen[c.OrganizerUserID] = struct{}{}
			ids = append(ids, c.OrganizerUserID)
		}
	}
	profiles, err := profileRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get organizer profiles: %w", err)
	}
	for _, c := range confs {
		item := &domain.ConferenceWithOrganizer{Conference: c}
		if p, ok := profiles[c.OrganizerUserID]; ok {
			item.OrganizerDisplayName = p.DisplayName
		}
		out = append(out, item)
	}
	return out, nil
}
