package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo      domain.ProfileRepository
	conferenceRepo   domain.ConferenceRepository
	sessionRepo      domain.SessionRepository
	speakerRepo      domain.SpeakerRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

// NewProfileService creates a ProfileService covering profiles, registrations and wishlists.
func NewProfileService(
	profileRepo domain.ProfileRepository,
	conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		profileRepo:      profileRepo,
		conferenceRepo:   conferenceRepo,
		sessionRepo:      sessionRepo,
		speakerRepo:      speakerRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *profileService) ensureProfile(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	p, err := s.profileRepo.GetOrCreate(ctx, domain.NewProfile(identity, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) GetProfile(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ensureProfile(ctx, identity)
}

func (s *profileService) SaveProfile(ctx context.Context, identity *domain.Identity, upd *domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var size domain.TeeShirtSize
	if upd.TeeShirtSize != "" {
		var err error
		if size, err = domain.ParseTeeShirtSize(upd.TeeShirtSize); err != nil {
			return nil, err
		}
	}
	if _, err := s.ensureProfile(ctx, identity); err != nil {
		return nil, err
	}
	p, err := s.profileRepo.Update(ctx, identity.UserID, func(p *domain.Profile) error {
		if name := strings.TrimSpace(upd.DisplayName); name != "" {
			p.DisplayName = name
		}
		if size != "" {
			p.TeeShirtSize = size
		}
		p.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Register(ctx context.Context, identity *domain.Identity, websafeConferenceKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeConferenceKey(websafeConferenceKey)
	if err != nil {
		return false, err
	}
	if _, err := s.ensureProfile(ctx, identity); err != nil {
		return false, err
	}
	confKey := key.Encode()
	err = s.registrationRepo.UpdateRegistration(ctx, key.IntID, identity.UserID, func(c *domain.Conference, p *domain.Profile) error {
		if c.OrganizerUserID != key.Parent.StringID {
			return domain.ErrNotFound
		}
		if p.AttendsConference(confKey) {
			return domain.ErrAlreadyRegistered
		}
		if c.SeatsAvailable <= 0 {
			return domain.ErrNoSeatsAvailable
		}
		p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, confKey)
		c.SeatsAvailable--
		return nil
	})
	if err != nil {
		return false, registrationError(err, websafeConferenceKey)
	}
	return true, nil
}

func (s *profileService) Unregister(ctx context.Context, identity *domain.Identity, websafeConferenceKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeConferenceKey(websafeConferenceKey)
	if err != nil {
		return false, err
	}
	if _, err := s.ensureProfile(ctx, identity); err != nil {
		return false, err
	}
	confKey := key.Encode()
	var removed bool
	err = s.registrationRepo.UpdateRegistration(ctx, key.IntID, identity.UserID, func(c *domain.Conference, p *domain.Profile) error {
		if c.OrganizerUserID != key.Parent.StringID {
			return domain.ErrNotFound
		}
		if !p.AttendsConference(confKey) {
			return nil
		}
		p.RemoveConference(confKey)
		c.SeatsAvailable++
		removed = true
		return nil
	})
	if err != nil {
		return false, registrationError(err, websafeConferenceKey)
	}
	return removed, nil
}

func registrationError(err error, websafeConferenceKey string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, websafeConferenceKey)
	case errors.Is(err, domain.ErrConflict):
		return err
	}
	return fmt.Errorf("update registration: %w", err)
}

func (s *profileService) ListConferencesToAttend(ctx context.Context, identity *domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.ensureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	owners := make(map[int64]string, len(p.ConferenceKeysToAttend))
	ids := make([]int64, 0, len(p.ConferenceKeysToAttend))
	for _, k := range p.ConferenceKeysToAttend {
		key, err := domain.DecodeConferenceKey(k)
		if err != nil {
			continue
		}
		owners[key.IntID] = key.Parent.StringID
		ids = append(ids, key.IntID)
	}
	if len(ids) == 0 {
		return []*domain.ConferenceWithOrganizer{}, nil
	}
	confs, err := s.conferenceRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	kept := confs[:0]
	for _, c := range confs {
		if owners[c.ID] == c.OrganizerUserID {
			kept = append(kept, c)
		}
	}
	return withOrganizers(ctx, s.profileRepo, kept)
}

func (s *profileService) AddSessionToWishlist(ctx context.Context, identity *domain.Identity, websafeSessionKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeSessionKey(websafeSessionKey)
	if err != nil {
		return false, err
	}
	sess, err := s.sessionRepo.GetByID(ctx, key.IntID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get session: %w", err)
	}
	if sess == nil || !sess.Key().Equal(key) {
		return false, fmt.Errorf("%w: no session found with key: %s", domain.ErrNotFound, websafeSessionKey)
	}
	if _, err := s.ensureProfile(ctx, identity); err != nil {
		return false, err
	}

	sessKey := key.Encode()
	_, err = s.profileRepo.Update(ctx, identity.UserID, func(p *domain.Profile) error {
		if p.HasWishlistSession(sessKey) {
			return domain.ErrAlreadyInWishlist
		}
		p.WishlistSessionKeys = append(p.WishlistSessionKeys, sessKey)
		p.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, err
		}
		return false, fmt.Errorf("update wishlist: %w", err)
	}
	return true, nil
}

func (s *profileService) ListWishlist(ctx context.Context, identity *domain.Identity) ([]*domain.SessionWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.ensureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(p.WishlistSessionKeys))
	for _, k := range p.WishlistSessionKeys {
		key, err := domain.DecodeSessionKey(k)
		if err != nil {
			continue
		}
		ids = append(ids, key.IntID)
	}
	if len(ids) == 0 {
		return []*domain.SessionWithSpeakers{}, nil
	}
	sessions, err := s.sessionRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	return withSpeakerNames(ctx, s.speakerRepo, sessions)
}
