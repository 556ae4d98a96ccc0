package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockConferenceRepository struct {
	confs    map[int64]*domain.Conference
	nextID   int64
	err      error
	lastQ    *domain.ConferenceQuery
	queryOut []*domain.Conference
}

func newMockConferenceRepository(confs ...*domain.Conference) *mockConferenceRepository {
	m := &mockConferenceRepository{confs: map[int64]*domain.Conference{}, nextID: 100}
	for _, c := range confs {
		m.confs[c.ID] = c
	}
	return m
}

func (m *mockConferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	c.ID = m.nextID
	m.confs[c.ID] = c
	return nil
}

func (m *mockConferenceRepository) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.confs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockConferenceRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Conference
	for _, id := range ids {
		if c, ok := m.confs[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Conference
	for _, c := range m.confs {
		if c.OrganizerUserID == organizerUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockConferenceRepository) Query(ctx context.Context, q *domain.ConferenceQuery) ([]*domain.Conference, error) {
	m.lastQ = q
	if m.err != nil {
		return nil, m.err
	}
	return m.queryOut, nil
}

func (m *mockConferenceRepository) Update(ctx context.Context, id int64, fn func(c *domain.Conference) error) (*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.confs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.confs[id] = &cp
	return &cp, nil
}

type mockProfileRepository struct {
	profiles map[string]*domain.Profile
	err      error
}

func newMockProfileRepository(profiles ...*domain.Profile) *mockProfileRepository {
	m := &mockProfileRepository{profiles: map[string]*domain.Profile{}}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileRepository) GetOrCreate(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if existing, ok := m.profiles[p.UserID]; ok {
		return existing, nil
	}
	m.profiles[p.UserID] = p
	return p, nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepository) GetMulti(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]*domain.Profile{}
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, userID string, fn func(p *domain.Profile) error) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.WishlistSessionKeys = append([]string(nil), p.WishlistSessionKeys...)
	cp.ConferenceKeysToAttend = append([]string(nil), p.ConferenceKeysToAttend...)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.profiles[userID] = &cp
	return &cp, nil
}

// mockRegistrationRepository applies fn to copies and commits both only when fn succeeds.
type mockRegistrationRepository struct {
	confs    *mockConferenceRepository
	profiles *mockProfileRepository
}

func (m *mockRegistrationRepository) UpdateRegistration(ctx context.Context, conferenceID int64, userID string, fn func(c *domain.Conference, p *domain.Profile) error) error {
	c, ok := m.confs.confs[conferenceID]
	if !ok {
		return domain.ErrNotFound
	}
	p, ok := m.profiles.profiles[userID]
	if !ok {
		return domain.ErrNotFound
	}
	cc := *c
	pc := *p
	pc.ConferenceKeysToAttend = append([]string(nil), p.ConferenceKeysToAttend...)
	if err := fn(&cc, &pc); err != nil {
		return err
	}
	m.confs.confs[conferenceID] = &cc
	m.profiles.profiles[userID] = &pc
	return nil
}

type mockSessionRepository struct {
	sessions []*domain.Session
	nextID   int64
	err      error
}

func (m *mockSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	s.ID = m.nextID
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Session
	for _, id := range ids {
		for _, s := range m.sessions {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *mockSessionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Session
	for _, s := range m.sessions {
		if s.ConferenceID == conferenceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID int64, t domain.TypeOfSession) ([]*domain.Session, error) {
	all, err := m.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	var out []*domain.Session
	for _, s := range all {
		if s.TypeOfSession == t {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepository) ListBySpeaker(ctx context.Context, speakerKey string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Session
	for _, s := range m.sessions {
		for _, k := range s.Speakers {
			if k == speakerKey {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

type mockSpeakerRepository struct {
	speakers map[string]*domain.Speaker
	err      error
}

func newMockSpeakerRepository(names ...string) *mockSpeakerRepository {
	m := &mockSpeakerRepository{speakers: map[string]*domain.Speaker{}}
	for _, n := range names {
		k := domain.NormalizeSpeakerKey(n)
		m.speakers[k] = &domain.Speaker{Key: k, Name: n}
	}
	return m
}

func (m *mockSpeakerRepository) GetOrCreate(ctx context.Context, key, name string) (*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.speakers[key]; ok {
		return s, nil
	}
	s := &domain.Speaker{Key: key, Name: name}
	m.speakers[key] = s
	return s, nil
}

func (m *mockSpeakerRepository) GetByKey(ctx context.Context, key string) (*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.speakers[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSpeakerRepository) GetMulti(ctx context.Context, keys []string) (map[string]*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]*domain.Speaker{}
	for _, k := range keys {
		if s, ok := m.speakers[k]; ok {
			out[k] = s
		}
	}
	return out, nil
}

func (m *mockSpeakerRepository) ListOrderedByName(ctx context.Context) ([]*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Speaker, 0, len(m.speakers))
	for _, s := range m.speakers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockCache struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{values: map[string]string{}}
}

func (m *mockCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.deletes++
	delete(m.values, key)
	return nil
}

type enqueuedTask struct {
	name   string
	params map[string]string
}

type mockTaskQueue struct {
	tasks []enqueuedTask
	err   error
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, name string, params map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.tasks = append(m.tasks, enqueuedTask{name: name, params: params})
	return nil
}
