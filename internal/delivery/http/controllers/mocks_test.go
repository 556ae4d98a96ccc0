package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var alice = &domain.Identity{UserID: "alice", Email: "alice@example.com", Nickname: "alice"}

// serve routes one request through a ServeMux so path values are resolved through a ServeMux pattern.
func serve(t *testing.T, pattern string, handler http.HandlerFunc, method, target, body string, identity *domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if identity != nil {
		req = req.WithContext(middleware.SetIdentity(req.Context(), identity))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

type mockConferenceService struct {
	conf        *domain.ConferenceWithOrganizer
	list        []*domain.ConferenceWithOrganizer
	featured    string
	err         error
	gotInput    *domain.ConferenceInput
	gotKey      string
	gotUserID   string
	gotFilters  []domain.ConferenceFilter
	gotIdentity *domain.Identity
}

func (m *mockConferenceService) CreateConference(ctx context.Context, identity *domain.Identity, in *domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	m.gotIdentity, m.gotInput = identity, in
	return m.conf, m.err
}

func (m *mockConferenceService) UpdateConference(ctx context.Context, userID, key string, in *domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	m.gotUserID, m.gotKey, m.gotInput = userID, key, in
	return m.conf, m.err
}

func (m *mockConferenceService) GetConference(ctx context.Context, key string) (*domain.ConferenceWithOrganizer, error) {
	m.gotKey = key
	return m.conf, m.err
}

func (m *mockConferenceService) ListCreated(ctx context.Context, userID string) ([]*domain.ConferenceWithOrganizer, error) {
	m.gotUserID = userID
	return m.list, m.err
}

func (m *mockConferenceService) QueryConferences(ctx context.Context, filters []domain.ConferenceFilter) ([]*domain.ConferenceWithOrganizer, error) {
	m.gotFilters = filters
	return m.list, m.err
}

func (m *mockConferenceService) ListMinAttendees(ctx context.Context) ([]*domain.ConferenceWithOrganizer, error) {
	return m.list, m.err
}

func (m *mockConferenceService) ListMaxAttendees(ctx context.Context) ([]*domain.ConferenceWithOrganizer, error) {
	return m.list, m.err
}

func (m *mockConferenceService) GetFeaturedSpeaker(ctx context.Context, key string) (string, error) {
	m.gotKey = key
	return m.featured, m.err
}

type mockProfileService struct {
	profile     *domain.Profile
	ok          bool
	confs       []*domain.ConferenceWithOrganizer
	sessions    []*domain.SessionWithSpeakers
	err         error
	gotKey      string
	gotUpdate   *domain.ProfileUpdate
	gotIdentity *domain.Identity
}

func (m *mockProfileService) GetProfile(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	m.gotIdentity = identity
	return m.profile, m.err
}

func (m *mockProfileService) SaveProfile(ctx context.Context, identity *domain.Identity, upd *domain.ProfileUpdate) (*domain.Profile, error) {
	m.gotIdentity, m.gotUpdate = identity, upd
	return m.profile, m.err
}

func (m *mockProfileService) Register(ctx context.Context, identity *domain.Identity, key string) (bool, error) {
	m.gotIdentity, m.gotKey = identity, key
	return m.ok, m.err
}

func (m *mockProfileService) Unregister(ctx context.Context, identity *domain.Identity, key string) (bool, error) {
	m.gotIdentity, m.gotKey = identity, key
	return m.ok, m.err
}

func (m *mockProfileService) ListConferencesToAttend(ctx context.Context, identity *domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	return m.confs, m.err
}

func (m *mockProfileService) AddSessionToWishlist(ctx context.Context, identity *domain.Identity, key string) (bool, error) {
	m.gotKey = key
	return m.ok, m.err
}

func (m *mockProfileService) ListWishlist(ctx context.Context, identity *domain.Identity) ([]*domain.SessionWithSpeakers, error) {
	return m.sessions, m.err
}

type mockSessionService struct {
	session    *domain.SessionWithSpeakers
	list       []*domain.SessionWithSpeakers
	err        error
	gotKey     string
	gotType    string
	gotSpeaker string
	gotInput   *domain.SessionInput
}

func (m *mockSessionService) CreateSession(ctx context.Context, userID, key string, in *domain.SessionInput) (*domain.SessionWithSpeakers, error) {
	m.gotKey, m.gotInput = key, in
	return m.session, m.err
}

func (m *mockSessionService) ListByConference(ctx context.Context, key string) ([]*domain.SessionWithSpeakers, error) {
	m.gotKey = key
	return m.list, m.err
}

func (m *mockSessionService) ListByConferenceAndType(ctx context.Context, key, typeOfSession string) ([]*domain.SessionWithSpeakers, error) {
	m.gotKey, m.gotType = key, typeOfSession
	return m.list, m.err
}

func (m *mockSessionService) ListBySpeaker(ctx context.Context, name string) ([]*domain.SessionWithSpeakers, error) {
	m.gotSpeaker = name
	return m.list, m.err
}

type mockAnnouncementService struct {
	text  string
	err   error
	calls int
}

func (m *mockAnnouncementService) CacheAnnouncement(ctx context.Context) (string, error) {
	m.calls++
	return m.text, m.err
}

func (m *mockAnnouncementService) GetAnnouncement(ctx context.Context) (string, error) {
	return m.text, m.err
}
