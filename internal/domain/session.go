package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TypeOfSession enumerates session formats.
type TypeOfSession string

const (
	SessionTypeNotSpecified TypeOfSession = "NOT_SPECIFIED"
	SessionTypeWorkshop     TypeOfSession = "WORKSHOP"
	SessionTypeLecture      TypeOfSession = "LECTURE"
	SessionTypeKeynote      TypeOfSession = "KEYNOTE"
	SessionTypeDemo         TypeOfSession = "DEMO"
	SessionTypePanel        TypeOfSession = "PANEL"
	SessionTypeForum        TypeOfSession = "FORUM"
)

// ParseTypeOfSession returns the session type named by s (case-insensitive).
func ParseTypeOfSession(s string) (TypeOfSession, error) {
	t := TypeOfSession(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case SessionTypeNotSpecified, SessionTypeWorkshop, SessionTypeLecture, SessionTypeKeynote,
		SessionTypeDemo, SessionTypePanel, SessionTypeForum:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown typeOfSession %q", ErrInvalidInput, s)
}

// Clock is a minute-resolution "HH:MM" value. Sessions use it both for the
// start time and for the duration.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses the first five characters of s as HH:MM.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats c as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the number of minutes since 00:00.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// ClockFromMinutes is the inverse of Clock.Minutes.
func ClockFromMinutes(m int) Clock {
	return Clock{Hour: m / 60, Minute: m % 60}
}

// Duration returns c interpreted as a length of time.
func (c Clock) Duration() time.Duration {
	return time.Duration(c.Minutes()) * time.Minute
}

// Session is a child of a conference and is never re-parented.
type Session struct {
	ID              int64
	ConferenceID    int64
	OrganizerUserID string
	Name            string
	Highlights      []string
	Duration        Clock
	TypeOfSession   TypeOfSession
	Date            time.Time
	StartTime       Clock
	Location        string
	// Speakers holds normalized speaker keys in request order; duplicates are kept.
	Speakers  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConferenceKey returns the key of the parent conference.
func (s *Session) ConferenceKey() *Key {
	return ConferenceKey(s.OrganizerUserID, s.ConferenceID)
}

// Key returns the hierarchical key of the session.
func (s *Session) Key() *Key {
	return SessionKey(s.ConferenceKey(), s.ID)
}

// SessionInput carries user-supplied session fields.
type SessionInput struct {
	Name          string
	Highlights    []string
	Speakers      []string
	Duration      string
	TypeOfSession string
	Date          string
	StartTime     string
	Location      string
}

// SessionWithSpeakers bundles a session with the display names of its speakers, in order.
type SessionWithSpeakers struct {
	Session      *Session
	SpeakerNames []string
}

// SessionRepository defines storage operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	GetMulti(ctx context.Context, ids []int64) ([]*Session, error)
	// ListByConference returns every session of the conference in key order.
	ListByConference(ctx context.Context, conferenceID int64) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID int64, t TypeOfSession) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerKey string) ([]*Session, error)
}

// SessionService defines session creation and lookup.
type SessionService interface {
	CreateSession(ctx context.Context, userID, websafeConferenceKey string, in *SessionInput) (*SessionWithSpeakers, error)
	ListByConference(ctx context.Context, websafeConferenceKey string) ([]*SessionWithSpeakers, error)
	ListByConferenceAndType(ctx context.Context, websafeConferenceKey, typeOfSession string) ([]*SessionWithSpeakers, error)
	ListBySpeaker(ctx context.Context, speakerName string) ([]*SessionWithSpeakers, error)
}
