package domain

import (
	"context"
	"time"
)

// Conference is owned by the organizer's profile and mutable only by its owner.
type Conference struct {
	ID              int64
	OrganizerUserID string
	Name            string
	Description     string
	City            string
	Topics          []string
	Month           int
	MaxAttendees    int
	SeatsAvailable  int
	StartDate       *time.Time
	EndDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Key returns the hierarchical key of the conference.
func (c *Conference) Key() *Key {
	return ConferenceKey(c.OrganizerUserID, c.ID)
}

// ConferenceInput carries the user-supplied conference fields. Nil or empty
// values mean "not provided".
type ConferenceInput struct {
	Name         string
	Description  string
	City         string
	Topics       []string
	MaxAttendees *int
	StartDate    string
	EndDate      string
}

// ConferenceWithOrganizer bundles a conference with its organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference
	OrganizerDisplayName string
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id int64) (*Conference, error)
	GetMulti(ctx context.Context, ids []int64) ([]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	// Query executes a compiled plan. The plan is trusted: validation happens at compile time.
	Query(ctx context.Context, q *ConferenceQuery) ([]*Conference, error)
	// Update loads the conference, applies fn and stores the result in one transaction.
	Update(ctx context.Context, id int64, fn func(c *Conference) error) (*Conference, error)
}

// ConferenceService defines conference management and querying.
type ConferenceService interface {
	CreateConference(ctx context.Context, identity *Identity, in *ConferenceInput) (*ConferenceWithOrganizer, error)
	UpdateConference(ctx context.Context, userID, websafeKey string, in *ConferenceInput) (*ConferenceWithOrganizer, error)
	GetConference(ctx context.Context, websafeKey string) (*ConferenceWithOrganizer, error)
	ListCreated(ctx context.Context, userID string) ([]*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []ConferenceFilter) ([]*ConferenceWithOrganizer, error)
	ListMinAttendees(ctx context.Context) ([]*ConferenceWithOrganizer, error)
	ListMaxAttendees(ctx context.Context) ([]*ConferenceWithOrganizer, error)
	GetFeaturedSpeaker(ctx context.Context, websafeKey string) (string, error)
}
