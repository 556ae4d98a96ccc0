package controllers

import (
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

const dateLayout = "2006-01-02"

// ConferenceForm is the request body for POST /conference and PUT /conference/{websafeConferenceKey}.
// On update, omitted or empty fields are left unchanged.
type ConferenceForm struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"startDate" example:"2026-06-10"`
	EndDate      string   `json:"endDate" example:"2026-06-12"`
	MaxAttendees *int     `json:"maxAttendees"`
}

func (f *ConferenceForm) input() *domain.ConferenceInput {
	return &domain.ConferenceInput{
		Name:         f.Name,
		Description:  f.Description,
		City:         f.City,
		Topics:       f.Topics,
		MaxAttendees: f.MaxAttendees,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
	}
}

// ConferenceResponse is the public representation of a conference.
type ConferenceResponse struct {
	WebsafeKey           string   `json:"websafeKey"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerUserID      string   `json:"organizerUserId"`
	OrganizerDisplayName string   `json:"organizerDisplayName"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"startDate,omitempty"`
	EndDate              string   `json:"endDate,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"maxAttendees"`
	SeatsAvailable       int      `json:"seatsAvailable"`
}

func toConferenceResponse(cw *domain.ConferenceWithOrganizer) ConferenceResponse {
	c := cw.Conference
	resp := ConferenceResponse{
		WebsafeKey:           c.Key().Encode(),
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerUserID:      c.OrganizerUserID,
		OrganizerDisplayName: cw.OrganizerDisplayName,
		Topics:               nonNil(c.Topics),
		City:                 c.City,
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
	}
	if c.StartDate != nil {
		resp.StartDate = c.StartDate.Format(dateLayout)
	}
	if c.EndDate != nil {
		resp.EndDate = c.EndDate.Format(dateLayout)
	}
	return resp
}

func toConferenceResponses(list []*domain.ConferenceWithOrganizer) []ConferenceResponse {
	out := make([]ConferenceResponse, 0, len(list))
	for _, cw := range list {
		out = append(out, toConferenceResponse(cw))
	}
	return out
}

// ConferenceQueryFilter is one (field, operator, value) triple, e.g. {"MONTH", "GT", "6"}.
type ConferenceQueryFilter struct {
	Field    string `json:"field" example:"MONTH"`
	Operator string `json:"operator" example:"GT"`
	Value    string `json:"value" example:"6"`
}

// ConferenceQueryForm is the request body for POST /queryConferences.
type ConferenceQueryForm struct {
	Filters []ConferenceQueryFilter `json:"filters"`
}

func (f *ConferenceQueryForm) filters() []domain.ConferenceFilter {
	out := make([]domain.ConferenceFilter, 0, len(f.Filters))
	for _, qf := range f.Filters {
		out = append(out, domain.ConferenceFilter{Field: qf.Field, Operator: qf.Operator, Value: qf.Value})
	}
	return out
}

// SessionForm is the request body for POST /conference/{websafeConferenceKey}/sessions.
type SessionForm struct {
	Name          string   `json:"name"`
	Highlights    []string `json:"highlights"`
	Speakers      []string `json:"speakers"`
	Duration      string   `json:"duration" example:"01:30"`
	TypeOfSession string   `json:"typeOfSession" example:"WORKSHOP"`
	Date          string   `json:"date" example:"2026-06-10"`
	StartTime     string   `json:"startTime" example:"09:00"`
	Location      string   `json:"location"`
}

// Validate implements helpers.Validator.
func (f *SessionForm) Validate() []string {
	if strings.TrimSpace(f.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

func (f *SessionForm) input() *domain.SessionInput {
	return &domain.SessionInput{
		Name:          f.Name,
		Highlights:    f.Highlights,
		Speakers:      f.Speakers,
		Duration:      f.Duration,
		TypeOfSession: f.TypeOfSession,
		Date:          f.Date,
		StartTime:     f.StartTime,
		Location:      f.Location,
	}
}

// SessionResponse is the public representation of a session. Speakers holds display names.
type SessionResponse struct {
	WebsafeKey           string   `json:"websafeKey"`
	WebsafeConferenceKey string   `json:"websafeConferenceKey"`
	Name                 string   `json:"name"`
	Highlights           []string `json:"highlights"`
	Speakers             []string `json:"speakers"`
	Duration             string   `json:"duration"`
	TypeOfSession        string   `json:"typeOfSession"`
	Date                 string   `json:"date"`
	StartTime            string   `json:"startTime"`
	Location             string   `json:"location"`
}

func toSessionResponse(sw *domain.SessionWithSpeakers) SessionResponse {
	s := sw.Session
	return SessionResponse{
		WebsafeKey:           s.Key().Encode(),
		WebsafeConferenceKey: s.ConferenceKey().Encode(),
		Name:                 s.Name,
		Highlights:           nonNil(s.Highlights),
		Speakers:             nonNil(sw.SpeakerNames),
		Duration:             s.Duration.String(),
		TypeOfSession:        string(s.TypeOfSession),
		Date:                 s.Date.Format(dateLayout),
		StartTime:            s.StartTime.String(),
		Location:             s.Location,
	}
}

func toSessionResponses(list []*domain.SessionWithSpeakers) []SessionResponse {
	out := make([]SessionResponse, 0, len(list))
	for _, sw := range list {
		out = append(out, toSessionResponse(sw))
	}
	return out
}

// ProfileForm is the request body for POST /profile. Empty fields are left unchanged.
type ProfileForm struct {
	DisplayName  string `json:"displayName"`
	TeeShirtSize string `json:"teeShirtSize" example:"M_W"`
}

// ProfileResponse is the public representation of the caller's profile.
type ProfileResponse struct {
	DisplayName            string   `json:"displayName"`
	MainEmail              string   `json:"mainEmail"`
	TeeShirtSize           string   `json:"teeShirtSize"`
	ConferenceKeysToAttend []string `json:"conferenceKeysToAttend"`
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: nonNil(p.ConferenceKeysToAttend),
	}
}

// WishlistForm is the request body for POST /wishlist.
type WishlistForm struct {
	WebsafeSessionKey string `json:"websafeSessionKey"`
}

// Validate implements helpers.Validator.
func (f *WishlistForm) Validate() []string {
	if strings.TrimSpace(f.WebsafeSessionKey) == "" {
		return []string{"websafeSessionKey is required"}
	}
	return nil
}

// Swagger envelopes.

type ConferenceSuccessResponse struct {
	Data  ConferenceResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ConferenceListSuccessResponse struct {
	Data  []ConferenceResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SessionSuccessResponse struct {
	Data  SessionResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionListSuccessResponse struct {
	Data  []SessionResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ProfileSuccessResponse struct {
	Data  ProfileResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type BooleanSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type StringSuccessResponse struct {
	Data  string            `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
