package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ConferenceController struct {
	Logger        *slog.Logger
	Conferences   domain.ConferenceService
	Profiles      domain.ProfileService
	Announcements domain.AnnouncementService
}

func NewConferenceController(logger *slog.Logger, conferences domain.ConferenceService, profiles domain.ProfileService, announcements domain.AnnouncementService) *ConferenceController {
	return &ConferenceController{
		Logger:        logger,
		Conferences:   conferences,
		Profiles:      profiles,
		Announcements: announcements,
	}
}

// requireIdentity writes 401 and returns false when the request carries no authenticated caller.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authorization required")
		return nil, false
	}
	return identity, true
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. Missing city and topics get defaults; seatsAvailable starts at maxAttendees. A confirmation email is queued.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conference body controllers.ConferenceForm true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var form ConferenceForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	conf, err := c.Conferences.CreateConference(r.Context(), identity, form.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toConferenceResponse(conf))
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conf, err := c.Conferences.GetConference(r.Context(), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponse(conf))
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Only the organizer may update. Empty fields are left unchanged; a new startDate recomputes month.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Param conference body controllers.ConferenceForm true "Fields to change"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	var form ConferenceForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	conf, err := c.Conferences.UpdateConference(r.Context(), identity.UserID, r.PathValue("websafeConferenceKey"), form.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponse(conf))
}

// RegisterForConference godoc
// @Summary Register for a conference
// @Description Takes one seat for the caller. Fails with 409 when already registered or sold out.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /conference/{websafeConferenceKey} [post]
func (c *ConferenceController) RegisterForConference(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	registered, err := c.Profiles.Register(r.Context(), identity, r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registered)
}

// UnregisterFromConference godoc
// @Summary Unregister from a conference
// @Description Releases the caller's seat. Returns false when the caller was not registered.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey} [delete]
func (c *ConferenceController) UnregisterFromConference(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	released, err := c.Profiles.Unregister(r.Context(), identity, r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, released)
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker announcement of a conference
// @Tags conferences
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.StringSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey}/featured [get]
func (c *ConferenceController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	text, err := c.Conferences.GetFeaturedSpeaker(r.Context(), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, text)
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters are ANDed. Inequality operators may target only one field; results are ordered by that field, then name.
// @Tags conferences
// @Accept json
// @Produce json
// @Param query body controllers.ConferenceQueryForm true "Filters"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /queryConferences [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var form ConferenceQueryForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	list, err := c.Conferences.QueryConferences(r.Context(), form.filters())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponses(list))
}

// ListCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	list, err := c.Conferences.ListCreated(r.Context(), identity.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponses(list))
}

// ListAttending godoc
// @Summary List conferences the caller is registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	list, err := c.Profiles.ListConferencesToAttend(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponses(list))
}

// ListMinAttendees godoc
// @Summary List small conferences (maxAttendees <= 5)
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Router /conferences/minAttendees [get]
func (c *ConferenceController) ListMinAttendees(w http.ResponseWriter, r *http.Request) {
	list, err := c.Conferences.ListMinAttendees(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponses(list))
}

// ListMaxAttendees godoc
// @Summary List large conferences (maxAttendees >= 100)
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Router /conferences/maxAttendees [get]
func (c *ConferenceController) ListMaxAttendees(w http.ResponseWriter, r *http.Request) {
	list, err := c.Conferences.ListMaxAttendees(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponses(list))
}

// GetAnnouncement godoc
// @Summary Get the nearly sold out announcement
// @Description Returns an empty string when no conference is nearly sold out.
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.StringSuccessResponse
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	text, err := c.Announcements.GetAnnouncement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, text)
}
