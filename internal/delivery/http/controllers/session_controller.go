package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type SessionController struct {
	Logger   *slog.Logger
	Sessions domain.SessionService
}

func NewSessionController(logger *slog.Logger, sessions domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Sessions: sessions}
}

// CreateSession godoc
// @Summary Create a session in a conference
// @Description Only the conference organizer may add sessions. Speakers are matched case-insensitively by name; a featured speaker review is queued.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Param session body controllers.SessionForm true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var form SessionForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	sess, err := c.Sessions.CreateSession(r.Context(), identity.UserID, r.PathValue("websafeConferenceKey"), form.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toSessionResponse(sess))
}

// ListByConference godoc
// @Summary List the sessions of a conference
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey}/sessions [get]
func (c *SessionController) ListByConference(w http.ResponseWriter, r *http.Request) {
	list, err := c.Sessions.ListByConference(r.Context(), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionResponses(list))
}

// ListByType godoc
// @Summary List the sessions of a conference with a given type
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Param typeOfSession query string true "Session type" Enums(NOT_SPECIFIED, WORKSHOP, LECTURE, KEYNOTE, DEMO, PANEL, FORUM)
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conference/{websafeConferenceKey}/sessions/byType [get]
func (c *SessionController) ListByType(w http.ResponseWriter, r *http.Request) {
	list, err := c.Sessions.ListByConferenceAndType(r.Context(), r.PathValue("websafeConferenceKey"), r.URL.Query().Get("typeOfSession"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionResponses(list))
}

// ListBySpeaker godoc
// @Summary List every session a speaker appears in
// @Tags sessions
// @Produce json
// @Param name query string true "Speaker name"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/bySpeaker [get]
func (c *SessionController) ListBySpeaker(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing name")
		return
	}
	list, err := c.Sessions.ListBySpeaker(r.Context(), name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionResponses(list))
}
