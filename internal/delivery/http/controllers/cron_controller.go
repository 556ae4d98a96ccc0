package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type CronController struct {
	Logger        *slog.Logger
	Announcements domain.AnnouncementService
}

func NewCronController(logger *slog.Logger, announcements domain.AnnouncementService) *CronController {
	return &CronController{Logger: logger, Announcements: announcements}
}

// SetAnnouncement godoc
// @Summary Refresh the nearly sold out announcement
// @Description Intended for schedulers; the API process also refreshes it on a timer.
// @Tags cron
// @Success 204
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crons/set_announcement [get]
func (c *CronController) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := c.Announcements.CacheAnnouncement(r.Context()); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
