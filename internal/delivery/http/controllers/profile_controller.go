package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type ProfileController struct {
	Logger   *slog.Logger
	Profiles domain.ProfileService
}

func NewProfileController(logger *slog.Logger, profiles domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Profiles: profiles}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description The profile is created from the token claims on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := c.Profiles.GetProfile(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileResponse(p))
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body controllers.ProfileForm true "Display name and t-shirt size"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var form ProfileForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := c.Profiles.SaveProfile(r.Context(), identity, &domain.ProfileUpdate{
		DisplayName:  form.DisplayName,
		TeeShirtSize: form.TeeShirtSize,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileResponse(p))
}

// ListWishlist godoc
// @Summary List the sessions in the caller's wishlist
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wishlist [get]
func (c *ProfileController) ListWishlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	list, err := c.Profiles.ListWishlist(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionResponses(list))
}

// AddToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.WishlistForm true "Session key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /wishlist [post]
func (c *ProfileController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var form WishlistForm
	if !helpers.DecodeAndValidate(w, r, &form) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	added, err := c.Profiles.AddSessionToWishlist(r.Context(), identity, form.WebsafeSessionKey)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, added)
}
