package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"nightout/internal/delivery/http/helpers"
	"nightout/internal/delivery/http/middleware"
	"nightout/internal/domain"
)

// UpdatePreferencesRequest is the request body for PUT /me/preferences. Omitted fields keep their current value.
type UpdatePreferencesRequest struct {
	PartySize       string `json:"party_size"`
	VibeType        string `json:"vibe_type"`
	PriceRange      string `json:"price_range"`
	MusicPreference string `json:"music_preference"`
	VenueType       string `json:"venue_type"`
}

// Validate implements Validator. Allowed values are checked by the service after normalization.
func (u UpdatePreferencesRequest) Validate() []string {
	for _, v := range []string{u.PartySize, u.VibeType, u.PriceRange, u.MusicPreference, u.VenueType} {
		if strings.TrimSpace(v) != "" {
			return nil
		}
	}
	return []string{"at least one preference is required"}
}

// UserController serves user lookup and per-user preferences.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// SearchUsers godoc
// @Summary Suggest invitees by email
// @Description Case-insensitive substring match on email. Returns at most 5 users; queries shorter than 2 characters return an empty list.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Part of an email address"
// @Success 200 {object} helpers.APIResponse "data contains id, email and name of matching users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/search [get]
func (c *UserController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	users, err := c.Service.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetPreferences godoc
// @Summary Get my night-out preferences
// @Description Returns the saved preferences, or the defaults when nothing was saved yet.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the preferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/preferences [get]
func (c *UserController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	prefs, err := c.Service.GetPreferences(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prefs)
}

// UpdatePreferences godoc
// @Summary Save my night-out preferences
// @Description Upserts the caller's preferences. party_size: solo, couple, small-group, large-group. vibe_type: chill, moderate, lively, party. price_range: budget, moderate, high-end, luxury. music_preference: live-music, dj, background-music, quiet. venue_type: food-and-drink, entertainment, sport.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} helpers.APIResponse "data contains the stored preferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/preferences [put]
func (c *UserController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdatePreferencesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	prefs, err := c.Service.UpdatePreferences(r.Context(), userID, domain.Preferences{
		PartySize:       req.PartySize,
		VibeType:        req.VibeType,
		PriceRange:      req.PriceRange,
		MusicPreference: req.MusicPreference,
		VenueType:       req.VenueType,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prefs)
}
