package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"nightout/internal/delivery/http/helpers"
	"nightout/internal/delivery/http/middleware"
	"nightout/internal/domain"
)

// AddVenueRequest is the request body for POST /plans/{planID}/venues.
type AddVenueRequest struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Validate implements Validator.
func (a AddVenueRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.PlaceID) == "" {
		errs = append(errs, "place_id is required")
	}
	if a.Lat < -90 || a.Lat > 90 {
		errs = append(errs, "lat must be between -90 and 90")
	}
	if a.Lng < -180 || a.Lng > 180 {
		errs = append(errs, "lng must be between -180 and 180")
	}
	return errs
}

type PlanController struct {
	Logger  *slog.Logger
	Service domain.PlannerService
}

func NewPlanController(logger *slog.Logger, svc domain.PlannerService) *PlanController {
	return &PlanController{
		Logger:  logger,
		Service: svc,
	}
}

// userAndPlan pulls the caller and the planID path value, writing the error response itself.
func (c *PlanController) userAndPlan(w http.ResponseWriter, r *http.Request) (userID, planID string, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	planID = r.PathValue("planID")
	if planID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing planID")
		return "", "", false
	}
	return userID, planID, true
}

// CreatePlan godoc
// @Summary Start a route plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} helpers.APIResponse "data contains the empty plan"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /plans [post]
func (c *PlanController) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	view, err := c.Service.CreatePlan(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// GetPlan godoc
// @Summary Get a plan with venues in display order
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Success 200 {object} helpers.APIResponse "data contains the plan"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /plans/{planID} [get]
func (c *PlanController) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	view, err := c.Service.GetPlan(r.Context(), planID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags plans
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /plans/{planID} [delete]
func (c *PlanController) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeletePlan(r.Context(), planID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVenue godoc
// @Summary Add a venue to a plan
// @Description Adding a venue already on the route is a no-op. Venues returned by a previous search are stored with their catalog name, address and coordinates; the body values are used only for unknown place IDs.
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Param body body AddVenueRequest true "Venue"
// @Success 200 {object} helpers.APIResponse "data contains the updated plan"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /plans/{planID}/venues [post]
func (c *PlanController) AddVenue(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	var req AddVenueRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	venue := domain.Venue{
		PlaceID: strings.TrimSpace(req.PlaceID),
		Name:    req.Name,
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	}
	view, err := c.Service.AddVenue(r.Context(), planID, userID, venue)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// RemoveVenue godoc
// @Summary Remove a venue from a plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Param placeID path string true "Place ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated plan"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /plans/{planID}/venues/{placeID} [delete]
func (c *PlanController) RemoveVenue(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	placeID := r.PathValue("placeID")
	if placeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing placeID")
		return
	}
	view, err := c.Service.RemoveVenue(r.Context(), planID, userID, placeID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// ClearVenues godoc
// @Summary Remove every venue from a plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Success 200 {object} helpers.APIResponse "data contains the empty plan"
// @Router /plans/{planID}/venues [delete]
func (c *PlanController) ClearVenues(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	view, err := c.Service.ClearVenues(r.Context(), planID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Optimize godoc
// @Summary Reorder a plan's stops
// @Description Keeps the first and last stop fixed and asks the directions provider for the best order of the rest. When the provider fails the plan comes back in insertion order with optimized=false.
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Success 200 {object} helpers.APIResponse "data contains the plan in display order"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /plans/{planID}/optimize [post]
func (c *PlanController) Optimize(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := c.userAndPlan(w, r)
	if !ok {
		return
	}
	view, err := c.Service.Optimize(r.Context(), planID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}
