package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"nightout/internal/delivery/http/helpers"
	"nightout/internal/domain"
)

type VenueController struct {
	Logger  *slog.Logger
	Service domain.VenueService
}

func NewVenueController(logger *slog.Logger, svc domain.VenueService) *VenueController {
	return &VenueController{
		Logger:  logger,
		Service: svc,
	}
}

// parseSearchParams reads lat, lng, radius and types (comma separated) from the query string.
func parseSearchParams(r *http.Request) (domain.SearchParams, []string) {
	q := r.URL.Query()
	var errs []string

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		errs = append(errs, "lat must be a number between -90 and 90")
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		errs = append(errs, "lng must be a number between -180 and 180")
	}
	radius := 0
	if s := q.Get("radius"); s != "" {
		radius, err = strconv.Atoi(s)
		if err != nil {
			errs = append(errs, "radius must be an integer number of meters")
		}
	}
	var types []string
	for _, raw := range q["types"] {
		for _, t := range strings.Split(raw, ",") {
			types = append(types, strings.TrimSpace(t))
		}
	}
	return domain.NewSearchParams(domain.LatLng{Lat: lat, Lng: lng}, radius, types), errs
}

// Search godoc
// @Summary Search venues near a point
// @Description Returns places of the given types around lat/lng. Radius is clamped to 1000..50000 meters; types default to bar.
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query int false "Radius in meters"
// @Param types query string false "Comma separated place types, e.g. bar,night_club"
// @Success 200 {object} helpers.APIResponse "data contains the places"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/search [get]
func (c *VenueController) Search(w http.ResponseWriter, r *http.Request) {
	params, errs := parseSearchParams(r)
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	places, err := c.Service.Search(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if places == nil {
		places = []*domain.Place{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, places)
}
