package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"nightout/internal/delivery/http/helpers"
	"nightout/internal/delivery/http/middleware"
	"nightout/internal/domain"
)

// maxInvitesPerRequest bounds one batch; larger lists should be split by the client.
const maxInvitesPerRequest = 200

// SendInvitationsRequest is the request body for POST /events/{eventID}/invitations.
type SendInvitationsRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements Validator. Blank entries are left to the service, which drops them and
// rejects a batch with nothing left.
func (s SendInvitationsRequest) Validate() []string {
	var errs []string
	if len(s.Emails) > maxInvitesPerRequest {
		errs = append(errs, "at most 200 emails per request")
	}
	for _, e := range s.Emails {
		e = strings.TrimSpace(e)
		if e != "" && !emailRegexp.MatchString(strings.ToLower(e)) {
			errs = append(errs, "invalid email: "+e)
		}
	}
	return errs
}

// ListInvitationsResponse is the data payload for GET /events/{eventID}/invitations.
type ListInvitationsResponse struct {
	Items      []*domain.EventInvitation `json:"items"`
	Pagination helpers.PaginationMeta    `json:"pagination"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
	Events  domain.EventService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService, events domain.EventService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
		Events:  events,
	}
}

// SendInvitations godoc
// @Summary Invite people to an event by email
// @Description Deduplicates the batch case-insensitively, skips addresses already invited, records and emails the rest. 200 when everything was sent; 207 when something failed or was skipped.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SendInvitationsRequest true "Emails"
// @Success 200 {object} helpers.APIResponse "data contains the invite report (outcome sent)"
// @Success 207 {object} helpers.APIResponse "data contains the invite report (outcome partial or skipped)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, event_full or invite_expired"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) SendInvitations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SendInvitationsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SendInvitations(r.Context(), eventID, userID, req.Emails)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if result.Outcome != domain.InviteOutcomeSent {
		status = http.StatusMultiStatus
	}
	helpers.WriteJSONSuccess(w, status, result)
}

// ListInvitations godoc
// @Summary List an event's invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param search query string false "Case-insensitive email substring"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	items, total, err := c.Events.ListEventInvitations(r.Context(), eventID, userID, search, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.EventInvitation{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
