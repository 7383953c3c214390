package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nightout/internal/delivery/http/middleware"
	"nightout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inviteRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/invitations", bytes.NewBufferString(body))
	req.SetPathValue("eventID", "ev-1")
	return req.WithContext(middleware.SetUserID(req.Context(), "host-1"))
}

func TestInvitationController_SendInvitations(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *domain.InviteResult
		fakeErr    error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name: "all sent",
			body: `{"emails":["a@x.com","b@x.com"]}`,
			result: &domain.InviteResult{
				Outcome: domain.InviteOutcomeSent, Sent: []string{"a@x.com", "b@x.com"},
				Failed: []string{}, DuplicatesInRequest: []string{}, AlreadyInvited: []string{},
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name: "partial delivery",
			body: `{"emails":["a@x.com","b@x.com","c@x.com"]}`,
			result: &domain.InviteResult{
				Outcome: domain.InviteOutcomePartial, Sent: []string{"a@x.com", "c@x.com"},
				Failed: []string{"b@x.com"}, DuplicatesInRequest: []string{}, AlreadyInvited: []string{},
			},
			wantStatus: http.StatusMultiStatus,
			wantCalls:  1,
		},
		{
			name: "accepted with skips",
			body: `{"emails":["a@x.com","A@x.com"]}`,
			result: &domain.InviteResult{
				Outcome: domain.InviteOutcomeSkipped, Sent: []string{},
				Failed: []string{}, DuplicatesInRequest: []string{"A@x.com"}, AlreadyInvited: []string{"a@x.com"},
			},
			wantStatus: http.StatusMultiStatus,
			wantCalls:  1,
		},
		{
			name:       "nothing usable",
			body:       `{"emails":["  ",""]}`,
			fakeErr:    domain.ErrNoValidEmails,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
			wantCalls:  1,
		},
		{
			name:       "malformed address",
			body:       `{"emails":["not-an-email"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "event full",
			body:       `{"emails":["a@x.com"]}`,
			fakeErr:    domain.ErrEventFull,
			wantStatus: http.StatusBadRequest,
			wantCode:   "event_full",
			wantCalls:  1,
		},
		{
			name:       "link expired",
			body:       `{"emails":["a@x.com"]}`,
			fakeErr:    domain.ErrInviteExpired,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invite_expired",
			wantCalls:  1,
		},
		{
			name:       "not the host",
			body:       `{"emails":["a@x.com"]}`,
			fakeErr:    domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
			wantCalls:  1,
		},
		{
			name:       "store failure",
			body:       `{"emails":["a@x.com"]}`,
			fakeErr:    errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInvitationService{result: tt.result, err: tt.fakeErr}
			ctrl := NewInvitationController(testLogger, fake, &fakeEventService{})
			rr := httptest.NewRecorder()

			ctrl.SendInvitations(rr, inviteRequest(tt.body))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, fake.calls)
			var got domain.InviteResult
			envelope := decodeData(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, *tt.result, got)
		})
	}
}

func TestInvitationController_SendInvitationsTooMany(t *testing.T) {
	emails := make([]string, maxInvitesPerRequest+1)
	for i := range emails {
		emails[i] = `"guest@x.com"`
	}
	fake := &fakeInvitationService{}
	ctrl := NewInvitationController(testLogger, fake, &fakeEventService{})
	rr := httptest.NewRecorder()

	ctrl.SendInvitations(rr, inviteRequest(`{"emails":[`+strings.Join(emails, ",")+`]}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, fake.calls)
}

func TestInvitationController_ListInvitations(t *testing.T) {
	sent := time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	events := &fakeEventService{
		invitations: []*domain.EventInvitation{
			{ID: "inv-1", EventID: "ev-1", Email: "anna@x.com", Status: domain.InvitationPending, SentAt: sent},
		},
		total: 21,
	}
	ctrl := NewInvitationController(testLogger, &fakeInvitationService{}, events)
	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/invitations?search=%20ann%20&page=2&page_size=10", nil)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "host-1"))
	rr := httptest.NewRecorder()

	ctrl.ListInvitations(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got ListInvitationsResponse
	decodeData(t, rr, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "anna@x.com", got.Items[0].Email)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.Equal(t, 21, got.Pagination.Total)
	assert.Equal(t, "ann", events.lastSearch)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 10}, events.lastParams)
	assert.Equal(t, "host-1", events.lastHost)
}

func TestInvitationController_ListInvitationsBadPage(t *testing.T) {
	events := &fakeEventService{}
	ctrl := NewInvitationController(testLogger, &fakeInvitationService{}, events)
	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/invitations?page=two", nil)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "host-1"))
	rr := httptest.NewRecorder()

	ctrl.ListInvitations(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, events.lastHost, "service not called")
}

func TestInvitationController_ListInvitationsForbidden(t *testing.T) {
	ctrl := NewInvitationController(testLogger, &fakeInvitationService{}, &fakeEventService{err: domain.ErrForbidden})
	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/invitations", nil)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "someone-else"))
	rr := httptest.NewRecorder()

	ctrl.ListInvitations(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
