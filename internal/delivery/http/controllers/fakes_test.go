package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"nightout/internal/delivery/http/helpers"
	"nightout/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeData decodes the envelope and unmarshals its data into dest when dest is non-nil.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

type fakeAuthService struct {
	user      *domain.User
	token     string
	err       error
	lastEmail string
	lastName  string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, _, name string) (*domain.User, error) {
	f.lastEmail, f.lastName = email, name
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeVenueService struct {
	places     []*domain.Place
	err        error
	lastParams domain.SearchParams
	calls      int
}

func (f *fakeVenueService) Search(_ context.Context, params domain.SearchParams) ([]*domain.Place, error) {
	f.calls++
	f.lastParams = params
	return f.places, f.err
}

type fakePlannerService struct {
	view      *domain.PlanView
	err       error
	lastPlan  string
	lastOwner string
	lastVenue domain.Venue
	lastPlace string
	called    string
}

func (f *fakePlannerService) record(name, planID, ownerID string) (*domain.PlanView, error) {
	f.called, f.lastPlan, f.lastOwner = name, planID, ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakePlannerService) CreatePlan(_ context.Context, ownerID string) (*domain.PlanView, error) {
	return f.record("create", "", ownerID)
}

func (f *fakePlannerService) GetPlan(_ context.Context, planID, ownerID string) (*domain.PlanView, error) {
	return f.record("get", planID, ownerID)
}

func (f *fakePlannerService) DeletePlan(_ context.Context, planID, ownerID string) error {
	_, err := f.record("delete", planID, ownerID)
	return err
}

func (f *fakePlannerService) AddVenue(_ context.Context, planID, ownerID string, venue domain.Venue) (*domain.PlanView, error) {
	f.lastVenue = venue
	return f.record("add", planID, ownerID)
}

func (f *fakePlannerService) RemoveVenue(_ context.Context, planID, ownerID, placeID string) (*domain.PlanView, error) {
	f.lastPlace = placeID
	return f.record("remove", planID, ownerID)
}

func (f *fakePlannerService) ClearVenues(_ context.Context, planID, ownerID string) (*domain.PlanView, error) {
	return f.record("clear", planID, ownerID)
}

func (f *fakePlannerService) Optimize(_ context.Context, planID, ownerID string) (*domain.PlanView, error) {
	return f.record("optimize", planID, ownerID)
}

func (f *fakePlannerService) OrderedVenues(_ context.Context, planID, ownerID string) ([]domain.Venue, error) {
	v, err := f.record("ordered", planID, ownerID)
	if err != nil {
		return nil, err
	}
	return v.Venues, nil
}

type fakeEventService struct {
	event        *domain.Event
	events       []*domain.Event
	cancelResult *domain.CancelEventResult
	invitations  []*domain.EventInvitation
	total        int
	err          error

	lastInput  domain.CreateEventInput
	lastHost   string
	lastCode   string
	lastUser   string
	lastSearch string
	lastParams domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(_ context.Context, hostID string, input domain.CreateEventInput) (*domain.Event, error) {
	f.lastHost, f.lastInput = hostID, input
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, _, userID string) (*domain.Event, error) {
	f.lastUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListMyEvents(_ context.Context, hostID string) ([]*domain.Event, error) {
	f.lastHost = hostID
	return f.events, f.err
}

func (f *fakeEventService) CancelEvent(_ context.Context, _, hostID string) (*domain.CancelEventResult, error) {
	f.lastHost = hostID
	if f.err != nil {
		return nil, f.err
	}
	return f.cancelResult, nil
}

func (f *fakeEventService) JoinEvent(_ context.Context, code, _ string) (*domain.Event, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListEventInvitations(_ context.Context, _, hostID, search string, params domain.PaginationParams) ([]*domain.EventInvitation, int, error) {
	f.lastHost, f.lastSearch, f.lastParams = hostID, search, params
	return f.invitations, f.total, f.err
}

type fakeInvitationService struct {
	result     *domain.InviteResult
	err        error
	lastEmails []string
	calls      int
}

func (f *fakeInvitationService) SendInvitations(_ context.Context, _, _ string, emails []string) (*domain.InviteResult, error) {
	f.calls++
	f.lastEmails = emails
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeUserService struct {
	users      []*domain.UserSummary
	prefs      *domain.Preferences
	err        error
	lastQuery  string
	lastUser   string
	lastUpdate domain.Preferences
}

func (f *fakeUserService) SearchUsers(_ context.Context, query string) ([]*domain.UserSummary, error) {
	f.lastQuery = query
	return f.users, f.err
}

func (f *fakeUserService) GetPreferences(_ context.Context, userID string) (*domain.Preferences, error) {
	f.lastUser = userID
	return f.prefs, f.err
}

func (f *fakeUserService) UpdatePreferences(_ context.Context, userID string, update domain.Preferences) (*domain.Preferences, error) {
	f.lastUser, f.lastUpdate = userID, update
	if f.err != nil {
		return nil, f.err
	}
	return f.prefs, nil
}
