package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"nightout/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Event
	nextID  int
	err     error // if set, Create returns this error
	calls   int
	invites *fakeInvitationRepo // AcceptJoin writes here; createErr aborts the join
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if e, ok := f.byID[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByInviteCode(ctx context.Context, code string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, e := range f.byID {
		if e.InviteCode == code {
			c := *e
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []*domain.Event
	for _, e := range f.byID {
		if e.HostID == hostID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) AcceptJoin(ctx context.Context, eventID, email string, joinedAt time.Time) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	existing := f.invites.find(eventID, email)
	if existing != nil && existing.Status == domain.InvitationAccepted {
		return nil, domain.ErrAlreadyJoined
	}
	if e.IsFull() {
		return nil, domain.ErrEventFull
	}
	if f.invites.createErr != nil {
		return nil, f.invites.createErr
	}
	if existing != nil {
		existing.Status = domain.InvitationAccepted
	} else {
		f.invites.invites = append(f.invites.invites, &domain.EventInvitation{
			ID:      fmt.Sprintf("inv-%d", len(f.invites.invites)+1),
			EventID: eventID,
			Email:   email,
			Status:  domain.InvitationAccepted,
			SentAt:  joinedAt,
		})
	}
	e.CurrentParticipants++
	c := *e
	return &c, nil
}

// fakeInvitationRepo is an in-memory EventInvitationRepository that counts calls.
type fakeInvitationRepo struct {
	invites   []*domain.EventInvitation
	calls     int
	listErr   error
	createErr error
}

func (f *fakeInvitationRepo) seed(eventID string, emails ...string) {
	for _, e := range emails {
		f.invites = append(f.invites, &domain.EventInvitation{
			ID:      fmt.Sprintf("inv-%d", len(f.invites)+1),
			EventID: eventID,
			Email:   e,
			Status:  domain.InvitationPending,
		})
	}
}

func (f *fakeInvitationRepo) forEvent(eventID string) []*domain.EventInvitation {
	var out []*domain.EventInvitation
	for _, inv := range f.invites {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return out
}

func (f *fakeInvitationRepo) CreateBatch(ctx context.Context, eventID string, emails []string, sentAt time.Time) error {
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, e := range emails {
		f.invites = append(f.invites, &domain.EventInvitation{
			ID:      fmt.Sprintf("inv-%d", len(f.invites)+1),
			EventID: eventID,
			Email:   e,
			Status:  domain.InvitationPending,
			SentAt:  sentAt,
		})
	}
	return nil
}

func (f *fakeInvitationRepo) ListEmailsByEventID(ctx context.Context, eventID string) ([]string, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for _, inv := range f.forEvent(eventID) {
		out = append(out, inv.Email)
	}
	return out, nil
}

func (f *fakeInvitationRepo) find(eventID, email string) *domain.EventInvitation {
	for _, inv := range f.forEvent(eventID) {
		if strings.EqualFold(inv.Email, email) {
			return inv
		}
	}
	return nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.EventInvitation, int, error) {
	f.calls++
	var matched []*domain.EventInvitation
	for _, inv := range f.forEvent(eventID) {
		if search == "" || strings.Contains(strings.ToLower(inv.Email), strings.ToLower(search)) {
			matched = append(matched, inv)
		}
	}
	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeInvitationRepo) DeleteByEventID(ctx context.Context, eventID string) error {
	f.calls++
	kept := f.invites[:0]
	for _, inv := range f.invites {
		if inv.EventID != eventID {
			kept = append(kept, inv)
		}
	}
	f.invites = kept
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID       map[string]*domain.User
	createErr  error
	searchErr  error
	lastSearch string
	lastLimit  int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) SearchByEmail(ctx context.Context, query string, limit int) ([]*domain.UserSummary, error) {
	f.lastSearch, f.lastLimit = query, limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []*domain.UserSummary
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.Email), strings.ToLower(query)) {
			out = append(out, &domain.UserSummary{ID: u.ID, Email: u.Email, Name: u.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakePreferencesRepo keeps one preferences value per user.
type fakePreferencesRepo struct {
	byUser    map[string]domain.Preferences
	getErr    error
	upsertErr error
	upserts   int
}

func (f *fakePreferencesRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakePreferencesRepo) Upsert(ctx context.Context, userID string, p *domain.Preferences) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.byUser == nil {
		f.byUser = make(map[string]domain.Preferences)
	}
	f.byUser[userID] = *p
	return nil
}

// fakeEmailService records every send; addresses listed in failFor return an error.
type fakeEmailService struct {
	mu            sync.Mutex
	failFor       map[string]bool
	invitations   []domain.EventInvitationEmailData
	cancellations []domain.EventCancellationEmailData
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, *data)
	if f.failFor[data.Email] {
		return fmt.Errorf("smtp: mailbox unavailable")
	}
	return nil
}

func (f *fakeEmailService) SendEventCancellation(ctx context.Context, data *domain.EventCancellationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancellations = append(f.cancellations, *data)
	if f.failFor[data.Email] {
		return fmt.Errorf("smtp: mailbox unavailable")
	}
	return nil
}

// fakePlanStore is an in-memory PlanStore that stores copies.
type fakePlanStore struct {
	mu    sync.Mutex
	plans map[string]domain.Plan
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: make(map[string]domain.Plan)}
}

func (f *fakePlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Venues = append([]domain.Venue(nil), p.Venues...)
	p.Order = append([]string(nil), p.Order...)
	return &p, nil
}

func (f *fakePlanStore) Put(ctx context.Context, plan *domain.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *plan
	p.Venues = append([]domain.Venue(nil), plan.Venues...)
	p.Order = append([]string(nil), plan.Order...)
	f.plans[p.ID] = p
	return nil
}

func (f *fakePlanStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

// fakeOptimizer returns a fixed order. hook, when set, runs before returning.
type fakeOptimizer struct {
	order []int
	err   error
	calls int
	hook  func()
}

func (f *fakeOptimizer) Optimize(ctx context.Context, origin, destination domain.LatLng, waypoints []domain.LatLng) ([]int, error) {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}
