package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nightout/internal/domain"
)

const (
	minUserSearchLen  = 2
	userSearchResults = 5
)

type userService struct {
	userRepo       domain.UserRepository
	prefsRepo      domain.PreferencesRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates a UserService backed by the user and preferences stores.
func NewUserService(userRepo domain.UserRepository, prefsRepo domain.PreferencesRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		prefsRepo:      prefsRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]*domain.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minUserSearchLen {
		return []*domain.UserSummary{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.SearchByEmail(ctx, query, userSearchResults)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []*domain.UserSummary{}
	}
	return users, nil
}

func (s *userService) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.currentPreferences(ctx, userID)
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, update domain.Preferences) (*domain.Preferences, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	update.Normalize()
	prefs, err := s.currentPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs.Merge(update)
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	prefs.UpdatedAt = s.now().UTC()
	if err := s.prefsRepo.Upsert(ctx, userID, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

func (s *userService) currentPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		d := domain.DefaultPreferences()
		return &d, nil
	}
	return nil, fmt.Errorf("get preferences: %w", err)
}
