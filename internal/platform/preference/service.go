package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service provides business logic for preference operations
type Service struct {
	repo            Repository
	defaultFiatCode string
	now             func() time.Time
}

// NewService creates a new preference service. defaultFiatCode is returned
// for users who have not stored preferences.
func NewService(repo Repository, defaultFiatCode string) *Service {
	return &Service{
		repo:            repo,
		defaultFiatCode: strings.ToUpper(defaultFiatCode),
		now:             time.Now,
	}
}

// Defaults returns the preferences of a user who never set any
func (s *Service) Defaults(userID uuid.UUID) *Preferences {
	return &Preferences{
		UserID:          userID,
		FiatCode:        s.defaultFiatCode,
		CryptoPreferred: false,
	}
}

// Get returns the user's stored preferences or the defaults
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	prefs, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return s.Defaults(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return prefs, nil
}

// Update validates and stores the user's preferences
func (s *Service) Update(ctx context.Context, prefs *Preferences) (*Preferences, error) {
	prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	prefs.UpdatedAt = s.now().UTC()

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return prefs, nil
}

// Reader returns a view of one user's preferences that reads through
// the service on every call
func (s *Service) Reader(userID uuid.UUID) *Reader {
	return &Reader{service: s, userID: userID}
}

// Reader exposes a single user's preferences to the list adapter
type Reader struct {
	service *Service
	userID  uuid.UUID
}

// DisplayPreferences returns both display settings from a single read
func (r *Reader) DisplayPreferences(ctx context.Context) (bool, string, error) {
	prefs, err := r.service.Get(ctx, r.userID)
	if err != nil {
		return false, "", err
	}
	return prefs.CryptoPreferred, prefs.FiatCode, nil
}

// PreferredFiatCode returns the user's fiat currency code
func (r *Reader) PreferredFiatCode(ctx context.Context) (string, error) {
	prefs, err := r.service.Get(ctx, r.userID)
	if err != nil {
		return "", err
	}
	return prefs.FiatCode, nil
}

// IsCryptoPreferred reports whether amounts should be shown in crypto
func (r *Reader) IsCryptoPreferred(ctx context.Context) (bool, error) {
	prefs, err := r.service.Get(ctx, r.userID)
	if err != nil {
		return false, err
	}
	return prefs.CryptoPreferred, nil
}
