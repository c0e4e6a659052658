package preference

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for preference data access
type Repository interface {
	// Get retrieves a user's preferences, or ErrPreferencesNotFound
	Get(ctx context.Context, userID uuid.UUID) (*Preferences, error)

	// Upsert creates or replaces a user's preferences
	Upsert(ctx context.Context, prefs *Preferences) error
}
