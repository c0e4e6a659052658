package preference

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used when no database is configured
type MemoryRepository struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]Preferences
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[uuid.UUID]Preferences)}
}

// Get retrieves a copy of the stored preferences
func (r *MemoryRepository) Get(_ context.Context, userID uuid.UUID) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prefs[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return &p, nil
}

// Upsert stores a copy of prefs
func (r *MemoryRepository) Upsert(_ context.Context, prefs *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[prefs.UserID] = *prefs
	return nil
}
