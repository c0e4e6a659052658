package txlist

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an unused adapter is kept
const DefaultIdleTimeout = 30 * time.Minute

// Factory builds the adapter for a user
type Factory func(userID uuid.UUID) *Adapter

type registryEntry struct {
	adapter  *Adapter
	lastSeen time.Time
}

// Registry manages one adapter per user, created on first use.
// Adapters unused for longer than the idle timeout are dropped by Cleanup.
type Registry struct {
	factory  Factory
	adapters map[uuid.UUID]*registryEntry
	idle     time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithIdleTimeout sets how long an unused adapter survives. d <= 0 keeps the default.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a new adapter registry
func NewRegistry(factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{
		factory:  factory,
		adapters: make(map[uuid.UUID]*registryEntry),
		idle:     DefaultIdleTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the user's adapter, creating it if needed
func (r *Registry) Get(userID uuid.UUID) *Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.adapters[userID]; ok {
		e.lastSeen = r.now()
		return e.adapter
	}
	e := &registryEntry{adapter: r.factory(userID), lastSeen: r.now()}
	r.adapters[userID] = e
	return e.adapter
}

// Remove drops the user's adapter
func (r *Registry) Remove(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.adapters, userID)
}

// Len returns the number of live adapters
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.adapters)
}

// Cleanup drops adapters idle for longer than the idle timeout and
// returns how many were dropped
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	evicted := 0
	for userID, e := range r.adapters {
		if e.lastSeen.Before(cutoff) {
			delete(r.adapters, userID)
			evicted++
		}
	}
	return evicted
}

// Run calls Cleanup every interval until stop is closed
func (r *Registry) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Cleanup()
		case <-stop:
			return
		}
	}
}
