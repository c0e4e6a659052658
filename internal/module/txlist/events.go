package txlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

// ErrSinkClosed is returned when publishing to a closed ChannelSink
var ErrSinkClosed = errors.New("event sink closed")

// ItemClicked is emitted when a row is selected
type ItemClicked struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	Position    int                     `json:"position"`
	Transaction txrow.WalletTransaction `json:"transaction"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

// EventSink delivers click events to interested parties
type EventSink interface {
	Publish(ctx context.Context, event ItemClicked) error
}

// SinkFunc adapts a function to EventSink
type SinkFunc func(ctx context.Context, event ItemClicked) error

// Publish calls f
func (f SinkFunc) Publish(ctx context.Context, event ItemClicked) error {
	return f(ctx, event)
}

// ChannelSink dispatches events in-process over a buffered channel
type ChannelSink struct {
	mu     sync.RWMutex
	ch     chan ItemClicked
	closed bool
}

// NewChannelSink creates a sink with the given buffer size
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan ItemClicked, buffer)}
}

// Events returns the channel events are delivered on
func (s *ChannelSink) Events() <-chan ItemClicked {
	return s.ch
}

// Publish blocks until the event is buffered or ctx is done
func (s *ChannelSink) Publish(ctx context.Context, event ItemClicked) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the events channel. Further publishes fail with ErrSinkClosed.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
