package txlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

// Config holds the adapter's collaborators
type Config struct {
	// UserID is attached to click events
	UserID          uuid.UUID
	Presenter       Presenter
	Preferences     PreferenceSource
	DefaultFiatCode string
	Sink            EventSink
	Recorder        Recorder
	Logger          *logger.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// Adapter exposes a list of wallet transactions to a hosting list:
// item count, row creation, binding and click dispatch.
// It is safe for concurrent use.
type Adapter struct {
	mu    sync.RWMutex
	items []txrow.WalletTransaction

	userID          uuid.UUID
	presenter       Presenter
	prefs           PreferenceSource
	defaultFiatCode string
	sink            EventSink
	recorder        Recorder
	log             *logger.Logger
	now             func() time.Time
}

// NewAdapter creates an adapter with an empty item list
func NewAdapter(cfg Config) *Adapter {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Adapter{
		userID:          cfg.UserID,
		presenter:       cfg.Presenter,
		prefs:           cfg.Preferences,
		defaultFiatCode: strings.ToUpper(cfg.DefaultFiatCode),
		sink:            cfg.Sink,
		recorder:        recorder,
		log:             log.WithField("component", "txlist"),
		now:             now,
	}
}

// SetItems replaces the item list. The slice is copied.
func (a *Adapter) SetItems(items []txrow.WalletTransaction) {
	copied := make([]txrow.WalletTransaction, len(items))
	copy(copied, items)

	a.mu.Lock()
	a.items = copied
	a.mu.Unlock()
}

// Items returns a copy of the item list
func (a *Adapter) Items() []txrow.WalletTransaction {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]txrow.WalletTransaction, len(a.items))
	copy(out, a.items)
	return out
}

// ItemCount returns the number of items in the list
func (a *Adapter) ItemCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// ItemViewType returns the view type for position. All rows share one layout.
func (a *Adapter) ItemViewType(position int) (ViewType, error) {
	if _, err := a.item(position); err != nil {
		return 0, err
	}
	return ViewTypeTransaction, nil
}

// CreateRow creates an unbound row for viewType
func (a *Adapter) CreateRow(viewType ViewType) (*Row, error) {
	if viewType != ViewTypeTransaction {
		return nil, fmt.Errorf("%w: %d", ErrUnknownViewType, viewType)
	}
	return &Row{ViewType: viewType, Position: NoPosition}, nil
}

// Bind fills row with the visual of the item at position, using the
// preferences current at call time.
func (a *Adapter) Bind(ctx context.Context, row *Row, position int) error {
	if row == nil {
		return ErrNilRow
	}
	if row.ViewType != ViewTypeTransaction {
		return fmt.Errorf("%w: %d", ErrUnknownViewType, row.ViewType)
	}

	tx, err := a.item(position)
	if err != nil {
		return err
	}

	preferCrypto, fiatCode := a.preferences(ctx)
	visual := a.presenter.Present(tx, preferCrypto, fiatCode)

	row.Position = position
	row.Hash = tx.Hash
	row.Visual = visual

	a.recorder.RecordRowBound(visual.State())
	return nil
}

// BindRange binds up to limit rows starting at offset. A limit <= 0 binds
// everything from offset to the end. An offset at or past the end yields
// no rows.
func (a *Adapter) BindRange(ctx context.Context, offset, limit int) ([]BoundRow, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidRange, offset)
	}

	items := a.Items()
	if offset >= len(items) {
		return []BoundRow{}, nil
	}

	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}

	// One preference read per batch keeps a range consistent
	preferCrypto, fiatCode := a.preferences(ctx)

	rows := make([]BoundRow, 0, end-offset)
	for i := offset; i < end; i++ {
		visual := a.presenter.Present(items[i], preferCrypto, fiatCode)
		a.recorder.RecordRowBound(visual.State())
		rows = append(rows, newBoundRow(&Row{
			ViewType: ViewTypeTransaction,
			Position: i,
			Visual:   visual,
			Hash:     items[i].Hash,
		}))
	}

	return rows, nil
}

// Click emits an ItemClicked event for the item at position and returns the
// selected transaction.
func (a *Adapter) Click(ctx context.Context, position int) (txrow.WalletTransaction, error) {
	tx, err := a.item(position)
	if err != nil {
		a.recorder.RecordClick(ClickRejected)
		return txrow.WalletTransaction{}, err
	}

	event := ItemClicked{
		ID:          uuid.New(),
		UserID:      a.userID,
		Position:    position,
		Transaction: tx,
		OccurredAt:  a.now().UTC(),
	}

	if a.sink != nil {
		if err := a.sink.Publish(ctx, event); err != nil {
			a.recorder.RecordClick(ClickFailed)
			return txrow.WalletTransaction{}, fmt.Errorf("failed to publish click event: %w", err)
		}
	}

	a.recorder.RecordClick(ClickPublished)
	a.log.WithContext(ctx).Debug("row clicked",
		"event_id", event.ID,
		"position", position,
		"hash", tx.Hash,
	)
	return tx, nil
}

func (a *Adapter) item(position int) (txrow.WalletTransaction, error) {
	if position == NoPosition {
		return txrow.WalletTransaction{}, ErrNoPosition
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if position < 0 || position >= len(a.items) {
		return txrow.WalletTransaction{}, fmt.Errorf("%w: %d (count %d)", ErrPositionOutOfRange, position, len(a.items))
	}
	return a.items[position], nil
}

// preferences never fails: read errors are logged and the defaults used
func (a *Adapter) preferences(ctx context.Context) (bool, string) {
	preferCrypto := false
	fiatCode := a.defaultFiatCode
	if a.prefs == nil {
		return preferCrypto, fiatCode
	}

	crypto, code, err := a.prefs.DisplayPreferences(ctx)
	if err != nil {
		a.recorder.RecordPreferenceFailure()
		a.log.WithContext(ctx).WithError(err).Warn("failed to read display preferences, using defaults")
		return preferCrypto, fiatCode
	}
	if code != "" {
		fiatCode = code
	}

	return crypto, fiatCode
}
