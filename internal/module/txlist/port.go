package txlist

import (
	"context"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

// Presenter computes a row visual from a transaction and the current display preferences
type Presenter interface {
	Present(tx txrow.WalletTransaction, preferCrypto bool, fiatCode string) txrow.RowVisual
}

// PreferenceSource is read once per bind so preference changes show up
// on the next bind without invalidation.
type PreferenceSource interface {
	DisplayPreferences(ctx context.Context) (preferCrypto bool, fiatCode string, err error)
}

// Recorder receives adapter metrics
type Recorder interface {
	RecordRowBound(state txrow.RowState)
	RecordClick(status string)
	RecordPreferenceFailure()
}

// Click statuses passed to Recorder.RecordClick
const (
	ClickPublished = "published"
	ClickRejected  = "rejected"
	ClickFailed    = "failed"
)

type nopRecorder struct{}

func (nopRecorder) RecordRowBound(txrow.RowState) {}
func (nopRecorder) RecordClick(string)            {}
func (nopRecorder) RecordPreferenceFailure()      {}
