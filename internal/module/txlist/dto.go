package txlist

import (
	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

// ViewType identifies a row layout. The feed has a single one.
type ViewType int

const (
	// ViewTypeTransaction is the only row layout of the feed
	ViewTypeTransaction ViewType = 0

	// NoPosition marks a row that is not attached to any item
	NoPosition = -1
)

// Row is a reusable row holder created by CreateRow and filled by Bind
type Row struct {
	ViewType ViewType
	Position int
	Visual   txrow.RowVisual
	Hash     string
}

// BoundRow is a bound row as returned by BindRange
type BoundRow struct {
	Position int             `json:"position"`
	Hash     string          `json:"hash,omitempty"`
	State    txrow.RowState  `json:"state"`
	Visual   txrow.RowVisual `json:"visual"`
}

func newBoundRow(row *Row) BoundRow {
	return BoundRow{
		Position: row.Position,
		Hash:     row.Hash,
		State:    row.Visual.State(),
		Visual:   row.Visual,
	}
}
