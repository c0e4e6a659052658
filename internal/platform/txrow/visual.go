package txrow

// ColorRole selects the color applied to the amount text
type ColorRole string

const (
	ColorReceived ColorRole = "received"
	ColorSent     ColorRole = "sent"
)

// DetailLayout is the placement rule of the detail text within a row
type DetailLayout string

const (
	// LayoutNormal aligns the detail to the row start
	LayoutNormal DetailLayout = "normal"
	// LayoutProgressOffset places the detail right of the progress bar
	LayoutProgressOffset DetailLayout = "progress-offset"
	// LayoutFailedOffset places the detail right of the failed banner
	LayoutFailedOffset DetailLayout = "failed-offset"
)

// RowState names the single visual state a row is in
type RowState string

const (
	StateFailed  RowState = "failed"
	StatePending RowState = "pending"
	StateSettled RowState = "settled"
)

// Layout offsets in density independent pixels, applied by the UI layer.
const (
	DetailMarginStartDp = 16
	DetailMarginTopDp   = 36
	DetailMaxWidthDp    = 120
)

// RowVisual describes everything a row shows for one bind
type RowVisual struct {
	AmountText       string       `json:"amount_text"`
	AmountColor      ColorRole    `json:"amount_color"`
	DetailText       string       `json:"detail_text"`
	DateText         string       `json:"date_text"`
	ShowDate         bool         `json:"show_date"`
	ShowFailedBanner bool         `json:"show_failed_banner"`
	ShowProgress     bool         `json:"show_progress"`
	ProgressPercent  int          `json:"progress_percent"`
	DetailLayout     DetailLayout `json:"detail_layout"`
	Recyclable       bool         `json:"recyclable"`
}

// State returns the row state implied by the visual
func (v RowVisual) State() RowState {
	switch {
	case v.ShowFailedBanner:
		return StateFailed
	case v.ShowProgress:
		return StatePending
	default:
		return StateSettled
	}
}
