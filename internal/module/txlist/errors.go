package txlist

import "errors"

var (
	ErrUnknownViewType    = errors.New("unknown row view type")
	ErrNoPosition         = errors.New("row has no adapter position")
	ErrPositionOutOfRange = errors.New("row position out of range")
	ErrNilRow             = errors.New("row is nil")
	ErrInvalidRange       = errors.New("invalid row range")
)
