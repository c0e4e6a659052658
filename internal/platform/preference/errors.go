package preference

import "errors"

var (
	// Validation errors
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidFiatCode = errors.New("invalid or unsupported fiat currency code")

	// Repository errors
	ErrPreferencesNotFound = errors.New("preferences not found")
)
