package preference

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/txfeed/internal/platform/currency"
)

// Preferences holds a user's display choices for the transaction feed
type Preferences struct {
	UserID          uuid.UUID `json:"user_id"`
	FiatCode        string    `json:"fiat_code"`
	CryptoPreferred bool      `json:"crypto_preferred"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Normalize upper-cases and trims the fiat code
func (p *Preferences) Normalize() {
	p.FiatCode = strings.ToUpper(strings.TrimSpace(p.FiatCode))
}

// Validate checks the preferences before they are stored
func (p *Preferences) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !currency.IsFiatCode(p.FiatCode) {
		return ErrInvalidFiatCode
	}
	return nil
}
