package txrow

import "github.com/shopspring/decimal"

// SettledConfirmations is the confirmation depth past which a transaction is
// described in the past tense ("sent to", "received via").
// TODO: finality differs per network; replace with a per-currency threshold once
// the wallet layer exposes one.
const SettledConfirmations = 4

// ProgressPerConfirmation is the progress gained per observed confirmation.
const ProgressPerConfirmation = 20

// ProgressFull marks a pending transaction whose progress indicator is complete.
const ProgressFull = 100

// WalletTransaction is a wallet transaction as resolved by the wallet layer.
// It is never mutated while rows are being bound.
type WalletTransaction struct {
	Hash          string              `json:"hash,omitempty"`
	CurrencyCode  string              `json:"currency_code"`
	Amount        decimal.Decimal     `json:"amount"`
	AmountInFiat  decimal.NullDecimal `json:"amount_in_fiat"`
	Fee           decimal.Decimal     `json:"fee"`
	FeeForToken   string              `json:"fee_for_token,omitempty"`
	IsFeeForToken bool                `json:"is_fee_for_token"`
	Received      bool                `json:"received"`
	Valid         bool                `json:"valid"`
	Errored       bool                `json:"errored"`
	Pending       bool                `json:"pending"`
	Confirmations int                 `json:"confirmations"`
	Memo          string              `json:"memo,omitempty"`
	ToAddress     string              `json:"to_address,omitempty"`
	FromAddress   string              `json:"from_address,omitempty"`
	TimeStamp     int64               `json:"timestamp"` // seconds since epoch, 0 means now
}

// IsFailed reports whether the transaction should be rendered as failed.
func (t WalletTransaction) IsFailed() bool {
	return !t.Valid || t.Errored
}

// IsSettled reports whether the confirmation depth is past the settlement threshold.
// Negative confirmation counts are malformed and treated as settled.
func (t WalletTransaction) IsSettled() bool {
	return t.Confirmations < 0 || t.Confirmations > SettledConfirmations
}

// Progress returns the confirmation progress in percent, clamped to [0, 100].
func (t WalletTransaction) Progress() int {
	if t.Confirmations < 0 {
		return ProgressFull
	}
	if t.Confirmations >= ProgressFull/ProgressPerConfirmation {
		return ProgressFull
	}
	return t.Confirmations * ProgressPerConfirmation
}

// CryptoMagnitude returns the unsigned crypto value shown for the row.
// Fee-for-token transactions show the fee paid rather than the nominal amount.
func (t WalletTransaction) CryptoMagnitude() decimal.Decimal {
	if t.IsFeeForToken {
		return t.Fee
	}
	return t.Amount.Abs()
}
