package txrow

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MissingAmountText is shown when the amount needed for the current display
// currency is not available (e.g. no fiat conversion yet).
const MissingAmountText = "--"

// Deps holds the collaborators used by the presenter
type Deps struct {
	Currency  CurrencyFormatter
	Addresses AddressDecorator
	Dates     DateFormatter
	Templates Templates
	// Now defaults to time.Now
	Now func() time.Time
}

// Presenter computes the visual state of a transaction row.
// It holds no per-row state and is safe for concurrent use if its collaborators are.
type Presenter struct {
	currency  CurrencyFormatter
	addresses AddressDecorator
	dates     DateFormatter
	templates Templates
	now       func() time.Time
}

// NewPresenter creates a new presenter
func NewPresenter(deps Deps) *Presenter {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Presenter{
		currency:  deps.Currency,
		addresses: deps.Addresses,
		dates:     deps.Dates,
		templates: deps.Templates,
		now:       now,
	}
}

// Present returns the row visual for tx. preferCrypto and fiatCode are the
// display preferences current at bind time.
func (p *Presenter) Present(tx WalletTransaction, preferCrypto bool, fiatCode string) RowVisual {
	v := RowVisual{
		AmountColor:  ColorSent,
		DetailLayout: LayoutNormal,
		ShowDate:     true,
	}
	if tx.Received {
		v.AmountColor = ColorReceived
	}

	v.AmountText = p.amountText(tx, preferCrypto, fiatCode)
	v.DateText = p.dates.ShortDate(p.displayMillis(tx.TimeStamp))

	if tx.IsFailed() {
		v.ShowFailedBanner = true
		v.ShowDate = false
		v.DetailLayout = LayoutFailedOffset
		if !tx.Received {
			v.DetailText = p.templates.Format(TemplateSendingTo, p.decorate(tx, tx.ToAddress))
		} else {
			v.DetailText = p.detailText(tx)
		}
		return v
	}

	if tx.Pending {
		v.ProgressPercent = tx.Progress()
		if v.ProgressPercent < ProgressFull {
			v.ShowProgress = true
			v.ShowDate = false
			v.DetailLayout = LayoutProgressOffset
		} else {
			v.Recyclable = true
		}
	}

	v.DetailText = p.detailText(tx)
	if tx.IsFeeForToken {
		v.DetailText = p.templates.Format(TemplateTokenTransfer, tx.FeeForToken)
	}

	return v
}

func (p *Presenter) amountText(tx WalletTransaction, preferCrypto bool, fiatCode string) string {
	// TODO: a token fee with fiat preferred still shows amountInFiat; it needs the fee converted to fiat.
	if preferCrypto {
		return p.currency.FormatCrypto(tx.CurrencyCode, signed(tx.CryptoMagnitude(), tx.Received))
	}

	if !tx.AmountInFiat.Valid || fiatCode == "" {
		return MissingAmountText
	}
	return p.currency.FormatFiat(fiatCode, signed(tx.AmountInFiat.Decimal, tx.Received))
}

// detailText picks the memo or the direction/depth template
func (p *Presenter) detailText(tx WalletTransaction) string {
	if tx.Memo != "" {
		return tx.Memo
	}

	settled := tx.IsSettled()
	switch {
	case !tx.Received && settled:
		return p.templates.Format(TemplateSentTo, p.decorate(tx, tx.ToAddress))
	case !tx.Received:
		return p.templates.Format(TemplateSendingTo, p.decorate(tx, tx.ToAddress))
	case settled:
		return p.templates.Format(TemplateReceivedVia, p.decorate(tx, tx.FromAddress))
	default:
		return p.templates.Format(TemplateReceivingVia, p.decorate(tx, tx.FromAddress))
	}
}

func (p *Presenter) decorate(tx WalletTransaction, address string) string {
	if address == "" {
		return ""
	}
	return p.addresses.Decorate(tx.CurrencyCode, address)
}

// maxTimeStamp is the largest epoch-seconds value whose millis fit in int64.
const maxTimeStamp = math.MaxInt64 / int64(time.Second/time.Millisecond)

// displayMillis maps the transaction timestamp to epoch millis; 0 means
// the transaction has no block time yet, and malformed values (negative
// or too large to convert) are shown the same way.
func (p *Presenter) displayMillis(timeStamp int64) int64 {
	if timeStamp <= 0 || timeStamp > maxTimeStamp {
		return p.now().UnixMilli()
	}
	return timeStamp * int64(time.Second/time.Millisecond)
}

// signed applies the display sign: outgoing amounts are shown negative
func signed(amount decimal.Decimal, received bool) decimal.Decimal {
	if received {
		return amount
	}
	return amount.Neg()
}
