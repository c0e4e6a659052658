package txrow

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCurrency struct{}

func (fakeCurrency) FormatCrypto(code string, amount decimal.Decimal) string {
	return amount.String() + " " + code
}

func (fakeCurrency) FormatFiat(code string, amount decimal.Decimal) string {
	return code + " " + amount.StringFixed(2)
}

type fakeAddresses struct{}

func (fakeAddresses) Decorate(currencyCode, address string) string {
	return "<" + address + ">"
}

type fakeDates struct{}

func (fakeDates) ShortDate(epochMillis int64) string {
	return fmt.Sprintf("ms:%d", epochMillis)
}

type fakeTemplates struct{}

var fakeTemplateText = map[TemplateKey]string{
	TemplateSentTo:        "sent to %s",
	TemplateSendingTo:     "sending to %s",
	TemplateReceivedVia:   "received via %s",
	TemplateReceivingVia:  "receiving via %s",
	TemplateTokenTransfer: "token transfer: %s",
}

func (fakeTemplates) Format(key TemplateKey, arg string) string {
	return fmt.Sprintf(fakeTemplateText[key], arg)
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestPresenter() *Presenter {
	return NewPresenter(Deps{
		Currency:  fakeCurrency{},
		Addresses: fakeAddresses{},
		Dates:     fakeDates{},
		Templates: fakeTemplates{},
		Now:       func() time.Time { return fixedNow },
	})
}

func baseTx() WalletTransaction {
	return WalletTransaction{
		CurrencyCode:  "BTC",
		Amount:        decimal.RequireFromString("0.5"),
		AmountInFiat:  decimal.NewNullDecimal(decimal.RequireFromString("25000")),
		Valid:         true,
		Received:      true,
		Confirmations: 6,
		ToAddress:     "to-addr",
		FromAddress:   "from-addr",
		TimeStamp:     1700000000,
	}
}

func TestPresent_ReceivedColorRole(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	assert.Equal(t, ColorReceived, p.Present(tx, true, "USD").AmountColor)

	tx.Received = false
	assert.Equal(t, ColorSent, p.Present(tx, true, "USD").AmountColor)
}

func TestPresent_FailedAlwaysShowsBanner(t *testing.T) {
	p := newTestPresenter()

	cases := []struct {
		name          string
		valid         bool
		errored       bool
		pending       bool
		confirmations int
	}{
		{"invalid", false, false, false, 6},
		{"errored", true, true, false, 6},
		{"invalid_and_pending", false, false, true, 1},
		{"errored_and_pending_full", true, true, true, 9},
		{"errored_no_confirmations", true, true, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := baseTx()
			tx.Valid = tc.valid
			tx.Errored = tc.errored
			tx.Pending = tc.pending
			tx.Confirmations = tc.confirmations

			v := p.Present(tx, true, "USD")
			assert.True(t, v.ShowFailedBanner)
			assert.False(t, v.ShowProgress, "failure suppresses progress")
			assert.False(t, v.ShowDate)
			assert.False(t, v.Recyclable)
			assert.Equal(t, LayoutFailedOffset, v.DetailLayout)
			assert.Equal(t, StateFailed, v.State())
		})
	}
}

func TestPresent_FailedOutboundShowsSendingTo(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Valid = false
	tx.Received = false
	tx.Memo = "rent"

	v := p.Present(tx, true, "USD")
	assert.True(t, v.ShowFailedBanner)
	assert.Equal(t, "sending to <to-addr>", v.DetailText)
	assert.False(t, v.ShowDate)
}

func TestPresent_FailedInboundKeepsDetail(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Errored = true
	tx.Confirmations = 0

	v := p.Present(tx, true, "USD")
	assert.Equal(t, "receiving via <from-addr>", v.DetailText)

	tx.Memo = "refund"
	v = p.Present(tx, true, "USD")
	assert.Equal(t, "refund", v.DetailText)
}

func TestPresent_PendingProgress(t *testing.T) {
	p := newTestPresenter()

	for confirmations := 0; confirmations <= 7; confirmations++ {
		t.Run(fmt.Sprintf("confirmations_%d", confirmations), func(t *testing.T) {
			tx := baseTx()
			tx.Pending = true
			tx.Confirmations = confirmations

			v := p.Present(tx, true, "USD")
			expected := confirmations * 20
			if expected > 100 {
				expected = 100
			}
			assert.Equal(t, expected, v.ProgressPercent)
			assert.Equal(t, expected < 100, v.ShowProgress)
			assert.Equal(t, expected >= 100, v.ShowDate)
			assert.Equal(t, expected >= 100, v.Recyclable)
			if expected < 100 {
				assert.Equal(t, LayoutProgressOffset, v.DetailLayout)
				assert.Equal(t, StatePending, v.State())
			} else {
				assert.Equal(t, LayoutNormal, v.DetailLayout)
				assert.Equal(t, StateSettled, v.State())
			}
		})
	}
}

func TestPresent_PendingReceivedScenario(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Valid = true
	tx.Errored = false
	tx.Pending = true
	tx.Confirmations = 2
	tx.Received = true
	tx.IsFeeForToken = false

	v := p.Present(tx, true, "USD")
	assert.True(t, v.ShowProgress)
	assert.Equal(t, 40, v.ProgressPercent)
	assert.False(t, v.ShowDate)
	assert.False(t, v.ShowFailedBanner)
	assert.Equal(t, "receiving via <from-addr>", v.DetailText)
}

func TestPresent_SettledSentScenario(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Confirmations = 5
	tx.Received = false
	tx.Memo = ""

	v := p.Present(tx, true, "USD")
	assert.Equal(t, "sent to <to-addr>", v.DetailText)
	assert.True(t, v.ShowDate)
	assert.Equal(t, LayoutNormal, v.DetailLayout)
	assert.False(t, v.Recyclable, "only completed pending rows become recyclable")
}

func TestPresent_InvalidOutboundScenario(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Valid = false
	tx.Received = false

	v := p.Present(tx, true, "USD")
	assert.True(t, v.ShowFailedBanner)
	assert.Equal(t, "sending to <to-addr>", v.DetailText)
	assert.False(t, v.ShowDate)
}

func TestPresent_DetailTemplates(t *testing.T) {
	p := newTestPresenter()

	cases := []struct {
		received      bool
		confirmations int
		expected      string
	}{
		{false, 5, "sent to <to-addr>"},
		{false, 4, "sending to <to-addr>"},
		{true, 5, "received via <from-addr>"},
		{true, 4, "receiving via <from-addr>"},
		{true, 0, "receiving via <from-addr>"},
		{false, -3, "sent to <to-addr>"},
	}

	for _, tc := range cases {
		tx := baseTx()
		tx.Received = tc.received
		tx.Confirmations = tc.confirmations
		assert.Equal(t, tc.expected, p.Present(tx, true, "USD").DetailText)
	}
}

func TestPresent_MemoWinsOverTemplates(t *testing.T) {
	p := newTestPresenter()

	for _, confirmations := range []int{0, 3, 5, 12} {
		for _, received := range []bool{true, false} {
			tx := baseTx()
			tx.Memo = "coffee with Sam"
			tx.Received = received
			tx.Confirmations = confirmations
			assert.Equal(t, "coffee with Sam", p.Present(tx, true, "USD").DetailText)
		}
	}
}

func TestPresent_TokenFee(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.CurrencyCode = "ETH"
	tx.Received = false
	tx.Amount = decimal.RequireFromString("-3")
	tx.Fee = decimal.RequireFromString("0.0021")
	tx.IsFeeForToken = true
	tx.FeeForToken = "12 BRD"
	tx.Memo = "should be replaced"

	v := p.Present(tx, true, "USD")
	assert.Equal(t, "-0.0021 ETH", v.AmountText)
	assert.Equal(t, "token transfer: 12 BRD", v.DetailText)

	tx.Pending = true
	tx.Confirmations = 1
	v = p.Present(tx, true, "USD")
	assert.Equal(t, "token transfer: 12 BRD", v.DetailText)
	assert.True(t, v.ShowProgress)
}

func TestPresent_TokenFeeDoesNotOverrideFailure(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Received = false
	tx.Errored = true
	tx.IsFeeForToken = true
	tx.FeeForToken = "12 BRD"

	v := p.Present(tx, true, "USD")
	assert.True(t, v.ShowFailedBanner)
	assert.Equal(t, "sending to <to-addr>", v.DetailText)
}

func TestPresent_AmountNegation(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Amount = decimal.RequireFromString("-1.25")
	tx.AmountInFiat = decimal.NewNullDecimal(decimal.RequireFromString("99.5"))

	tx.Received = true
	assert.Equal(t, "1.25 BTC", p.Present(tx, true, "USD").AmountText)
	assert.Equal(t, "EUR 99.50", p.Present(tx, false, "EUR").AmountText)

	tx.Received = false
	assert.Equal(t, "-1.25 BTC", p.Present(tx, true, "USD").AmountText)
	assert.Equal(t, "EUR -99.50", p.Present(tx, false, "EUR").AmountText)
}

func TestPresent_MissingFiatAmount(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.AmountInFiat = decimal.NullDecimal{}

	v := p.Present(tx, false, "USD")
	assert.Equal(t, MissingAmountText, v.AmountText)

	tx.AmountInFiat = decimal.NewNullDecimal(decimal.RequireFromString("10"))
	v = p.Present(tx, false, "")
	assert.Equal(t, MissingAmountText, v.AmountText)
}

func TestPresent_DateTimestamp(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.TimeStamp = 1700000000
	assert.Equal(t, "ms:1700000000000", p.Present(tx, true, "USD").DateText)

	tx.TimeStamp = 0
	assert.Equal(t, fmt.Sprintf("ms:%d", fixedNow.UnixMilli()), p.Present(tx, true, "USD").DateText)

	tx.TimeStamp = -5
	assert.Equal(t, fmt.Sprintf("ms:%d", fixedNow.UnixMilli()), p.Present(tx, true, "USD").DateText)
}

func TestPresent_DateTimestampOutOfRange(t *testing.T) {
	p := newTestPresenter()
	now := fmt.Sprintf("ms:%d", fixedNow.UnixMilli())

	tx := baseTx()
	tx.TimeStamp = math.MaxInt64
	assert.Equal(t, now, p.Present(tx, true, "USD").DateText)

	tx.TimeStamp = maxTimeStamp + 1
	assert.Equal(t, now, p.Present(tx, true, "USD").DateText)

	tx.TimeStamp = maxTimeStamp
	assert.Equal(t, fmt.Sprintf("ms:%d", maxTimeStamp*1000), p.Present(tx, true, "USD").DateText)
}

func TestPresent_EmptyAddressesDegrade(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Received = false
	tx.ToAddress = ""

	v := p.Present(tx, true, "USD")
	assert.Equal(t, "sent to ", v.DetailText)
}

func TestPresent_ExactlyOneStateActive(t *testing.T) {
	p := newTestPresenter()

	for _, valid := range []bool{true, false} {
		for _, pending := range []bool{true, false} {
			for confirmations := -1; confirmations <= 6; confirmations++ {
				tx := baseTx()
				tx.Valid = valid
				tx.Pending = pending
				tx.Confirmations = confirmations

				v := p.Present(tx, true, "USD")
				active := 0
				if v.ShowFailedBanner {
					active++
				}
				if v.ShowProgress {
					active++
				}
				if v.ShowDate {
					active++
				}
				require.Equal(t, 1, active, "valid=%v pending=%v confirmations=%d", valid, pending, confirmations)
			}
		}
	}
}

func TestPresent_DoesNotMutateInput(t *testing.T) {
	p := newTestPresenter()

	tx := baseTx()
	tx.Received = false
	before := tx

	_ = p.Present(tx, true, "USD")
	assert.True(t, before.Amount.Equal(tx.Amount))
	assert.Equal(t, before.Memo, tx.Memo)
	assert.Equal(t, before.Confirmations, tx.Confirmations)
}

func TestWalletTransaction_Progress(t *testing.T) {
	assert.Equal(t, 0, WalletTransaction{Confirmations: 0}.Progress())
	assert.Equal(t, 80, WalletTransaction{Confirmations: 4}.Progress())
	assert.Equal(t, 100, WalletTransaction{Confirmations: 5}.Progress())
	assert.Equal(t, 100, WalletTransaction{Confirmations: 1 << 30}.Progress())
	assert.Equal(t, 100, WalletTransaction{Confirmations: -2}.Progress())
}
