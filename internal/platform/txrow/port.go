package txrow

import "github.com/shopspring/decimal"

// CurrencyFormatter renders amounts for display
type CurrencyFormatter interface {
	FormatCrypto(currencyCode string, amount decimal.Decimal) string
	FormatFiat(fiatCode string, amount decimal.Decimal) string
}

// AddressDecorator prepares an address for display (checksum casing, prefix stripping, truncation)
type AddressDecorator interface {
	Decorate(currencyCode, address string) string
}

// DateFormatter renders a timestamp as a short localized date
type DateFormatter interface {
	ShortDate(epochMillis int64) string
}

// TemplateKey identifies a localized detail template
type TemplateKey string

const (
	TemplateSentTo        TemplateKey = "Transaction_sentTo"
	TemplateSendingTo     TemplateKey = "Transaction_sendingTo"
	TemplateReceivedVia   TemplateKey = "TransactionDetails_receivedVia"
	TemplateReceivingVia  TemplateKey = "TransactionDetails_receivingVia"
	TemplateTokenTransfer TemplateKey = "Transaction_tokenTransfer"
)

// Templates substitutes a single argument into a localized template
type Templates interface {
	Format(key TemplateKey, arg string) string
}
