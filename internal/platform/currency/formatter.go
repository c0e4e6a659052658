package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kislikjeka/txfeed/pkg/money"
)

// fiatSymbols holds display symbols for common fiat currencies.
// Currencies missing here are shown with their ISO code.
var fiatSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"KRW": "₩",
	"INR": "₹",
	"RUB": "₽",
	"TRY": "₺",
	"BRL": "R$",
	"CAD": "CA$",
	"AUD": "A$",
	"MXN": "MX$",
}

// Formatter renders crypto and fiat amounts for one locale.
// Amounts are formatted from their decimal digits, never through float64.
type Formatter struct {
	symbols numberSymbols
}

// numberSymbols are the locale separators used when grouping digits
type numberSymbols struct {
	group   string
	decimal string
	// minGrouping is the number of digits the leading group needs before
	// separators are inserted (2 for locales that print 1234 ungrouped)
	minGrouping int
}

// NewFormatter creates a new formatter for the given locale
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{symbols: symbolsFor(message.NewPrinter(tag))}
}

// symbolsFor reads the locale separators off two reference numbers
func symbolsFor(p *message.Printer) numberSymbols {
	s := numberSymbols{decimal: ".", minGrouping: 1}

	var seps []string
	for _, r := range p.Sprintf("%v", number.Decimal(1234567.5, number.Scale(1))) {
		if r < '0' || r > '9' {
			seps = append(seps, string(r))
		}
	}
	if len(seps) > 0 {
		s.decimal = seps[len(seps)-1]
	}
	if len(seps) > 1 {
		s.group = seps[0]
	}

	short := p.Sprintf("%v", number.Decimal(1234.5, number.Scale(1)))
	if s.group != "" && !strings.Contains(short, s.group) {
		s.minGrouping = 2
	}
	return s
}

// format localizes a plain decimal string such as "-1234.50"
func (s numberSymbols) format(plain string) string {
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign, plain = "-", plain[1:]
	}
	intPart, frac, hasFrac := strings.Cut(plain, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(s.groupDigits(intPart))
	if hasFrac {
		b.WriteString(s.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

func (s numberSymbols) groupDigits(digits string) string {
	if s.group == "" || len(digits) < 3+s.minGrouping {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(s.group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCrypto renders e.g. "-0.5 BTC", with at most money.MaxDisplayDecimals fraction digits
func (f *Formatter) FormatCrypto(currencyCode string, amount decimal.Decimal) string {
	formatted := f.symbols.format(money.RoundForDisplay(amount, currencyCode).String())
	if currencyCode == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currencyCode)
}

// FormatFiat renders e.g. "-$1,234.50" using the ISO 4217 precision of the currency
func (f *Formatter) FormatFiat(fiatCode string, amount decimal.Decimal) string {
	code := strings.ToUpper(fiatCode)
	scale := 2
	if unit, err := xcurrency.ParseISO(code); err == nil {
		scale, _ = xcurrency.Standard.Rounding(unit)
		code = unit.String()
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	formatted := f.symbols.format(amount.StringFixed(int32(scale)))

	symbol, ok := fiatSymbols[code]
	if !ok {
		return sign + code + " " + formatted
	}
	return sign + symbol + formatted
}

// IsFiatCode reports whether code is a known ISO 4217 currency code
func IsFiatCode(code string) bool {
	_, err := xcurrency.ParseISO(strings.ToUpper(code))
	return err == nil
}
