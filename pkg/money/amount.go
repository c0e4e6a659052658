package money

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDisplayDecimals caps the fraction digits shown for crypto amounts
const MaxDisplayDecimals = 8

// FromBaseUnits converts base units (satoshi, wei, ...) to a decimal amount
// E.g., 150000000 with 8 decimals → 1.5
func FromBaseUnits(amount *big.Int, decimals int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// ParseBaseUnits parses a base unit integer string and converts it to a decimal amount
func ParseBaseUnits(amountStr string, decimals int) (decimal.Decimal, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	i := new(big.Int)
	if _, ok := i.SetString(amountStr, 10); !ok {
		return decimal.Zero, fmt.Errorf("invalid amount format")
	}

	return FromBaseUnits(i, decimals), nil
}

// RoundForDisplay rounds a crypto amount to the display precision of its asset
func RoundForDisplay(amount decimal.Decimal, currencyCode string) decimal.Decimal {
	return amount.Round(int32(DisplayDecimals(currencyCode)))
}
