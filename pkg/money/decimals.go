package money

import "strings"

// DefaultDecimals is used for assets missing from the table
const DefaultDecimals = 8

// assetDecimals maps asset codes to their base unit precision
var assetDecimals = map[string]int{
	"btc":   8, // Bitcoin: satoshi
	"bch":   8,
	"bsv":   8,
	"ltc":   8,
	"doge":  8,
	"eth":   18, // Ethereum: wei
	"brd":   18,
	"dai":   18,
	"link":  18,
	"matic": 18,
	"bnb":   18,
	"usdt":  6,
	"usdc":  6,
	"trx":   6,
	"xrp":   6,
	"ada":   6, // Cardano: lovelace
	"sol":   9, // Solana: lamport
	"ton":   9,
	"dot":   10,
	"xtz":   6,
	"hbar":  8,
	"wbtc":  8,
}

// AssetDecimals returns the number of decimal places of an asset's base unit
func AssetDecimals(currencyCode string) int {
	if d, ok := assetDecimals[strings.ToLower(currencyCode)]; ok {
		return d
	}
	return DefaultDecimals
}

// DisplayDecimals returns the fraction digits shown for an asset
func DisplayDecimals(currencyCode string) int {
	d := AssetDecimals(currencyCode)
	if d > MaxDisplayDecimals {
		return MaxDisplayDecimals
	}
	return d
}
