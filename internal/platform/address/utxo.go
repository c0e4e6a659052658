package address

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

const bitcoinCashPrefix = "bitcoincash:"

// btcNetworks are tried in order when decoding a bitcoin address
var btcNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
}

// bitcoinRule re-encodes a bitcoin address in its canonical form
// (bech32 addresses become lowercase).
func bitcoinRule(address string) string {
	for _, params := range btcNetworks {
		decoded, err := btcutil.DecodeAddress(address, params)
		if err != nil {
			continue
		}
		if !decoded.IsForNet(params) {
			continue
		}
		return decoded.EncodeAddress()
	}
	return address
}

// bitcoinCashRule drops the cashaddr scheme prefix
func bitcoinCashRule(address string) string {
	if len(address) > len(bitcoinCashPrefix) && strings.EqualFold(address[:len(bitcoinCashPrefix)], bitcoinCashPrefix) {
		return address[len(bitcoinCashPrefix):]
	}
	return address
}
