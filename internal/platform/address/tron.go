package address

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	tronPrefixByte   = 0x41
	tronAddressBytes = 21
	tronHexLength    = tronAddressBytes * 2
)

// tronRule renders hex TRON addresses (41...) as base58check
func tronRule(address string) string {
	hexAddr := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(hexAddr) != tronHexLength || !strings.HasPrefix(hexAddr, "41") {
		return address
	}

	raw, err := hex.DecodeString(hexAddr)
	if err != nil || raw[0] != tronPrefixByte {
		return address
	}

	// Checksum per TRON (double SHA256)
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])

	full := append(raw, second[:4]...)
	return base58.Encode(full)
}
