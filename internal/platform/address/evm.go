package address

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// EVM address regex: 0x followed by exactly 40 hex characters
var evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsEVMAddress reports whether address has the 0x + 40 hex format
func IsEVMAddress(address string) bool {
	return evmAddressRegex.MatchString(address)
}

// ToChecksumAddress converts an EVM address to EIP-55 checksummed format.
// https://eips.ethereum.org/EIPS/eip-55
func ToChecksumAddress(address string) string {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	hash := keccak256([]byte(addr))

	var result strings.Builder
	result.WriteString("0x")

	for i, c := range addr {
		if c >= '0' && c <= '9' {
			result.WriteRune(c)
			continue
		}

		// Uppercase when the matching hash nibble is >= 8
		hashByte := hash[i/2]
		nibble := hashByte & 0x0F
		if i%2 == 0 {
			nibble = hashByte >> 4
		}
		if nibble >= 8 {
			result.WriteRune(c - 32)
		} else {
			result.WriteRune(c)
		}
	}

	return result.String()
}

func keccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hash.Sum(nil)
}

// evmRule renders EVM addresses with checksum casing
func evmRule(address string) string {
	if !IsEVMAddress(address) {
		return address
	}
	return ToChecksumAddress(address)
}
