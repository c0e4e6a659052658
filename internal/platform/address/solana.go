package address

import (
	solana "github.com/gagliardetto/solana-go"
)

// solanaRule validates a base58 public key and returns its canonical encoding
func solanaRule(address string) string {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return address
	}
	return pk.String()
}
