package artist

import "github.com/hashtune/Hashtune-Marketplace-Chain/crypto"

func formatOptionalAddr(addr [20]byte) string {
	return crypto.MustNewAddress(addr).String()
}
