package events

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatAddr(addr [20]byte) string {
	return crypto.MustNewAddress(addr).String()
}

func joinAddrs(addrs [][20]byte) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, formatAddr(a))
	}
	return strings.Join(parts, ",")
}

func joinShares(shares []uint16) string {
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		parts = append(parts, strconv.FormatUint(uint64(s), 10))
	}
	return strings.Join(parts, ",")
}
