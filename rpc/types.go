package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
	"github.com/hashtune/Hashtune-Marketplace-Chain/native/artist"
	"github.com/hashtune/Hashtune-Marketplace-Chain/native/market"
)

type tokenResult struct {
	ID            uint64   `json:"id"`
	Creators      []string `json:"creators"`
	RoyaltyShares []uint16 `json:"royaltyShares"`
	Status        string   `json:"status"`
	CurrentPrice  string   `json:"currentPrice"`
	Digest        string   `json:"digest"`
	HashFunction  uint8    `json:"hashFunction"`
	Size          uint64   `json:"size"`
	TotalSupply   uint64   `json:"totalSupply"`
	ApprovedBuyer string   `json:"approvedBuyer,omitempty"`
	CreatedAt     int64    `json:"createdAt"`
}

type auctionResult struct {
	TokenID       uint64 `json:"tokenId"`
	Number        uint64 `json:"number"`
	Starter       string `json:"starter"`
	ReservePrice  string `json:"reservePrice"`
	HighestBid    string `json:"highestBid"`
	HighestBidder string `json:"highestBidder,omitempty"`
	EndTime       int64  `json:"endTime"`
	Active        bool   `json:"active"`
}

type withdrawResult struct {
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
}

func formatToken(token *market.Token) tokenResult {
	creators := make([]string, len(token.Creators))
	for i, c := range token.Creators {
		creators[i] = formatAddress(c)
	}
	result := tokenResult{
		ID:            token.ID,
		Creators:      creators,
		RoyaltyShares: append([]uint16(nil), token.RoyaltyShares...),
		Status:        token.Status.String(),
		CurrentPrice:  bigString(token.CurrentPrice),
		Digest:        hex.EncodeToString(token.Content.Digest[:]),
		HashFunction:  token.Content.HashFunction,
		Size:          token.Content.Size,
		TotalSupply:   token.TotalSupply,
		CreatedAt:     token.CreatedAt,
	}
	if token.HasApproval {
		result.ApprovedBuyer = formatAddress(token.ApprovedBuyer)
	}
	return result
}

func formatAuction(auction *market.Auction) auctionResult {
	result := auctionResult{
		TokenID:      auction.TokenID,
		Number:       auction.Number,
		Starter:      formatAddress(auction.Starter),
		ReservePrice: bigString(auction.ReservePrice),
		HighestBid:   bigString(auction.HighestBid),
		EndTime:      auction.EndTime,
		Active:       auction.Active,
	}
	if auction.HasBidder {
		result.HighestBidder = formatAddress(auction.HighestBidder)
	}
	return result
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(addr).String()
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func decodeBech32(addr string) (crypto.Address, error) {
	return crypto.DecodeAddress(strings.TrimSpace(addr))
}

func parseAmount(amount string) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount")
	}
	if value.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return value, nil
}

func parsePrice(price string) (*big.Int, error) {
	trimmed := strings.TrimSpace(price)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid price")
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	return value, nil
}

func parseDigest(digest string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(digest), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid digest: %w", err)
	}
	if len(decoded) != len(out) {
		return out, fmt.Errorf("digest must be %d bytes", len(out))
	}
	copy(out[:], decoded)
	return out, nil
}

// writeEngineError maps engine failures onto JSON-RPC error codes. Access
// failures surface as unauthorized, everything else as a server error with
// the engine message preserved in the data field.
func writeEngineError(w http.ResponseWriter, id interface{}, action string, err error) {
	if errors.Is(err, market.ErrUnauthorized) || errors.Is(err, artist.ErrUnauthorized) ||
		errors.Is(err, market.ErrNotOwner) || errors.Is(err, market.ErrNotAuctionCreator) {
		writeError(w, http.StatusForbidden, id, codeUnauthorized, action, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, id, codeServerError, action, err.Error())
}
