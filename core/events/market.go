package events

import (
	"encoding/hex"
	"math/big"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
)

const (
	TypeTokenCreated   = "market.token.created"
	TypeNewPrice       = "market.token.price"
	TypeTokenPurchased = "market.token.purchased"
	TypeNewAuction     = "market.auction.started"
	TypeNewBid         = "market.auction.bid"
	TypeEndAuction     = "market.auction.ended"
	TypeWithdrawMoney  = "market.funds.withdrawn"
)

// TokenCreated announces a freshly minted token and its provenance.
type TokenCreated struct {
	By            [20]byte
	TokenID       uint64
	Creators      [][20]byte
	RoyaltyShares []uint16
	Status        uint8
	ContentDigest [32]byte
	HashFunction  uint8
	Size          uint64
}

func (TokenCreated) EventType() string { return TypeTokenCreated }

func (e TokenCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenCreated,
		Attributes: map[string]string{
			"by":            formatAddr(e.By),
			"tokenId":       uintToString(e.TokenID),
			"creators":      joinAddrs(e.Creators),
			"royaltyShares": joinShares(e.RoyaltyShares),
			"status":        uintToString(uint64(e.Status)),
			"contentDigest": hex.EncodeToString(e.ContentDigest[:]),
			"hashFunction":  uintToString(uint64(e.HashFunction)),
			"size":          uintToString(e.Size),
		},
	}
}

// NewPrice announces a direct-sale price change.
type NewPrice struct {
	SetBy    [20]byte
	NewPrice *big.Int
	TokenID  uint64
}

func (NewPrice) EventType() string { return TypeNewPrice }

func (e NewPrice) Event() *types.Event {
	return &types.Event{
		Type: TypeNewPrice,
		Attributes: map[string]string{
			"setBy":    formatAddr(e.SetBy),
			"newPrice": formatAmount(e.NewPrice),
			"tokenId":  uintToString(e.TokenID),
		},
	}
}

// TokenPurchased announces a completed direct sale.
type TokenPurchased struct {
	By      [20]byte
	TokenID uint64
}

func (TokenPurchased) EventType() string { return TypeTokenPurchased }

func (e TokenPurchased) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenPurchased,
		Attributes: map[string]string{
			"by":      formatAddr(e.By),
			"tokenId": uintToString(e.TokenID),
		},
	}
}

// NewAuction announces the opening of an auction.
type NewAuction struct {
	TokenID       uint64
	AuctionNumber uint64
	ReservePrice  *big.Int
	EndTime       int64
}

func (NewAuction) EventType() string { return TypeNewAuction }

func (e NewAuction) Event() *types.Event {
	return &types.Event{
		Type: TypeNewAuction,
		Attributes: map[string]string{
			"tokenId":       uintToString(e.TokenID),
			"auctionNumber": uintToString(e.AuctionNumber),
			"reservePrice":  formatAmount(e.ReservePrice),
			"endTime":       intToString(e.EndTime),
		},
	}
}

// NewBid announces a bid; the amount is the bidder's cumulative total for
// the auction, not the increment.
type NewBid struct {
	By      [20]byte
	TokenID uint64
	Amount  *big.Int
}

func (NewBid) EventType() string { return TypeNewBid }

func (e NewBid) Event() *types.Event {
	return &types.Event{
		Type: TypeNewBid,
		Attributes: map[string]string{
			"by":      formatAddr(e.By),
			"tokenId": uintToString(e.TokenID),
			"amount":  formatAmount(e.Amount),
		},
	}
}

// EndAuction announces the close of an auction. NewOwner is empty for a
// zero-bid cancellation.
type EndAuction struct {
	TokenID       uint64
	AuctionNumber uint64
	NewOwner      string
	SoldFor       *big.Int
}

func (EndAuction) EventType() string { return TypeEndAuction }

func (e EndAuction) Event() *types.Event {
	return &types.Event{
		Type: TypeEndAuction,
		Attributes: map[string]string{
			"tokenId":       uintToString(e.TokenID),
			"auctionNumber": uintToString(e.AuctionNumber),
			"newOwner":      e.NewOwner,
			"soldFor":       formatAmount(e.SoldFor),
		},
	}
}

// WithdrawMoney announces a pull-payment withdrawal from any pool.
type WithdrawMoney struct {
	Receiver [20]byte
	Amount   *big.Int
}

func (WithdrawMoney) EventType() string { return TypeWithdrawMoney }

func (e WithdrawMoney) Event() *types.Event {
	return &types.Event{
		Type: TypeWithdrawMoney,
		Attributes: map[string]string{
			"receiver": formatAddr(e.Receiver),
			"amount":   formatAmount(e.Amount),
		},
	}
}
