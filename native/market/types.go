package market

import (
	"fmt"
	"math/big"
)

// TokenStatus tracks where a token sits in the sale/auction lifecycle.
type TokenStatus uint8

const (
	StatusIdle TokenStatus = iota
	StatusForSale
	StatusInAuction
)

// Valid reports whether the status value is within the supported range.
func (s TokenStatus) Valid() bool {
	switch s {
	case StatusIdle, StatusForSale, StatusInAuction:
		return true
	default:
		return false
	}
}

func (s TokenStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusForSale:
		return "forSale"
	case StatusInAuction:
		return "inAuction"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ContentPointer locates a token's media asset: a hash digest plus the
// multihash function identifier and byte size of the content.
type ContentPointer struct {
	Digest       [32]byte
	HashFunction uint8
	Size         uint64
}

// Token is the registry record for one single-edition media token. The
// creator list and royalty shares are fixed at creation; later resales pay
// royalties to this original list regardless of the current seller.
type Token struct {
	ID            uint64
	Creators      [][20]byte
	RoyaltyShares []uint16
	Status        TokenStatus
	CurrentPrice  *big.Int
	Content       ContentPointer
	TotalSupply   uint64
	ApprovedBuyer [20]byte
	HasApproval   bool
	CreatedAt     int64
}

// Clone returns a deep copy of the token record.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Creators = make([][20]byte, len(t.Creators))
	copy(clone.Creators, t.Creators)
	clone.RoyaltyShares = make([]uint16, len(t.RoyaltyShares))
	copy(clone.RoyaltyShares, t.RoyaltyShares)
	if t.CurrentPrice != nil {
		clone.CurrentPrice = new(big.Int).Set(t.CurrentPrice)
	} else {
		clone.CurrentPrice = big.NewInt(0)
	}
	return &clone
}

// Auction is the per-token auction record for the current auction number.
// Historical bid pools stay addressable through their auction number even
// after this record is overwritten by a later auction.
type Auction struct {
	TokenID       uint64
	Number        uint64
	Starter       [20]byte
	ReservePrice  *big.Int
	HighestBid    *big.Int
	HighestBidder [20]byte
	HasBidder     bool
	EndTime       int64
	Active        bool
}

// Clone returns a deep copy of the auction record.
func (a *Auction) Clone() *Auction {
	if a == nil {
		return nil
	}
	clone := *a
	if a.ReservePrice != nil {
		clone.ReservePrice = new(big.Int).Set(a.ReservePrice)
	} else {
		clone.ReservePrice = big.NewInt(0)
	}
	if a.HighestBid != nil {
		clone.HighestBid = new(big.Int).Set(a.HighestBid)
	} else {
		clone.HighestBid = big.NewInt(0)
	}
	return &clone
}

const royaltyDenominator = 10_000

// validateRoyaltySplit checks the creator list and share vector invariants:
// parallel, non-empty, unique creators, shares summing to exactly 10000
// basis points.
func validateRoyaltySplit(creators [][20]byte, shares []uint16) error {
	if len(creators) == 0 || len(creators) != len(shares) {
		return ErrInvalidRoyaltySplit
	}
	seen := make(map[[20]byte]struct{}, len(creators))
	for _, c := range creators {
		if _, dup := seen[c]; dup {
			return ErrInvalidRoyaltySplit
		}
		seen[c] = struct{}{}
	}
	sum := 0
	for _, s := range shares {
		if int(s) > royaltyDenominator {
			return ErrInvalidRoyaltySplit
		}
		sum += int(s)
	}
	if sum != royaltyDenominator {
		return ErrInvalidRoyaltySplit
	}
	return nil
}
