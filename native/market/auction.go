package market

import (
	"math/big"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
)

// StartAuction opens a new auction for the token with the supplied reserve
// price. Auction numbers increase monotonically per token and are never
// reused, which keeps historical bid pools addressable forever.
func (e *Engine) StartAuction(caller [20]byte, tokenID uint64, reserve *big.Int) (*Auction, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if reserve != nil && reserve.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	owner, err := e.isSoleOwner(caller, token)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotOwner
	}
	if token.Status == StatusInAuction {
		return nil, ErrAuctionInProgress
	}
	prev, hasPrev, err := e.state.AuctionGet(tokenID)
	if err != nil {
		return nil, err
	}
	if hasPrev && prev.Active {
		return nil, ErrAuctionInProgress
	}
	number := uint64(1)
	if hasPrev {
		number = prev.Number + 1
	}
	auction := &Auction{
		TokenID:      tokenID,
		Number:       number,
		Starter:      caller,
		ReservePrice: cloneBigInt(reserve),
		HighestBid:   big.NewInt(0),
		Active:       true,
	}
	if err := e.state.AuctionPut(auction); err != nil {
		return nil, err
	}
	token.Status = StatusInAuction
	token.HasApproval = false
	token.ApprovedBuyer = [20]byte{}
	if err := e.state.TokenPut(token); err != nil {
		return nil, err
	}
	e.emit(events.NewAuction{
		TokenID:       tokenID,
		AuctionNumber: number,
		ReservePrice:  auction.ReservePrice,
		EndTime:       0,
	})
	return auction.Clone(), nil
}

// PlaceBid commits funds toward the token's active auction. Repeated bids
// from one bidder pool into a single running total, and it is that
// cumulative total which must meet the reserve and beat the current
// highest. The first bid meeting a non-zero reserve starts the time box.
func (e *Engine) PlaceBid(caller [20]byte, tokenID uint64, amount *big.Int) (*Auction, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	auction, ok, err := e.state.AuctionGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok || !auction.Active {
		return nil, ErrNoActiveAuction
	}
	committed, err := e.state.BidPoolGet(tokenID, auction.Number, caller)
	if err != nil {
		return nil, err
	}
	cumulative := new(big.Int).Add(cloneBigInt(committed), amount)
	if auction.ReservePrice.Sign() > 0 && cumulative.Cmp(auction.ReservePrice) < 0 {
		return nil, ErrBelowReserve
	}
	if cumulative.Cmp(auction.HighestBid) <= 0 {
		return nil, ErrBidTooLow
	}
	// The increment moves into the vault before the leadership change. A
	// demoted leader's total simply stays in their pool entry, refundable
	// once the auction concludes.
	if err := e.transferValue(caller, e.vault, amount); err != nil {
		return nil, err
	}
	if err := e.state.BidPoolPut(tokenID, auction.Number, caller, cumulative); err != nil {
		return nil, err
	}
	auction.HighestBid = cumulative
	auction.HighestBidder = caller
	auction.HasBidder = true
	if auction.ReservePrice.Sign() > 0 && auction.EndTime == 0 {
		auction.EndTime = e.now() + e.auctionDuration
	}
	if err := e.state.AuctionPut(auction); err != nil {
		return nil, err
	}
	e.emit(events.NewBid{By: caller, TokenID: tokenID, Amount: cumulative})
	return auction.Clone(), nil
}

// EndAuction closes the token's active auction. Only the account that
// started it may close it; a time-boxed auction cannot close before its end
// time. With no qualifying bid the close is an explicit no-transfer cancel.
func (e *Engine) EndAuction(caller [20]byte, tokenID uint64) (*Auction, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	auction, ok, err := e.state.AuctionGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok || !auction.Active {
		return nil, ErrNoActiveAuction
	}
	if auction.Starter != caller {
		return nil, ErrNotAuctionCreator
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	if !auction.HasBidder {
		auction.Active = false
		if err := e.state.AuctionPut(auction); err != nil {
			return nil, err
		}
		token.Status = StatusIdle
		if err := e.state.TokenPut(token); err != nil {
			return nil, err
		}
		e.emit(events.EndAuction{
			TokenID:       tokenID,
			AuctionNumber: auction.Number,
			NewOwner:      "",
			SoldFor:       big.NewInt(0),
		})
		return auction.Clone(), nil
	}
	if auction.EndTime > 0 && e.now() < auction.EndTime {
		return nil, ErrAuctionStillActive
	}

	winner := auction.HighestBidder
	soldFor := cloneBigInt(auction.HighestBid)

	// The winner's committed total becomes the sale proceeds, so their pool
	// entry is zeroed before any value leaves the vault.
	if err := e.state.BidPoolPut(tokenID, auction.Number, winner, big.NewInt(0)); err != nil {
		return nil, err
	}
	s := splitSettlement(soldFor, e.platformFeeBps, token.Creators, token.RoyaltyShares, auction.Starter)
	if err := e.creditPools(s); err != nil {
		return nil, err
	}
	if err := e.state.TokenBalanceTransfer(auction.Starter, winner, tokenID, token.TotalSupply); err != nil {
		return nil, err
	}
	if err := e.transferValue(e.vault, auction.Starter, s.SellerProceeds); err != nil {
		return nil, err
	}
	auction.Active = false
	if err := e.state.AuctionPut(auction); err != nil {
		return nil, err
	}
	token.Status = StatusIdle
	token.HasApproval = false
	token.ApprovedBuyer = [20]byte{}
	if err := e.state.TokenPut(token); err != nil {
		return nil, err
	}
	e.emit(events.EndAuction{
		TokenID:       tokenID,
		AuctionNumber: auction.Number,
		NewOwner:      crypto.MustNewAddress(winner).String(),
		SoldFor:       soldFor,
	})
	return auction.Clone(), nil
}

// Auction returns the token's current auction record without mutating
// state.
func (e *Engine) Auction(tokenID uint64) (*Auction, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	auction, ok, err := e.state.AuctionGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoActiveAuction
	}
	return auction.Clone(), nil
}
