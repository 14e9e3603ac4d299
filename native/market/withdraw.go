package market

import (
	"math/big"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
)

// WithdrawBidMoney refunds the caller's committed bids for every concluded
// auction of the token. Entries behind a still-active auction stay locked
// until that auction ends.
func (e *Engine) WithdrawBidMoney(caller [20]byte, tokenID uint64) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	auction, ok, err := e.state.AuctionGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoFunds
	}
	total := big.NewInt(0)
	for number := uint64(1); number <= auction.Number; number++ {
		if auction.Active && number == auction.Number {
			continue
		}
		entry, err := e.state.BidPoolGet(tokenID, number, caller)
		if err != nil {
			return nil, err
		}
		if entry == nil || entry.Sign() == 0 {
			continue
		}
		total.Add(total, entry)
		if err := e.state.BidPoolPut(tokenID, number, caller, big.NewInt(0)); err != nil {
			return nil, err
		}
	}
	if total.Sign() == 0 {
		if auction.Active {
			return nil, ErrAuctionStillActive
		}
		return nil, ErrNoFunds
	}
	if err := e.transferValue(e.vault, caller, total); err != nil {
		return nil, err
	}
	e.emit(events.WithdrawMoney{Receiver: caller, Amount: total})
	return total, nil
}

// WithdrawRoyalties drains the caller's accrued royalty pool.
func (e *Engine) WithdrawRoyalties(caller [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	pool, err := e.state.RoyaltyPoolGet(caller)
	if err != nil {
		return nil, err
	}
	amount := cloneBigInt(pool)
	if amount.Sign() == 0 {
		return nil, ErrNoFunds
	}
	if err := e.state.RoyaltyPoolPut(caller, big.NewInt(0)); err != nil {
		return nil, err
	}
	if err := e.transferValue(e.vault, caller, amount); err != nil {
		return nil, err
	}
	e.emit(events.WithdrawMoney{Receiver: caller, Amount: amount})
	return amount, nil
}

// WithdrawPlatformFees drains the accumulated platform fee pool into the
// administrator's account.
func (e *Engine) WithdrawPlatformFees(caller [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.auth == nil {
		return nil, errNilAuth
	}
	isAdmin, err := e.auth.IsAdmin(caller)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, ErrUnauthorized
	}
	pool, err := e.state.PlatformPoolGet()
	if err != nil {
		return nil, err
	}
	amount := cloneBigInt(pool)
	if amount.Sign() == 0 {
		return nil, ErrNoFunds
	}
	if err := e.state.PlatformPoolPut(big.NewInt(0)); err != nil {
		return nil, err
	}
	if err := e.transferValue(e.vault, caller, amount); err != nil {
		return nil, err
	}
	e.emit(events.WithdrawMoney{Receiver: caller, Amount: amount})
	return amount, nil
}

// BidPoolBalance returns the caller's refundable entry for one auction of
// the token without mutating state.
func (e *Engine) BidPoolBalance(account [20]byte, tokenID uint64, auctionNumber uint64) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	entry, err := e.state.BidPoolGet(tokenID, auctionNumber, account)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(entry), nil
}

// RoyaltyBalance returns the account's accrued royalty pool.
func (e *Engine) RoyaltyBalance(account [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, err := e.state.RoyaltyPoolGet(account)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(pool), nil
}

// PlatformBalance returns the accumulated platform fee pool.
func (e *Engine) PlatformBalance() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, err := e.state.PlatformPoolGet()
	if err != nil {
		return nil, err
	}
	return cloneBigInt(pool), nil
}
