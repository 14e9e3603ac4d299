package market

import (
	"errors"
	"math/big"
	"testing"
)

func TestWithdrawBlockedWhileAuctionActive(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	seller := addr(0x02)
	bidderA := addr(0x03)
	bidderB := addr(0x04)
	startTestAuction(t, engine, state, auth, seller, 1, 5)
	state.setBalance(bidderA, 100)
	state.setBalance(bidderB, 100)

	if _, err := engine.PlaceBid(bidderA, 1, big.NewInt(6)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	if _, err := engine.PlaceBid(bidderB, 1, big.NewInt(7)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	// A has been outbid but the auction is still running, so the entry
	// stays locked.
	if _, err := engine.WithdrawBidMoney(bidderA, 1); !errors.Is(err, ErrAuctionStillActive) {
		t.Fatalf("expected locked entry, got %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1_000 + testAuctionDuration })
	if _, err := engine.EndAuction(seller, 1); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	refund, err := engine.WithdrawBidMoney(bidderA, 1)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if refund.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("refund mismatch: %s", refund)
	}
	if got := state.balance(bidderA); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("loser not made whole: %s", got)
	}
	// A second withdrawal finds nothing.
	if _, err := engine.WithdrawBidMoney(bidderA, 1); !errors.Is(err, ErrNoFunds) {
		t.Fatalf("expected drained entry, got %v", err)
	}
}

func TestWinnerCannotWithdrawConsumedBid(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	seller := addr(0x02)
	winner := addr(0x03)
	startTestAuction(t, engine, state, auth, seller, 1, 5)
	state.setBalance(winner, 100)

	if _, err := engine.PlaceBid(winner, 1, big.NewInt(10)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	engine.SetNowFunc(func() int64 { return 1_000 + testAuctionDuration })
	if _, err := engine.EndAuction(seller, 1); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, err := engine.WithdrawBidMoney(winner, 1); !errors.Is(err, ErrNoFunds) {
		t.Fatalf("expected consumed entry, got %v", err)
	}
}

func TestOldEntriesWithdrawableDuringNewAuction(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	seller := addr(0x02)
	loser := addr(0x03)
	winner := addr(0x04)
	startTestAuction(t, engine, state, auth, seller, 1, 5)
	state.setBalance(loser, 100)
	state.setBalance(winner, 100)

	if _, err := engine.PlaceBid(loser, 1, big.NewInt(6)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	if _, err := engine.PlaceBid(winner, 1, big.NewInt(8)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	engine.SetNowFunc(func() int64 { return 1_000 + testAuctionDuration })
	if _, err := engine.EndAuction(seller, 1); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	// The new owner starts the next auction; the first auction's losing
	// entry remains refundable behind it.
	if _, err := engine.StartAuction(winner, 1, big.NewInt(20)); err != nil {
		t.Fatalf("second auction: %v", err)
	}
	refund, err := engine.WithdrawBidMoney(loser, 1)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if refund.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("refund mismatch: %s", refund)
	}
}

func TestWithdrawRoyaltiesDrainsPool(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	sellerX := addr(0x02)
	creatorY := addr(0x03)
	buyer := addr(0x04)
	auth.artists[sellerX] = true

	_, err := engine.Create(sellerX, 1, [][20]byte{sellerX, creatorY}, []uint16{9_000, 1_000}, StatusForSale, ContentPointer{}, big.NewInt(100), 1)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	state.setBalance(buyer, 100)
	if err := engine.SetApprovalToBuy(sellerX, buyer, 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(100)); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	amount, err := engine.WithdrawRoyalties(creatorY)
	if err != nil {
		t.Fatalf("withdraw royalties: %v", err)
	}
	if amount.Cmp(big.NewInt(9)) != 0 {
		t.Fatalf("royalty amount mismatch: %s", amount)
	}
	if got := state.balance(creatorY); got.Cmp(big.NewInt(9)) != 0 {
		t.Fatalf("royalty not paid out: %s", got)
	}
	if _, err := engine.WithdrawRoyalties(creatorY); !errors.Is(err, ErrNoFunds) {
		t.Fatalf("expected drained pool, got %v", err)
	}
}

func TestWithdrawPlatformFeesAdminOnly(t *testing.T) {
	state := newMockState()
	admin := addr(0x01)
	auth := newMockAuth(admin)
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	buyer := addr(0x03)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(buyer, 100)

	if err := engine.SetApprovalToBuy(artist, buyer, 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(100)); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if _, err := engine.WithdrawPlatformFees(artist); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected admin gate, got %v", err)
	}
	amount, err := engine.WithdrawPlatformFees(admin)
	if err != nil {
		t.Fatalf("withdraw fees: %v", err)
	}
	if amount.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("fee amount mismatch: %s", amount)
	}
	if got := state.balance(admin); got.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("fees not paid out: %s", got)
	}
	if _, err := engine.WithdrawPlatformFees(admin); !errors.Is(err, ErrNoFunds) {
		t.Fatalf("expected drained pool, got %v", err)
	}
}

func TestVaultBacksAllOutstandingPools(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	seller := addr(0x02)
	loser := addr(0x03)
	winner := addr(0x04)
	startTestAuction(t, engine, state, auth, seller, 1, 5)
	state.setBalance(loser, 100)
	state.setBalance(winner, 100)

	if _, err := engine.PlaceBid(loser, 1, big.NewInt(6)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	if _, err := engine.PlaceBid(winner, 1, big.NewInt(8)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	// Mid-auction: every committed unit sits in the vault.
	if got := state.balance(addr(0xAA)); got.Cmp(big.NewInt(14)) != 0 {
		t.Fatalf("vault mismatch mid-auction: %s", got)
	}
	engine.SetNowFunc(func() int64 { return 1_000 + testAuctionDuration })
	if _, err := engine.EndAuction(seller, 1); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	// After settlement the vault backs the loser refund (6), the platform
	// pool (0.16 truncated to 0), and seller proceeds already left. Sale
	// price 8: fee floor(8*2%) = 0, sole-creator seller takes all 8.
	if got := state.balance(addr(0xAA)); got.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("vault mismatch after settlement: %s", got)
	}
	if got := state.balance(seller); got.Cmp(big.NewInt(8)) != 0 {
		t.Fatalf("seller proceeds mismatch: %s", got)
	}
	if _, err := engine.WithdrawBidMoney(loser, 1); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if got := state.balance(addr(0xAA)); got.Sign() != 0 {
		t.Fatalf("vault not emptied: %s", got)
	}
}
