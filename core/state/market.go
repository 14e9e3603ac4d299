package state

import (
	"fmt"
	"math/big"

	"github.com/hashtune/Hashtune-Marketplace-Chain/native/market"
)

type storedToken struct {
	ID            uint64
	Creators      [][20]byte
	RoyaltyShares []uint16
	Status        uint8
	CurrentPrice  *big.Int
	Digest        [32]byte
	HashFunction  uint8
	ContentSize   uint64
	TotalSupply   uint64
	ApprovedBuyer [20]byte
	HasApproval   bool
	CreatedAt     *big.Int
}

func newStoredToken(t *market.Token) *storedToken {
	price := big.NewInt(0)
	if t.CurrentPrice != nil {
		price = new(big.Int).Set(t.CurrentPrice)
	}
	return &storedToken{
		ID:            t.ID,
		Creators:      t.Creators,
		RoyaltyShares: t.RoyaltyShares,
		Status:        uint8(t.Status),
		CurrentPrice:  price,
		Digest:        t.Content.Digest,
		HashFunction:  t.Content.HashFunction,
		ContentSize:   t.Content.Size,
		TotalSupply:   t.TotalSupply,
		ApprovedBuyer: t.ApprovedBuyer,
		HasApproval:   t.HasApproval,
		CreatedAt:     big.NewInt(t.CreatedAt),
	}
}

func (s *storedToken) toToken() (*market.Token, error) {
	if s == nil {
		return nil, fmt.Errorf("token: nil storage record")
	}
	status := market.TokenStatus(s.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("token %d: corrupt status %d", s.ID, s.Status)
	}
	token := &market.Token{
		ID:            s.ID,
		Creators:      s.Creators,
		RoyaltyShares: s.RoyaltyShares,
		Status:        status,
		CurrentPrice:  new(big.Int).Set(s.CurrentPrice),
		Content: market.ContentPointer{
			Digest:       s.Digest,
			HashFunction: s.HashFunction,
			Size:         s.ContentSize,
		},
		TotalSupply:   s.TotalSupply,
		ApprovedBuyer: s.ApprovedBuyer,
		HasApproval:   s.HasApproval,
		CreatedAt:     s.CreatedAt.Int64(),
	}
	return token, nil
}

// TokenGet loads the registry record for the id.
func (m *Manager) TokenGet(id uint64) (*market.Token, bool, error) {
	var stored storedToken
	ok, err := m.getRLP(hashKey(tokenPrefix, uint64Key(id)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	token, err := stored.toToken()
	if err != nil {
		return nil, false, err
	}
	return token, true, nil
}

// TokenPut stores the registry record.
func (m *Manager) TokenPut(token *market.Token) error {
	if token == nil {
		return fmt.Errorf("token: nil record")
	}
	return m.putRLP(hashKey(tokenPrefix, uint64Key(token.ID)), newStoredToken(token))
}

// --- Ownership ledger ---

// TokenBalanceGet returns the quantity of the token held by the owner.
func (m *Manager) TokenBalanceGet(owner [20]byte, tokenID uint64) (uint64, error) {
	var balance uint64
	ok, err := m.getRLP(hashKey(tokenBalancePrefix, owner[:], uint64Key(tokenID)), &balance)
	if err != nil || !ok {
		return 0, err
	}
	return balance, nil
}

func (m *Manager) tokenBalanceSet(owner [20]byte, tokenID uint64, quantity uint64) error {
	return m.putRLP(hashKey(tokenBalancePrefix, owner[:], uint64Key(tokenID)), quantity)
}

// TokenBalanceMint credits the full initial supply to the owner and records
// them as the token's sole holder.
func (m *Manager) TokenBalanceMint(owner [20]byte, tokenID uint64, quantity uint64) error {
	balance, err := m.TokenBalanceGet(owner, tokenID)
	if err != nil {
		return err
	}
	if err := m.tokenBalanceSet(owner, tokenID, balance+quantity); err != nil {
		return err
	}
	return m.putRLP(hashKey(tokenOwnerPrefix, uint64Key(tokenID)), owner)
}

// TokenBalanceTransfer atomically moves quantity between holders. When the
// sender's balance empties the recipient becomes the recorded sole holder.
func (m *Manager) TokenBalanceTransfer(from [20]byte, to [20]byte, tokenID uint64, quantity uint64) error {
	fromBalance, err := m.TokenBalanceGet(from, tokenID)
	if err != nil {
		return err
	}
	if fromBalance < quantity {
		return fmt.Errorf("token %d: transfer of %d exceeds balance %d", tokenID, quantity, fromBalance)
	}
	toBalance, err := m.TokenBalanceGet(to, tokenID)
	if err != nil {
		return err
	}
	if err := m.tokenBalanceSet(from, tokenID, fromBalance-quantity); err != nil {
		return err
	}
	if err := m.tokenBalanceSet(to, tokenID, toBalance+quantity); err != nil {
		return err
	}
	if fromBalance == quantity {
		return m.putRLP(hashKey(tokenOwnerPrefix, uint64Key(tokenID)), to)
	}
	return nil
}

// TokenOwnerGet returns the account recorded as the token's sole holder.
func (m *Manager) TokenOwnerGet(tokenID uint64) ([20]byte, bool, error) {
	var owner [20]byte
	ok, err := m.getRLP(hashKey(tokenOwnerPrefix, uint64Key(tokenID)), &owner)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return owner, true, nil
}

// --- Auctions ---

type storedAuction struct {
	TokenID       uint64
	Number        uint64
	Starter       [20]byte
	ReservePrice  *big.Int
	HighestBid    *big.Int
	HighestBidder [20]byte
	HasBidder     bool
	EndTime       *big.Int
	Active        bool
}

// AuctionGet loads the token's current auction record.
func (m *Manager) AuctionGet(tokenID uint64) (*market.Auction, bool, error) {
	var stored storedAuction
	ok, err := m.getRLP(hashKey(auctionPrefix, uint64Key(tokenID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &market.Auction{
		TokenID:       stored.TokenID,
		Number:        stored.Number,
		Starter:       stored.Starter,
		ReservePrice:  new(big.Int).Set(stored.ReservePrice),
		HighestBid:    new(big.Int).Set(stored.HighestBid),
		HighestBidder: stored.HighestBidder,
		HasBidder:     stored.HasBidder,
		EndTime:       stored.EndTime.Int64(),
		Active:        stored.Active,
	}, true, nil
}

// AuctionPut stores the token's current auction record.
func (m *Manager) AuctionPut(auction *market.Auction) error {
	if auction == nil {
		return fmt.Errorf("auction: nil record")
	}
	reserve := big.NewInt(0)
	if auction.ReservePrice != nil {
		reserve = new(big.Int).Set(auction.ReservePrice)
	}
	highest := big.NewInt(0)
	if auction.HighestBid != nil {
		highest = new(big.Int).Set(auction.HighestBid)
	}
	return m.putRLP(hashKey(auctionPrefix, uint64Key(auction.TokenID)), &storedAuction{
		TokenID:       auction.TokenID,
		Number:        auction.Number,
		Starter:       auction.Starter,
		ReservePrice:  reserve,
		HighestBid:    highest,
		HighestBidder: auction.HighestBidder,
		HasBidder:     auction.HasBidder,
		EndTime:       big.NewInt(auction.EndTime),
		Active:        auction.Active,
	})
}

// --- Settlement pools ---

func bidPoolKey(tokenID uint64, auctionNumber uint64, bidder [20]byte) []byte {
	return hashKey(bidPoolPrefix, uint64Key(tokenID), []byte{':'}, uint64Key(auctionNumber), []byte{':'}, bidder[:])
}

// BidPoolGet returns the bidder's refundable entry for one auction.
func (m *Manager) BidPoolGet(tokenID uint64, auctionNumber uint64, bidder [20]byte) (*big.Int, error) {
	var amount big.Int
	ok, err := m.getRLP(bidPoolKey(tokenID, auctionNumber, bidder), &amount)
	if err != nil || !ok {
		return big.NewInt(0), err
	}
	return &amount, nil
}

// BidPoolPut stores the bidder's entry; a zero amount clears it.
func (m *Manager) BidPoolPut(tokenID uint64, auctionNumber uint64, bidder [20]byte, amount *big.Int) error {
	key := bidPoolKey(tokenID, auctionNumber, bidder)
	if amount == nil || amount.Sign() == 0 {
		return m.db.Delete(key)
	}
	return m.putRLP(key, amount)
}

// RoyaltyPoolGet returns the creator's accrued royalty balance.
func (m *Manager) RoyaltyPoolGet(creator [20]byte) (*big.Int, error) {
	var amount big.Int
	ok, err := m.getRLP(hashKey(royaltyPoolPrefix, creator[:]), &amount)
	if err != nil || !ok {
		return big.NewInt(0), err
	}
	return &amount, nil
}

// RoyaltyPoolPut stores the creator's royalty balance; zero clears it.
func (m *Manager) RoyaltyPoolPut(creator [20]byte, amount *big.Int) error {
	key := hashKey(royaltyPoolPrefix, creator[:])
	if amount == nil || amount.Sign() == 0 {
		return m.db.Delete(key)
	}
	return m.putRLP(key, amount)
}

// PlatformPoolGet returns the accumulated platform fee balance.
func (m *Manager) PlatformPoolGet() (*big.Int, error) {
	var amount big.Int
	ok, err := m.getRLP(hashKey(platformPoolKey), &amount)
	if err != nil || !ok {
		return big.NewInt(0), err
	}
	return &amount, nil
}

// PlatformPoolPut stores the platform fee balance; zero clears it.
func (m *Manager) PlatformPoolPut(amount *big.Int) error {
	key := hashKey(platformPoolKey)
	if amount == nil || amount.Sign() == 0 {
		return m.db.Delete(key)
	}
	return m.putRLP(key, amount)
}
