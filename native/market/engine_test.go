package market

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
)

type mockState struct {
	tokens    map[uint64]*Token
	auctions  map[uint64]*Auction
	bidPools  map[string]*big.Int
	royalties map[[20]byte]*big.Int
	platform  *big.Int
	balances  map[string]uint64
	owners    map[uint64][20]byte
	accounts  map[[20]byte]*types.Account
	baseURI   string
	hasURI    bool
}

func newMockState() *mockState {
	return &mockState{
		tokens:    make(map[uint64]*Token),
		auctions:  make(map[uint64]*Auction),
		bidPools:  make(map[string]*big.Int),
		royalties: make(map[[20]byte]*big.Int),
		platform:  big.NewInt(0),
		balances:  make(map[string]uint64),
		owners:    make(map[uint64][20]byte),
		accounts:  make(map[[20]byte]*types.Account),
	}
}

func (m *mockState) TokenGet(id uint64) (*Token, bool, error) {
	token, ok := m.tokens[id]
	if !ok {
		return nil, false, nil
	}
	return token.Clone(), true, nil
}

func (m *mockState) TokenPut(token *Token) error {
	if token == nil {
		return nil
	}
	m.tokens[token.ID] = token.Clone()
	return nil
}

func (m *mockState) AuctionGet(tokenID uint64) (*Auction, bool, error) {
	auction, ok := m.auctions[tokenID]
	if !ok {
		return nil, false, nil
	}
	return auction.Clone(), true, nil
}

func (m *mockState) AuctionPut(auction *Auction) error {
	if auction == nil {
		return nil
	}
	m.auctions[auction.TokenID] = auction.Clone()
	return nil
}

func bidKey(tokenID, number uint64, bidder [20]byte) string {
	return fmt.Sprintf("%d:%d:%x", tokenID, number, bidder)
}

func (m *mockState) BidPoolGet(tokenID uint64, auctionNumber uint64, bidder [20]byte) (*big.Int, error) {
	entry, ok := m.bidPools[bidKey(tokenID, auctionNumber, bidder)]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(entry), nil
}

func (m *mockState) BidPoolPut(tokenID uint64, auctionNumber uint64, bidder [20]byte, amount *big.Int) error {
	key := bidKey(tokenID, auctionNumber, bidder)
	if amount == nil || amount.Sign() == 0 {
		delete(m.bidPools, key)
		return nil
	}
	m.bidPools[key] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) RoyaltyPoolGet(creator [20]byte) (*big.Int, error) {
	entry, ok := m.royalties[creator]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(entry), nil
}

func (m *mockState) RoyaltyPoolPut(creator [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		delete(m.royalties, creator)
		return nil
	}
	m.royalties[creator] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) PlatformPoolGet() (*big.Int, error) {
	return new(big.Int).Set(m.platform), nil
}

func (m *mockState) PlatformPoolPut(amount *big.Int) error {
	if amount == nil {
		m.platform = big.NewInt(0)
		return nil
	}
	m.platform = new(big.Int).Set(amount)
	return nil
}

func balanceKey(owner [20]byte, tokenID uint64) string {
	return fmt.Sprintf("%x:%d", owner, tokenID)
}

func (m *mockState) TokenBalanceGet(owner [20]byte, tokenID uint64) (uint64, error) {
	return m.balances[balanceKey(owner, tokenID)], nil
}

func (m *mockState) TokenBalanceTransfer(from [20]byte, to [20]byte, tokenID uint64, quantity uint64) error {
	fromKey := balanceKey(from, tokenID)
	if m.balances[fromKey] < quantity {
		return ErrInsufficientFunds
	}
	m.balances[fromKey] -= quantity
	m.balances[balanceKey(to, tokenID)] += quantity
	if m.balances[fromKey] == 0 {
		m.owners[tokenID] = to
	}
	return nil
}

func (m *mockState) TokenBalanceMint(owner [20]byte, tokenID uint64, quantity uint64) error {
	m.balances[balanceKey(owner, tokenID)] += quantity
	m.owners[tokenID] = owner
	return nil
}

func (m *mockState) TokenOwnerGet(tokenID uint64) ([20]byte, bool, error) {
	owner, ok := m.owners[tokenID]
	return owner, ok, nil
}

func (m *mockState) BaseURIGet() (string, bool, error) {
	return m.baseURI, m.hasURI, nil
}

func (m *mockState) BaseURIPut(uri string) error {
	m.baseURI = uri
	m.hasURI = true
	return nil
}

func (m *mockState) GetAccount(addr [20]byte) (*types.Account, error) {
	if acc, ok := m.accounts[addr]; ok && acc != nil {
		return acc.Clone(), nil
	}
	return types.NewAccount(), nil
}

func (m *mockState) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		delete(m.accounts, addr)
		return nil
	}
	m.accounts[addr] = account.Clone()
	return nil
}

func (m *mockState) setBalance(addr [20]byte, amount int64) {
	m.accounts[addr] = &types.Account{Balance: big.NewInt(amount)}
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	if acc, ok := m.accounts[addr]; ok && acc.Balance != nil {
		return new(big.Int).Set(acc.Balance)
	}
	return big.NewInt(0)
}

type mockAuth struct {
	admin   [20]byte
	artists map[[20]byte]bool
}

func newMockAuth(admin [20]byte) *mockAuth {
	return &mockAuth{admin: admin, artists: make(map[[20]byte]bool)}
}

func (m *mockAuth) IsAdmin(addr [20]byte) (bool, error) {
	return addr == m.admin, nil
}

func (m *mockAuth) IsApprovedArtist(addr [20]byte) (bool, error) {
	return m.artists[addr], nil
}

type captureEmitter struct {
	emitted []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.emitted = append(c.emitted, evt)
}

func (c *captureEmitter) last() events.Event {
	if len(c.emitted) == 0 {
		return nil
	}
	return c.emitted[len(c.emitted)-1]
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

const testAuctionDuration = int64(3600)

func newTestEngine(state *mockState, auth *mockAuth) (*Engine, *captureEmitter) {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetAuthorizer(auth)
	emitter := &captureEmitter{}
	engine.SetEmitter(emitter)
	engine.SetVault(addr(0xAA))
	engine.SetPlatformFeeBps(200)
	engine.SetAuctionDuration(testAuctionDuration)
	engine.SetNowFunc(func() int64 { return 1_000 })
	return engine, emitter
}

func mustCreate(t *testing.T, engine *Engine, state *mockState, auth *mockAuth, creator [20]byte, tokenID uint64, price int64) *Token {
	t.Helper()
	auth.artists[creator] = true
	token, err := engine.Create(creator, tokenID, [][20]byte{creator}, []uint16{10_000}, StatusForSale, ContentPointer{HashFunction: 0x12, Size: 512}, big.NewInt(price), 1)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return token
}

func TestCreateRequiresArtistOrAdmin(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)

	outsider := addr(0x02)
	_, err := engine.Create(outsider, 1, [][20]byte{outsider}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(10), 1)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized create, got %v", err)
	}

	if _, err := engine.Create(addr(0x01), 1, [][20]byte{addr(0x01)}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(10), 1); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestCreateValidatesRoyaltySplit(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	auth.artists[artist] = true

	cases := []struct {
		name     string
		creators [][20]byte
		shares   []uint16
	}{
		{"empty", nil, nil},
		{"length mismatch", [][20]byte{artist}, []uint16{5_000, 5_000}},
		{"sum below denominator", [][20]byte{artist, addr(0x03)}, []uint16{5_000, 4_000}},
		{"sum above denominator", [][20]byte{artist, addr(0x03)}, []uint16{6_000, 5_000}},
		{"duplicate creator", [][20]byte{artist, artist}, []uint16{5_000, 5_000}},
	}
	for _, tc := range cases {
		if _, err := engine.Create(artist, 1, tc.creators, tc.shares, StatusIdle, ContentPointer{}, big.NewInt(10), 1); !errors.Is(err, ErrInvalidRoyaltySplit) {
			t.Fatalf("%s: expected invalid split, got %v", tc.name, err)
		}
	}
}

func TestCreateRejectsBadInputs(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	auth.artists[artist] = true

	if _, err := engine.Create(artist, 1, [][20]byte{artist}, []uint16{10_000}, StatusInAuction, ContentPointer{}, big.NewInt(10), 1); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := engine.Create(artist, 1, [][20]byte{artist}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(10), 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := engine.Create(artist, 1, [][20]byte{artist}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(-5), 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid price, got %v", err)
	}

	if _, err := engine.Create(artist, 1, [][20]byte{artist}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(10), 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.Create(artist, 1, [][20]byte{artist}, []uint16{10_000}, StatusIdle, ContentPointer{}, big.NewInt(10), 1); !errors.Is(err, ErrTokenExists) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
}

func TestCreateMintsSupplyToCaller(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, emitter := newTestEngine(state, auth)
	artist := addr(0x02)

	token := mustCreate(t, engine, state, auth, artist, 7, 100)
	if token.Status != StatusForSale {
		t.Fatalf("unexpected status %v", token.Status)
	}
	balance, err := engine.BalanceOf(artist, 7)
	if err != nil {
		t.Fatalf("balance query: %v", err)
	}
	if balance != 1 {
		t.Fatalf("expected creator to hold the supply, got %d", balance)
	}
	created, ok := emitter.last().(events.TokenCreated)
	if !ok {
		t.Fatalf("expected TokenCreated event, got %T", emitter.last())
	}
	if created.TokenID != 7 || created.By != artist {
		t.Fatalf("unexpected event payload: %+v", created)
	}
}

func TestSetCurrentPriceOwnerGate(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	mustCreate(t, engine, state, auth, artist, 1, 100)

	if err := engine.SetCurrentPrice(addr(0x03), big.NewInt(50), 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected owner gate, got %v", err)
	}
	if err := engine.SetCurrentPrice(artist, big.NewInt(0), 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected positive price requirement, got %v", err)
	}
	if err := engine.SetCurrentPrice(artist, big.NewInt(50), 99); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected unknown token, got %v", err)
	}
	if err := engine.SetCurrentPrice(artist, big.NewInt(50), 1); err != nil {
		t.Fatalf("set price failed: %v", err)
	}
	token, err := engine.Token(1)
	if err != nil {
		t.Fatalf("token query: %v", err)
	}
	if token.CurrentPrice.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("price not updated: %s", token.CurrentPrice)
	}
}

func TestSetCurrentPriceClearsApprovalAndRelists(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	buyer := addr(0x03)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(buyer, 1_000)

	if err := engine.SetApprovalToBuy(artist, buyer, 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.SetCurrentPrice(artist, big.NewInt(120), 1); err != nil {
		t.Fatalf("set price: %v", err)
	}
	// The approval was issued against the old price, so it no longer stands.
	if err := engine.Buy(buyer, 1, big.NewInt(120)); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected stale approval to be cleared, got %v", err)
	}

	// An idle token becomes purchasable again once a price is listed.
	state.setBalance(buyer, 1_000)
	if err := engine.SetApprovalToBuy(artist, buyer, 1); err != nil {
		t.Fatalf("re-approve buyer: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(120)); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	token, err := engine.Token(1)
	if err != nil {
		t.Fatalf("token query: %v", err)
	}
	if token.Status != StatusIdle {
		t.Fatalf("expected idle after sale, got %v", token.Status)
	}
	if err := engine.SetCurrentPrice(buyer, big.NewInt(300), 1); err != nil {
		t.Fatalf("relist failed: %v", err)
	}
	token, err = engine.Token(1)
	if err != nil {
		t.Fatalf("token query: %v", err)
	}
	if token.Status != StatusForSale {
		t.Fatalf("expected relisted token for sale, got %v", token.Status)
	}
}

func TestBuyRequiresExactAmountAndApproval(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	buyer := addr(0x03)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(buyer, 1_000)

	if err := engine.Buy(buyer, 1, big.NewInt(100)); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected approval gate, got %v", err)
	}
	if err := engine.SetApprovalToBuy(artist, buyer, 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(99)); !errors.Is(err, ErrIncorrectAmount) {
		t.Fatalf("expected exact amount below, got %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(101)); !errors.Is(err, ErrIncorrectAmount) {
		t.Fatalf("expected exact amount above, got %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(100)); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(100)); !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected sold token off sale, got %v", err)
	}
}

func TestBuyApprovalForOtherBuyerRejected(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(addr(0x04), 1_000)

	if err := engine.SetApprovalToBuy(artist, addr(0x03), 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.Buy(addr(0x04), 1, big.NewInt(100)); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected approval mismatch, got %v", err)
	}
}

func TestBuyOpenSalesSkipsApproval(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	engine.SetOpenSales(true)
	artist := addr(0x02)
	buyer := addr(0x03)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(buyer, 1_000)

	if err := engine.Buy(buyer, 1, big.NewInt(100)); err != nil {
		t.Fatalf("open sale failed: %v", err)
	}
	balance, err := engine.BalanceOf(buyer, 1)
	if err != nil {
		t.Fatalf("balance query: %v", err)
	}
	if balance != 1 {
		t.Fatalf("buyer does not own the token")
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	artist := addr(0x02)
	buyer := addr(0x03)
	mustCreate(t, engine, state, auth, artist, 1, 100)
	state.setBalance(buyer, 99)

	if err := engine.SetApprovalToBuy(artist, buyer, 1); err != nil {
		t.Fatalf("approve buyer: %v", err)
	}
	if err := engine.Buy(buyer, 1, big.NewInt(100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestBuySettlementSplitsValueExactly(t *testing.T) {
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

	// Fee 2% of 100 = 2, remainder 98. Y accrues floor(98*10%) = 9, the
	// seller's push absorbs the truncation dust: 98 - 9 = 89.
	if got := state.balance(buyer); got.Sign() != 0 {
		t.Fatalf("buyer balance not drained: %s", got)
	}
	if got := state.balance(sellerX); got.Cmp(big.NewInt(89)) != 0 {
		t.Fatalf("seller proceeds mismatch: %s", got)
	}
	royaltyY, err := engine.RoyaltyBalance(creatorY)
	if err != nil {
		t.Fatalf("royalty query: %v", err)
	}
	if royaltyY.Cmp(big.NewInt(9)) != 0 {
		t.Fatalf("royalty pool mismatch: %s", royaltyY)
	}
	platform, err := engine.PlatformBalance()
	if err != nil {
		t.Fatalf("platform query: %v", err)
	}
	if platform.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("platform pool mismatch: %s", platform)
	}
	// The vault backs exactly the two outstanding pools.
	if got := state.balance(addr(0xAA)); got.Cmp(big.NewInt(11)) != 0 {
		t.Fatalf("vault backing mismatch: %s", got)
	}
}

func TestBuySoleCreatorSellerKeepsRemainder(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
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
	if got := state.balance(artist); got.Cmp(big.NewInt(98)) != 0 {
		t.Fatalf("sole creator proceeds mismatch: %s", got)
	}
	platform, err := engine.PlatformBalance()
	if err != nil {
		t.Fatalf("platform query: %v", err)
	}
	if platform.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("platform pool mismatch: %s", platform)
	}
}

func TestRoyaltiesFollowOriginalCreatorsOnResale(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)
	sellerX := addr(0x02)
	creatorY := addr(0x03)
	buyer := addr(0x04)
	second := addr(0x05)
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
		t.Fatalf("first sale failed: %v", err)
	}

	// Resale by a non-creator owner: both original creators accrue
	// royalties, the seller takes the rest.
	if err := engine.SetCurrentPrice(buyer, big.NewInt(200), 1); err != nil {
		t.Fatalf("relist failed: %v", err)
	}
	state.setBalance(second, 200)
	if err := engine.SetApprovalToBuy(buyer, second, 1); err != nil {
		t.Fatalf("approve second buyer: %v", err)
	}
	if err := engine.Buy(second, 1, big.NewInt(200)); err != nil {
		t.Fatalf("resale failed: %v", err)
	}

	// Fee 4, remainder 196. X accrues floor(196*90%) = 176, Y accrues
	// floor(196*10%) = 19, the reseller keeps 196-176-19 = 1.
	royaltyX, err := engine.RoyaltyBalance(sellerX)
	if err != nil {
		t.Fatalf("royalty query: %v", err)
	}
	if royaltyX.Cmp(big.NewInt(176)) != 0 {
		t.Fatalf("creator X royalty mismatch: %s", royaltyX)
	}
	royaltyY, err := engine.RoyaltyBalance(creatorY)
	if err != nil {
		t.Fatalf("royalty query: %v", err)
	}
	if royaltyY.Cmp(big.NewInt(9+19)) != 0 {
		t.Fatalf("creator Y royalty mismatch: %s", royaltyY)
	}
	if got := state.balance(buyer); got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("reseller proceeds mismatch: %s", got)
	}
}

func TestSetBaseURIAdminOnly(t *testing.T) {
	state := newMockState()
	auth := newMockAuth(addr(0x01))
	engine, _ := newTestEngine(state, auth)

	if err := engine.SetBaseURI(addr(0x02), "ipfs://base/"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected admin gate, got %v", err)
	}
	if err := engine.SetBaseURI(addr(0x01), "  ipfs://base/  "); err != nil {
		t.Fatalf("set base URI: %v", err)
	}
	uri, err := engine.BaseURI()
	if err != nil {
		t.Fatalf("base URI query: %v", err)
	}
	if uri != "ipfs://base/" {
		t.Fatalf("unexpected base URI %q", uri)
	}
}
