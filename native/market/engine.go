package market

import (
	"errors"
	"math/big"
	"time"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
)

var errVaultNotSet = errors.New("market engine: settlement vault not configured")

type engineState interface {
	TokenGet(id uint64) (*Token, bool, error)
	TokenPut(token *Token) error
	AuctionGet(tokenID uint64) (*Auction, bool, error)
	AuctionPut(auction *Auction) error
	BidPoolGet(tokenID uint64, auctionNumber uint64, bidder [20]byte) (*big.Int, error)
	BidPoolPut(tokenID uint64, auctionNumber uint64, bidder [20]byte, amount *big.Int) error
	RoyaltyPoolGet(creator [20]byte) (*big.Int, error)
	RoyaltyPoolPut(creator [20]byte, amount *big.Int) error
	PlatformPoolGet() (*big.Int, error)
	PlatformPoolPut(amount *big.Int) error
	TokenBalanceGet(owner [20]byte, tokenID uint64) (uint64, error)
	TokenBalanceTransfer(from [20]byte, to [20]byte, tokenID uint64, quantity uint64) error
	TokenBalanceMint(owner [20]byte, tokenID uint64, quantity uint64) error
	TokenOwnerGet(tokenID uint64) ([20]byte, bool, error)
	BaseURIGet() (string, bool, error)
	BaseURIPut(uri string) error
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// roleAuthorizer answers the role questions the market engine needs from
// access control. *artist.Engine satisfies it.
type roleAuthorizer interface {
	IsAdmin(addr [20]byte) (bool, error)
	IsApprovedArtist(addr [20]byte) (bool, error)
}

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

// Engine wires the marketplace settlement logic with persistence, access
// control and event emission. Every public operation is a pure function of
// (state, caller, args): it either commits fully or leaves state untouched.
type Engine struct {
	state           engineState
	auth            roleAuthorizer
	emitter         events.Emitter
	nowFn           func() int64
	vault           [20]byte
	platformFeeBps  uint32
	auctionDuration int64
	openSales       bool
}

// NewEngine constructs a market engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAuthorizer configures the access-control backend used for create.
func (e *Engine) SetAuthorizer(auth roleAuthorizer) { e.auth = auth }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetVault configures the holding account that backs the bid, royalty and
// platform pools.
func (e *Engine) SetVault(addr [20]byte) { e.vault = addr }

// SetPlatformFeeBps configures the platform's cut of every settlement in
// basis points.
func (e *Engine) SetPlatformFeeBps(bps uint32) { e.platformFeeBps = bps }

// SetAuctionDuration configures the time box, in seconds, that starts with
// the first qualifying bid of a reserve-priced auction.
func (e *Engine) SetAuctionDuration(seconds int64) { e.auctionDuration = seconds }

// SetOpenSales configures whether buy is open to anyone while no approval
// stands. When false an explicit approval is always required.
func (e *Engine) SetOpenSales(open bool) { e.openSales = open }

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if isZeroAddr(e.vault) {
		return errVaultNotSet
	}
	return nil
}

func isZeroAddr(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return types.NewAccount()
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// isSoleOwner reports whether the account holds the token's entire supply.
// Both the sale and auction engines gate owner operations through this one
// capability check.
func (e *Engine) isSoleOwner(account [20]byte, token *Token) (bool, error) {
	if token == nil || token.TotalSupply == 0 {
		return false, nil
	}
	balance, err := e.state.TokenBalanceGet(account, token.ID)
	if err != nil {
		return false, err
	}
	return balance == token.TotalSupply, nil
}

// transferValue moves spendable balance between accounts.
func (e *Engine) transferValue(from [20]byte, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	fromAcc, err := e.state.GetAccount(from)
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	if fromAcc.Balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amount)
	if err := e.state.PutAccount(from, fromAcc); err != nil {
		return err
	}
	toAcc, err := e.state.GetAccount(to)
	if err != nil {
		return err
	}
	toAcc = ensureAccount(toAcc)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amount)
	return e.state.PutAccount(to, toAcc)
}

// creditPools applies a settlement's pool side: the platform fee and the
// non-seller creators' royalty accruals. The backing value must already sit
// in the vault.
func (e *Engine) creditPools(s *Settlement) error {
	if s.Fee.Sign() > 0 {
		pool, err := e.state.PlatformPoolGet()
		if err != nil {
			return err
		}
		if err := e.state.PlatformPoolPut(new(big.Int).Add(cloneBigInt(pool), s.Fee)); err != nil {
			return err
		}
	}
	for _, payout := range s.CreatorPayouts {
		pool, err := e.state.RoyaltyPoolGet(payout.Creator)
		if err != nil {
			return err
		}
		if err := e.state.RoyaltyPoolPut(payout.Creator, new(big.Int).Add(cloneBigInt(pool), payout.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// Create registers a new token, validates its royalty split and mints the
// full supply to the caller.
func (e *Engine) Create(caller [20]byte, tokenID uint64, creators [][20]byte, shares []uint16, status TokenStatus, content ContentPointer, price *big.Int, quantity uint64) (*Token, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.auth == nil {
		return nil, errNilAuth
	}
	isArtist, err := e.auth.IsApprovedArtist(caller)
	if err != nil {
		return nil, err
	}
	if !isArtist {
		isAdmin, err := e.auth.IsAdmin(caller)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, ErrUnauthorized
		}
	}
	if err := validateRoyaltySplit(creators, shares); err != nil {
		return nil, err
	}
	if !status.Valid() || status == StatusInAuction {
		return nil, ErrInvalidStatus
	}
	if quantity == 0 {
		return nil, ErrInvalidAmount
	}
	if price == nil || price.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if _, exists, err := e.state.TokenGet(tokenID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrTokenExists
	}
	token := &Token{
		ID:            tokenID,
		Creators:      append([][20]byte(nil), creators...),
		RoyaltyShares: append([]uint16(nil), shares...),
		Status:        status,
		CurrentPrice:  cloneBigInt(price),
		Content:       content,
		TotalSupply:   quantity,
		CreatedAt:     e.now(),
	}
	if err := e.state.TokenPut(token); err != nil {
		return nil, err
	}
	if err := e.state.TokenBalanceMint(caller, tokenID, quantity); err != nil {
		return nil, err
	}
	e.emit(events.TokenCreated{
		By:            caller,
		TokenID:       tokenID,
		Creators:      token.Creators,
		RoyaltyShares: token.RoyaltyShares,
		Status:        uint8(status),
		ContentDigest: content.Digest,
		HashFunction:  content.HashFunction,
		Size:          content.Size,
	})
	return token.Clone(), nil
}

// SetCurrentPrice updates the direct-sale price. A price change invalidates
// any standing approval, and listing a price moves an idle token back into
// the for-sale state.
func (e *Engine) SetCurrentPrice(caller [20]byte, price *big.Int, tokenID uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if price == nil || price.Sign() <= 0 {
		return ErrInvalidAmount
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	owner, err := e.isSoleOwner(caller, token)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotOwner
	}
	if token.Status == StatusInAuction {
		return ErrAuctionInProgress
	}
	token.CurrentPrice = cloneBigInt(price)
	token.HasApproval = false
	token.ApprovedBuyer = [20]byte{}
	if token.Status == StatusIdle {
		token.Status = StatusForSale
	}
	if err := e.state.TokenPut(token); err != nil {
		return err
	}
	e.emit(events.NewPrice{SetBy: caller, NewPrice: token.CurrentPrice, TokenID: tokenID})
	return nil
}

// SetApprovalToBuy records the single approved buyer for the token,
// replacing any earlier approval.
func (e *Engine) SetApprovalToBuy(caller [20]byte, buyer [20]byte, tokenID uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	owner, err := e.isSoleOwner(caller, token)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotOwner
	}
	token.ApprovedBuyer = buyer
	token.HasApproval = true
	return e.state.TokenPut(token)
}

// Buy performs the approval-gated direct sale: exact payment, atomic token
// transfer and settlement split.
func (e *Engine) Buy(caller [20]byte, tokenID uint64, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	if token.Status != StatusForSale {
		return ErrNotForSale
	}
	if token.HasApproval {
		if token.ApprovedBuyer != caller {
			return ErrNotApproved
		}
	} else if !e.openSales {
		return ErrNotApproved
	}
	if amount == nil || token.CurrentPrice == nil || amount.Cmp(token.CurrentPrice) != 0 {
		return ErrIncorrectAmount
	}
	seller, err := e.currentOwner(token)
	if err != nil {
		return err
	}
	buyerAcc, err := e.state.GetAccount(caller)
	if err != nil {
		return err
	}
	buyerAcc = ensureAccount(buyerAcc)
	if buyerAcc.Balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	s := splitSettlement(amount, e.platformFeeBps, token.Creators, token.RoyaltyShares, seller)

	// Commit order: pool bookkeeping and ownership first, then the pushes.
	// The seller is the authenticated counterparty of this sale, every
	// other recipient goes through a pull pool.
	buyerAcc.Balance = new(big.Int).Sub(buyerAcc.Balance, amount)
	if err := e.state.PutAccount(caller, buyerAcc); err != nil {
		return err
	}
	vaultAcc, err := e.state.GetAccount(e.vault)
	if err != nil {
		return err
	}
	vaultAcc = ensureAccount(vaultAcc)
	vaultAcc.Balance = new(big.Int).Add(vaultAcc.Balance, new(big.Int).Sub(amount, s.SellerProceeds))
	if err := e.state.PutAccount(e.vault, vaultAcc); err != nil {
		return err
	}
	if err := e.creditPools(s); err != nil {
		return err
	}
	if err := e.state.TokenBalanceTransfer(seller, caller, tokenID, token.TotalSupply); err != nil {
		return err
	}
	if s.SellerProceeds.Sign() > 0 {
		sellerAcc, err := e.state.GetAccount(seller)
		if err != nil {
			return err
		}
		sellerAcc = ensureAccount(sellerAcc)
		sellerAcc.Balance = new(big.Int).Add(sellerAcc.Balance, s.SellerProceeds)
		if err := e.state.PutAccount(seller, sellerAcc); err != nil {
			return err
		}
	}
	token.Status = StatusIdle
	token.HasApproval = false
	token.ApprovedBuyer = [20]byte{}
	if err := e.state.TokenPut(token); err != nil {
		return err
	}
	e.emit(events.TokenPurchased{By: caller, TokenID: tokenID})
	return nil
}

// currentOwner resolves the account holding the token's full supply.
func (e *Engine) currentOwner(token *Token) ([20]byte, error) {
	owner, ok, err := e.state.TokenOwnerGet(token.ID)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, ErrTokenNotFound
	}
	return owner, nil
}

// Token returns the registry record for the id without mutating state.
func (e *Engine) Token(tokenID uint64) (*Token, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	token, ok, err := e.state.TokenGet(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	return token.Clone(), nil
}

// BalanceOf returns the quantity of the token held by the account.
func (e *Engine) BalanceOf(account [20]byte, tokenID uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.TokenBalanceGet(account, tokenID)
}
