package core

import (
	"math/big"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/hashtune/Hashtune-Marketplace-Chain/config"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/state"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
	"github.com/hashtune/Hashtune-Marketplace-Chain/native/artist"
	"github.com/hashtune/Hashtune-Marketplace-Chain/native/market"
	"github.com/hashtune/Hashtune-Marketplace-Chain/storage"
)

const eventBufferCap = 4096

var genesisDoneKey = []byte("genesis:done")

// vaultAddress is the internal holding account backing every pull-payment
// pool. No key exists for it; value only leaves through engine withdrawals.
func vaultAddress() [20]byte {
	var addr [20]byte
	copy(addr[:], ethcrypto.Keccak256([]byte("htn/market/settlement-vault"))[:20])
	return addr
}

type eventRecorder interface {
	Event() *types.Event
}

// Node serializes every public marketplace operation behind one mutex: the
// host's strict sequential schedule from which the engines derive their
// atomicity guarantees. It also buffers emitted events for RPC consumers.
type Node struct {
	mu      sync.Mutex
	db      storage.Database
	state   *state.Manager
	market  *market.Engine
	artists *artist.Engine

	events []*types.Event
}

// Emit implements events.Emitter by buffering the structured payload.
func (n *Node) Emit(evt events.Event) {
	rec, ok := evt.(eventRecorder)
	if !ok {
		return
	}
	payload := rec.Event()
	if payload == nil {
		return
	}
	if len(n.events) >= eventBufferCap {
		n.events = n.events[1:]
	}
	n.events = append(n.events, payload)
}

// NewNode wires the state manager and engines over the supplied database
// and applies genesis on first boot.
func NewNode(db storage.Database, cfg *config.Config) (*Node, error) {
	n := &Node{db: db, state: state.NewManager(db)}

	n.artists = artist.NewEngine()
	n.artists.SetState(n.state)
	n.artists.SetEmitter(n)

	n.market = market.NewEngine()
	n.market.SetState(n.state)
	n.market.SetAuthorizer(n.artists)
	n.market.SetEmitter(n)
	n.market.SetVault(vaultAddress())
	n.market.SetPlatformFeeBps(cfg.PlatformFeeBps)
	n.market.SetAuctionDuration(cfg.AuctionDurationSeconds)
	n.market.SetOpenSales(cfg.DirectSaleOpen)

	if err := n.applyGenesis(cfg); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) applyGenesis(cfg *config.Config) error {
	done, err := n.db.Has(genesisDoneKey)
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	alloc, err := cfg.Genesis()
	if err != nil {
		return err
	}
	for addr, amount := range alloc {
		account, err := n.state.GetAccount(addr.Bytes())
		if err != nil {
			return err
		}
		account.Balance = new(big.Int).Set(amount)
		if err := n.state.PutAccount(addr.Bytes(), account); err != nil {
			return err
		}
	}
	if admin, ok, err := cfg.Admin(); err != nil {
		return err
	} else if ok {
		if err := n.artists.InitializeAdmin(admin.Bytes()); err != nil {
			return err
		}
	}
	return n.db.Put(genesisDoneKey, []byte{1})
}

// SetNowFunc overrides the market engine's time source, for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.market.SetNowFunc(now)
}

// Events returns a copy of the buffered events.
func (n *Node) Events() []*types.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*types.Event, len(n.events))
	for i, evt := range n.events {
		out[i] = evt.Clone()
	}
	return out
}

// --- Access control operations ---

func (n *Node) ApproveArtist(caller crypto.Address, account crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.ApproveArtist(caller.Bytes(), account.Bytes())
}

func (n *Node) ApproveArtistBatch(caller crypto.Address, accounts []crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.ApproveArtistBatch(caller.Bytes(), addrBytes(accounts))
}

func (n *Node) RevokeArtistApproval(caller crypto.Address, account crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.RevokeArtistApproval(caller.Bytes(), account.Bytes())
}

func (n *Node) RevokeArtistBatchApproval(caller crypto.Address, accounts []crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.RevokeArtistBatchApproval(caller.Bytes(), addrBytes(accounts))
}

func (n *Node) TransferOwnership(caller crypto.Address, newAdmin crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.TransferOwnership(caller.Bytes(), newAdmin.Bytes())
}

func (n *Node) RenounceOwnership(caller crypto.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.RenounceOwnership(caller.Bytes())
}

func (n *Node) IsApprovedArtist(account crypto.Address) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.artists.IsApprovedArtist(account.Bytes())
}

func (n *Node) Admin() (crypto.Address, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	admin, ok, err := n.artists.Admin()
	if err != nil || !ok {
		return crypto.Address{}, false, err
	}
	return crypto.MustNewAddress(admin), true, nil
}

// --- Registry and direct sale operations ---

func (n *Node) CreateToken(caller crypto.Address, tokenID uint64, creators []crypto.Address, shares []uint16, status market.TokenStatus, content market.ContentPointer, price *big.Int, quantity uint64) (*market.Token, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Create(caller.Bytes(), tokenID, addrBytes(creators), shares, status, content, price, quantity)
}

func (n *Node) SetCurrentPrice(caller crypto.Address, price *big.Int, tokenID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.SetCurrentPrice(caller.Bytes(), price, tokenID)
}

func (n *Node) SetApprovalToBuy(caller crypto.Address, buyer crypto.Address, tokenID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.SetApprovalToBuy(caller.Bytes(), buyer.Bytes(), tokenID)
}

func (n *Node) Buy(caller crypto.Address, tokenID uint64, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Buy(caller.Bytes(), tokenID, amount)
}

// --- Auction operations ---

func (n *Node) StartAuction(caller crypto.Address, tokenID uint64, reserve *big.Int) (*market.Auction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.StartAuction(caller.Bytes(), tokenID, reserve)
}

func (n *Node) PlaceBid(caller crypto.Address, tokenID uint64, amount *big.Int) (*market.Auction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.PlaceBid(caller.Bytes(), tokenID, amount)
}

func (n *Node) EndAuction(caller crypto.Address, tokenID uint64) (*market.Auction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.EndAuction(caller.Bytes(), tokenID)
}

// --- Settlement pools ---

func (n *Node) WithdrawBidMoney(caller crypto.Address, tokenID uint64) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.WithdrawBidMoney(caller.Bytes(), tokenID)
}

func (n *Node) WithdrawRoyalties(caller crypto.Address) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.WithdrawRoyalties(caller.Bytes())
}

func (n *Node) WithdrawPlatformFees(caller crypto.Address) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.WithdrawPlatformFees(caller.Bytes())
}

// --- Metadata ---

func (n *Node) SetURI(caller crypto.Address, uri string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.SetBaseURI(caller.Bytes(), uri)
}

func (n *Node) ShowURI(tokenID uint64) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := n.market.Token(tokenID); err != nil {
		return "", err
	}
	return n.market.BaseURI()
}

// --- Queries ---

func (n *Node) Token(tokenID uint64) (*market.Token, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Token(tokenID)
}

func (n *Node) Auction(tokenID uint64) (*market.Auction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Auction(tokenID)
}

func (n *Node) BalanceOf(account crypto.Address, tokenID uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.BalanceOf(account.Bytes(), tokenID)
}

func (n *Node) BidPoolBalance(account crypto.Address, tokenID uint64, auctionNumber uint64) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.BidPoolBalance(account.Bytes(), tokenID, auctionNumber)
}

func (n *Node) RoyaltyBalance(account crypto.Address) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.RoyaltyBalance(account.Bytes())
}

func (n *Node) PlatformBalance() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.PlatformBalance()
}

func (n *Node) GetAccount(addr crypto.Address) (*types.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	account, err := n.state.GetAccount(addr.Bytes())
	if err != nil {
		return nil, err
	}
	return account.Clone(), nil
}

func addrBytes(addrs []crypto.Address) [][20]byte {
	out := make([][20]byte, len(addrs))
	for i, a := range addrs {
		out[i] = a.Bytes()
	}
	return out
}
