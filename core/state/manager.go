package state

import (
	"errors"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
	"github.com/hashtune/Hashtune-Marketplace-Chain/storage"
)

var (
	accountPrefix      = []byte("account:")
	tokenPrefix        = []byte("market:token:")
	tokenOwnerPrefix   = []byte("market:owner:")
	tokenBalancePrefix = []byte("market:balance:")
	auctionPrefix      = []byte("market:auction:")
	bidPoolPrefix      = []byte("market:bidpool:")
	royaltyPoolPrefix  = []byte("market:royalty:")
	platformPoolKey    = []byte("market:platformpool")
	adminKey           = []byte("artist:admin")
	artistPrefix       = []byte("artist:approved:")
)

// Manager persists every ledger record as an RLP-encoded value under a
// keccak-hashed, prefixed key. It implements the state interfaces of the
// artist and market engines.
type Manager struct {
	db storage.Database
}

// NewManager wraps the supplied key-value backend.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func hashKey(prefix []byte, parts ...[]byte) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, prefix...)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return ethcrypto.Keccak256(buf)
}

func uint64Key(v uint64) []byte {
	return new(big.Int).SetUint64(v).Bytes()
}

func (m *Manager) getRLP(key []byte, out interface{}) (bool, error) {
	raw, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) putRLP(key []byte, value interface{}) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(key, raw)
}

// --- Accounts ---

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

// GetAccount loads an account, returning a fresh zero-balance account when
// none is stored yet.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	var stored storedAccount
	ok, err := m.getRLP(hashKey(accountPrefix, addr[:]), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewAccount(), nil
	}
	balance := big.NewInt(0)
	if stored.Balance != nil {
		balance = new(big.Int).Set(stored.Balance)
	}
	return &types.Account{Nonce: stored.Nonce, Balance: balance}, nil
}

// PutAccount stores the account record.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		account = types.NewAccount()
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = account.Balance
	}
	return m.putRLP(hashKey(accountPrefix, addr[:]), &storedAccount{
		Nonce:   account.Nonce,
		Balance: balance,
	})
}
