package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
)

const (
	defaultRPCAddress      = ":8645"
	defaultDataDir         = "./htn-data"
	defaultNetworkName     = "htn-local"
	defaultPlatformFeeBps  = 200
	defaultAuctionDuration = 86_400
)

// Config carries everything the node daemon needs to boot.
type Config struct {
	RPCAddress             string            `toml:"RPCAddress"`
	DataDir                string            `toml:"DataDir"`
	NetworkName            string            `toml:"NetworkName"`
	PlatformFeeBps         uint32            `toml:"PlatformFeeBps"`
	AuctionDurationSeconds int64             `toml:"AuctionDurationSeconds"`
	DirectSaleOpen         bool              `toml:"DirectSaleOpen"`
	AdminAddress           string            `toml:"AdminAddress"`
	LogFile                string            `toml:"LogFile"`
	GenesisAlloc           map[string]string `toml:"GenesisAlloc"`
}

// Load reads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = defaultRPCAddress
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = defaultNetworkName
	}
	if c.AuctionDurationSeconds == 0 {
		c.AuctionDurationSeconds = defaultAuctionDuration
	}
	if c.GenesisAlloc == nil {
		c.GenesisAlloc = map[string]string{}
	}
}

// Validate checks the configuration invariants the engines rely on.
func (c *Config) Validate() error {
	if c.PlatformFeeBps > 10_000 {
		return fmt.Errorf("config: PlatformFeeBps %d exceeds 10000", c.PlatformFeeBps)
	}
	if c.AuctionDurationSeconds <= 0 {
		return fmt.Errorf("config: AuctionDurationSeconds must be positive")
	}
	if strings.TrimSpace(c.AdminAddress) != "" {
		if _, err := crypto.DecodeAddress(c.AdminAddress); err != nil {
			return fmt.Errorf("config: invalid AdminAddress: %w", err)
		}
	}
	for addr, amount := range c.GenesisAlloc {
		if _, err := crypto.DecodeAddress(addr); err != nil {
			return fmt.Errorf("config: invalid genesis address %q: %w", addr, err)
		}
		if _, ok := new(big.Int).SetString(amount, 10); !ok {
			return fmt.Errorf("config: invalid genesis amount %q for %s", amount, addr)
		}
	}
	return nil
}

// Admin returns the decoded administrator address and whether one is
// configured.
func (c *Config) Admin() (crypto.Address, bool, error) {
	if strings.TrimSpace(c.AdminAddress) == "" {
		return crypto.Address{}, false, nil
	}
	addr, err := crypto.DecodeAddress(c.AdminAddress)
	if err != nil {
		return crypto.Address{}, false, err
	}
	return addr, true, nil
}

// Genesis returns the decoded genesis allocation table.
func (c *Config) Genesis() (map[crypto.Address]*big.Int, error) {
	alloc := make(map[crypto.Address]*big.Int, len(c.GenesisAlloc))
	for addrStr, amountStr := range c.GenesisAlloc {
		addr, err := crypto.DecodeAddress(addrStr)
		if err != nil {
			return nil, err
		}
		amount, ok := new(big.Int).SetString(amountStr, 10)
		if !ok || amount.Sign() < 0 {
			return nil, fmt.Errorf("config: invalid genesis amount %q", amountStr)
		}
		alloc[addr] = amount
	}
	return alloc, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:             defaultRPCAddress,
		DataDir:                defaultDataDir,
		NetworkName:            defaultNetworkName,
		PlatformFeeBps:         defaultPlatformFeeBps,
		AuctionDurationSeconds: defaultAuctionDuration,
		GenesisAlloc:           map[string]string{},
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
