// Package config handles engine configuration.
//
// Configuration covers network endpoints, the token registry, gas safety
// constants and the staking pool objects. Nothing here is protocol state;
// it is static configuration the operator may override per deployment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// NetworkType identifies the ledger network.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Devnet  NetworkType = "devnet"
)

// ChainID returns the wallet-standard chain identifier, e.g. "iota:testnet".
func (n NetworkType) ChainID() string {
	return "iota:" + string(n)
}

// Config holds the full engine configuration.
type Config struct {
	Network NetworkType `mapstructure:"network"`
	DataDir string      `mapstructure:"datadir"`

	RPC     RPCConfig     `mapstructure:"rpc"`
	Signer  SignerConfig  `mapstructure:"signer"`
	Tokens  TokenConfig   `mapstructure:"tokens"`
	Gas     GasConfig     `mapstructure:"gas"`
	Staking StakingConfig `mapstructure:"staking"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Journal JournalConfig `mapstructure:"journal"`
	Log     LogConfig     `mapstructure:"log"`
}

// RPCConfig points at the ledger full node.
type RPCConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SignerConfig points at the external signer bridge.
type SignerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TokenConfig is the static token registry.
type TokenConfig struct {
	Base         string `mapstructure:"base"` // Fee-paying native token.
	BaseDecimals int    `mapstructure:"base_decimals"`
	Cert         string `mapstructure:"cert"` // Liquid staking certificate.
	CertDecimals int    `mapstructure:"cert_decimals"`
}

// GasConfig holds fee safety constants, in base units.
type GasConfig struct {
	// MinReserve is the smallest balance the gas coin may be left with after
	// a base-token spend. It doubles as the minimum explicit gas budget.
	MinReserve uint64 `mapstructure:"min_reserve"`
	// MaxBudget caps any explicit gas budget.
	MaxBudget uint64 `mapstructure:"max_budget"`
}

// StakingConfig names the liquid staking pool objects.
type StakingConfig struct {
	Package     string `mapstructure:"package"`
	Module      string `mapstructure:"module"`
	Pool        string `mapstructure:"pool"`
	Metadata    string `mapstructure:"metadata"`
	SystemState string `mapstructure:"system_state"`
	// MinAmount is the smallest stake or unstake amount, in base units.
	MinAmount uint64 `mapstructure:"min_amount"`
}

// StakingObjects is StakingConfig with ids parsed.
type StakingObjects struct {
	Package     types.ObjectID
	Module      string
	Pool        types.ObjectID
	Metadata    types.ObjectID
	SystemState types.ObjectID
}

// Objects parses the configured staking object ids.
func (s StakingConfig) Objects() (StakingObjects, error) {
	var out StakingObjects
	fields := []struct {
		name string
		raw  string
		dst  *types.ObjectID
	}{
		{"staking.package", s.Package, &out.Package},
		{"staking.pool", s.Pool, &out.Pool},
		{"staking.metadata", s.Metadata, &out.Metadata},
		{"staking.system_state", s.SystemState, &out.SystemState},
	}
	for _, f := range fields {
		id, err := types.ParseAddress(f.raw)
		if err != nil {
			return StakingObjects{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = id
	}
	out.Module = s.Module
	return out, nil
}

// CatalogConfig bounds coin listing.
type CatalogConfig struct {
	PageLimit int `mapstructure:"page_limit"`
	MaxPages  int `mapstructure:"max_pages"`
}

// JournalConfig controls the local record of executed transactions.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// ExplorerURL returns the block explorer link for a transaction digest.
func (c *Config) ExplorerURL(digest string) string {
	return fmt.Sprintf("https://iotascan.com/%s/tx/%s", c.Network, digest)
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.swirl
//	macOS:   ~/Library/Application Support/Swirl
//	Windows: %APPDATA%\Swirl
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swirl"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Swirl")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Swirl")
		}
		return filepath.Join(home, "AppData", "Roaming", "Swirl")
	default:
		return filepath.Join(home, ".swirl")
	}
}

// JournalDir returns the journal database directory for the active network.
func (c *Config) JournalDir() string {
	return filepath.Join(c.DataDir, string(c.Network), "journal")
}

// ConfigFile returns the default config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "swirl.yaml")
}
