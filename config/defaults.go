package config

import "time"

// Well-known objects of the liquid staking pool deployment.
const (
	DefaultBaseToken   = "0x2::iota::IOTA"
	DefaultPoolPackage = "0xd282b91f8e6dc8ca5b381d22754d5423e9049851a0f6777240c3be2b3b2bb7a7"
	DefaultCertOrigin  = "0x346778989a9f57480ec3fee15f2cd68409c73a62112d40a3efd13987997be68c"
	DefaultPool        = "0x02d641d7b021b1cd7a2c361ac35b415ae8263be0641f9475ec32af4b9d8a8056"
	DefaultMetadata    = "0x8c25ec843c12fbfddc7e25d66869f8639e20021758cac1a3db0f6de3c9fda2ed"
	DefaultSystemState = "0x5"

	// Decimals of the native token; one whole unit is 10^9 base units.
	BaseDecimals = 9
	OneUnit      = 1_000_000_000
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			URL:     "https://api.mainnet.iota.cafe",
			Timeout: 10 * time.Second,
		},
		Signer: SignerConfig{
			URL:     "http://127.0.0.1:9650",
			Timeout: 2 * time.Minute, // The user confirms in the wallet.
		},
		Tokens: TokenConfig{
			Base:         DefaultBaseToken,
			BaseDecimals: BaseDecimals,
			Cert:         DefaultCertOrigin + "::cert::CERT",
			CertDecimals: BaseDecimals,
		},
		Gas: GasConfig{
			MinReserve: 1_000_000,      // 0.001 IOTA
			MaxBudget:  50_000_000_000, // Network-enforced upper bound.
		},
		Staking: StakingConfig{
			Package:     DefaultPoolPackage,
			Module:      "native_pool",
			Pool:        DefaultPool,
			Metadata:    DefaultMetadata,
			SystemState: DefaultSystemState,
			MinAmount:   OneUnit,
		},
		Catalog: CatalogConfig{
			PageLimit: 100,
			MaxPages:  500,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.URL = "https://api.testnet.iota.cafe"
	return cfg
}

// DefaultDevnet returns the default configuration for devnet.
func DefaultDevnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Devnet
	cfg.RPC.URL = "https://api.devnet.iota.cafe"
	return cfg
}

// Default returns the default configuration for the given network.
// Unknown networks fall back to testnet, the dapp's default.
func Default(network NetworkType) *Config {
	switch network {
	case Mainnet:
		return DefaultMainnet()
	case Devnet:
		return DefaultDevnet()
	default:
		return DefaultTestnet()
	}
}
