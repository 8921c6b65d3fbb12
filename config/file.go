package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SWIRL_RPC_URL.
const EnvPrefix = "SWIRL"

// Load builds the configuration from defaults, an optional config file and
// SWIRL_* environment variables, in increasing order of precedence. A
// non-empty network overrides whatever the file or environment selects.
// An empty path skips the file; a missing explicit file is an error.
func Load(path string, network NetworkType) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if network == "" {
		network = NetworkType(v.GetString("network"))
	}
	cfg := Default(network)
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if network != "" {
		cfg.Network = network
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the file does not mention the key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("network", string(cfg.Network))
	v.SetDefault("datadir", cfg.DataDir)

	v.SetDefault("rpc.url", cfg.RPC.URL)
	v.SetDefault("rpc.timeout", cfg.RPC.Timeout)
	v.SetDefault("signer.url", cfg.Signer.URL)
	v.SetDefault("signer.timeout", cfg.Signer.Timeout)

	v.SetDefault("tokens.base", cfg.Tokens.Base)
	v.SetDefault("tokens.base_decimals", cfg.Tokens.BaseDecimals)
	v.SetDefault("tokens.cert", cfg.Tokens.Cert)
	v.SetDefault("tokens.cert_decimals", cfg.Tokens.CertDecimals)

	v.SetDefault("gas.min_reserve", cfg.Gas.MinReserve)
	v.SetDefault("gas.max_budget", cfg.Gas.MaxBudget)

	v.SetDefault("staking.package", cfg.Staking.Package)
	v.SetDefault("staking.module", cfg.Staking.Module)
	v.SetDefault("staking.pool", cfg.Staking.Pool)
	v.SetDefault("staking.metadata", cfg.Staking.Metadata)
	v.SetDefault("staking.system_state", cfg.Staking.SystemState)
	v.SetDefault("staking.min_amount", cfg.Staking.MinAmount)

	v.SetDefault("catalog.page_limit", cfg.Catalog.PageLimit)
	v.SetDefault("catalog.max_pages", cfg.Catalog.MaxPages)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.json", cfg.Log.JSON)
}
