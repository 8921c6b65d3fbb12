package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// maxTokenDecimals bounds registry decimals to what the unit converter is
// exercised against.
const maxTokenDecimals = 18

// Validate checks the configuration for operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Mainnet, Testnet, Devnet:
	default:
		return fmt.Errorf("network must be %q, %q or %q", Mainnet, Testnet, Devnet)
	}
	if err := validateURL("rpc.url", cfg.RPC.URL); err != nil {
		return err
	}
	if err := validateURL("signer.url", cfg.Signer.URL); err != nil {
		return err
	}

	if err := validateTokenType("tokens.base", cfg.Tokens.Base); err != nil {
		return err
	}
	if err := validateTokenType("tokens.cert", cfg.Tokens.Cert); err != nil {
		return err
	}
	if types.TokenType(cfg.Tokens.Base).Equal(types.TokenType(cfg.Tokens.Cert)) {
		return fmt.Errorf("tokens.cert must differ from tokens.base")
	}
	for name, d := range map[string]int{
		"tokens.base_decimals": cfg.Tokens.BaseDecimals,
		"tokens.cert_decimals": cfg.Tokens.CertDecimals,
	} {
		if d < 0 || d > maxTokenDecimals {
			return fmt.Errorf("%s must be in range [0, %d]", name, maxTokenDecimals)
		}
	}

	if cfg.Gas.MinReserve == 0 {
		return fmt.Errorf("gas.min_reserve must be positive")
	}
	if cfg.Gas.MaxBudget < cfg.Gas.MinReserve {
		return fmt.Errorf("gas.max_budget (%d) must be >= gas.min_reserve (%d)", cfg.Gas.MaxBudget, cfg.Gas.MinReserve)
	}

	if _, err := cfg.Staking.Objects(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Staking.Module) == "" {
		return fmt.Errorf("staking.module is empty")
	}
	if cfg.Staking.MinAmount == 0 {
		return fmt.Errorf("staking.min_amount must be positive")
	}

	if cfg.Catalog.PageLimit <= 0 {
		return fmt.Errorf("catalog.page_limit must be positive")
	}
	if cfg.Catalog.MaxPages <= 0 {
		return fmt.Errorf("catalog.max_pages must be positive")
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	return nil
}

func validateTokenType(field, raw string) error {
	parts := strings.Split(raw, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return fmt.Errorf("%s %q must look like <address>::<module>::<name>", field, raw)
	}
	if _, err := types.ParseAddress(parts[0]); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
