package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"suiworld-swap/pkg/chainrpc"
	"suiworld-swap/pkg/treasury"
	"suiworld-swap/pkg/wallet"
)

// Config holds the application configuration
type Config struct {
	RPCURL       string
	RPCTimeout   time.Duration
	RPCRateLimit float64

	PackageID  string
	PoolID     string
	ServiceKey string

	FeeBps             uint64
	GasBudgetSplit     uint64
	GasBudgetSwap      uint64
	GasCushion         uint64
	CoinPageSize       int
	QuoteTTL           time.Duration
	DefaultSlippageBps uint64

	TreasuryAddresses map[string]string
	TreasuryBalances  map[string]string
	PricesUSD         map[string]string
	ETHRPCURL         string

	ListenAddr string
	LogLevel   string
	LogFormat  string
}

var globalConfig *Config

var defaults = map[string]interface{}{
	"sui_rpc_url":          "https://fullnode.devnet.sui.io:443",
	"rpc_timeout":          "15s",
	"rpc_rate_limit":       0,
	"swap_fee_bps":         30,
	"gas_budget_split":     2_000_000,
	"gas_budget_swap":      5_000_000,
	"gas_cushion":          500_000,
	"coin_page_size":       200,
	"quote_ttl":            "30s",
	"default_slippage_bps": 30,
	"swt_price_usd":        "0.001",
	"sui_price_usd":        "3.66",
	"btc_price_usd":        "155500",
	"eth_price_usd":        "4500",
	"listen_addr":          ":8080",
	"log_level":            "info",
	"log_format":           "text",
}

// Load reads configuration from environment variables and the optional
// .suiworld-swap.yaml file in $HOME or the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".suiworld-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// FromViper builds a Config from v, applying defaults and environment
// overrides.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		RPCURL:             strings.TrimSpace(v.GetString("sui_rpc_url")),
		RPCTimeout:         v.GetDuration("rpc_timeout"),
		RPCRateLimit:       v.GetFloat64("rpc_rate_limit"),
		PackageID:          strings.TrimSpace(v.GetString("suiworld_package_id")),
		PoolID:             strings.TrimSpace(v.GetString("suiworld_swap_pool_id")),
		ServiceKey:         strings.TrimSpace(v.GetString("suiworld_service_key")),
		FeeBps:             v.GetUint64("swap_fee_bps"),
		GasBudgetSplit:     v.GetUint64("gas_budget_split"),
		GasBudgetSwap:      v.GetUint64("gas_budget_swap"),
		GasCushion:         v.GetUint64("gas_cushion"),
		CoinPageSize:       v.GetInt("coin_page_size"),
		QuoteTTL:           v.GetDuration("quote_ttl"),
		DefaultSlippageBps: v.GetUint64("default_slippage_bps"),
		TreasuryAddresses:  make(map[string]string),
		TreasuryBalances:   make(map[string]string),
		PricesUSD:          make(map[string]string),
		ETHRPCURL:          strings.TrimSpace(v.GetString("eth_rpc_url")),
		ListenAddr:         v.GetString("listen_addr"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}

	for _, symbol := range wallet.Symbols {
		lower := strings.ToLower(symbol)
		if addr := strings.TrimSpace(v.GetString("treasury_" + lower + "_address")); addr != "" {
			cfg.TreasuryAddresses[symbol] = addr
		}
		if bal := strings.TrimSpace(v.GetString("treasury_" + lower + "_balance")); bal != "" {
			cfg.TreasuryBalances[symbol] = bal
		}
		if price := strings.TrimSpace(v.GetString(lower + "_price_usd")); price != "" {
			cfg.PricesUSD[symbol] = price
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make every swap fail.
func (c *Config) Validate() error {
	switch {
	case c.RPCURL == "":
		return fmt.Errorf("SUI_RPC_URL must not be empty")
	case c.FeeBps >= wallet.BpsScale:
		return fmt.Errorf("SWAP_FEE_BPS must be below %d, got %d", wallet.BpsScale, c.FeeBps)
	case c.DefaultSlippageBps >= wallet.BpsScale:
		return fmt.Errorf("DEFAULT_SLIPPAGE_BPS must be below %d, got %d", wallet.BpsScale, c.DefaultSlippageBps)
	case c.GasBudgetSplit == 0 || c.GasBudgetSwap == 0:
		return fmt.Errorf("gas budgets must be positive")
	case c.CoinPageSize <= 0:
		return fmt.Errorf("COIN_PAGE_SIZE must be positive, got %d", c.CoinPageSize)
	case c.RPCTimeout < 0 || c.QuoteTTL < 0:
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// RPC returns the chain client settings.
func (c *Config) RPC() chainrpc.Config {
	return chainrpc.Config{URL: c.RPCURL, Timeout: c.RPCTimeout, RateLimit: c.RPCRateLimit}
}

// Wallet returns the swap engine settings.
func (c *Config) Wallet() wallet.Config {
	return wallet.Config{
		PackageID:          c.PackageID,
		PoolID:             c.PoolID,
		FeeBps:             c.FeeBps,
		GasBudgetSplit:     c.GasBudgetSplit,
		GasBudgetSwap:      c.GasBudgetSwap,
		GasCushion:         c.GasCushion,
		CoinPageSize:       c.CoinPageSize,
		DefaultSlippageBps: c.DefaultSlippageBps,
	}
}

// Treasury returns the treasury address book, static balances and prices.
func (c *Config) Treasury() treasury.Config {
	return treasury.Config{
		Addresses: c.TreasuryAddresses,
		Balances:  c.TreasuryBalances,
		PricesUSD: c.PricesUSD,
	}
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}
