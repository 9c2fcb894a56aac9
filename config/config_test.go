package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://fullnode.devnet.sui.io:443", cfg.RPCURL)
	assert.Equal(t, 15*time.Second, cfg.RPCTimeout)
	assert.Equal(t, uint64(30), cfg.FeeBps)
	assert.Equal(t, uint64(2_000_000), cfg.GasBudgetSplit)
	assert.Equal(t, uint64(5_000_000), cfg.GasBudgetSwap)
	assert.Equal(t, uint64(500_000), cfg.GasCushion)
	assert.Equal(t, uint64(7_500_000), cfg.Wallet().MinGasReserve())
	assert.Equal(t, 200, cfg.CoinPageSize)
	assert.Equal(t, 30*time.Second, cfg.QuoteTTL)
	assert.Equal(t, uint64(30), cfg.DefaultSlippageBps)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "3.66", cfg.PricesUSD["SUI"])
	assert.Empty(t, cfg.TreasuryAddresses)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SUI_RPC_URL", "http://127.0.0.1:9000")
	t.Setenv("SUIWORLD_PACKAGE_ID", "0xpkg")
	t.Setenv("SUIWORLD_SWAP_POOL_ID", " 0xpool ")
	t.Setenv("SWAP_FEE_BPS", "25")
	t.Setenv("RPC_TIMEOUT", "3s")
	t.Setenv("TREASURY_BTC_ADDRESS", "bc1qtreasury")
	t.Setenv("TREASURY_ETH_BALANCE", "12.5")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", cfg.RPC().URL)
	assert.Equal(t, 3*time.Second, cfg.RPC().Timeout)
	assert.Equal(t, "0xpool", cfg.Wallet().PoolID)
	assert.Equal(t, uint64(25), cfg.Wallet().FeeBps)
	assert.Equal(t, "0xpkg", cfg.Wallet().PackageID)
	assert.Equal(t, "bc1qtreasury", cfg.Treasury().Addresses["BTC"])
	assert.Equal(t, "12.5", cfg.Treasury().Balances["ETH"])
}

func TestConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
suiworld_package_id: "0xfile"
coin_page_size: 50
log_format: json
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "0xfile", cfg.PackageID)
	assert.Equal(t, 50, cfg.CoinPageSize)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "fee at scale", env: map[string]string{"SWAP_FEE_BPS": "10000"}},
		{name: "slippage at scale", env: map[string]string{"DEFAULT_SLIPPAGE_BPS": "10000"}},
		{name: "zero split budget", env: map[string]string{"GAS_BUDGET_SPLIT": "0"}},
		{name: "zero page size", env: map[string]string{"COIN_PAGE_SIZE": "0"}},
		{name: "blank rpc url", env: map[string]string{"SUI_RPC_URL": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			require.Error(t, err)
		})
	}
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUIWORLD_SWAP_POOL_ID", "0xloaded")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, Get())
	assert.Equal(t, "0xloaded", Get().PoolID)
}
