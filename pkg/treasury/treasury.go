package treasury

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/wallet"
)

const usdDecimals = 8

// BalanceReader reads ledger balances for SUI and SWT.
type BalanceReader interface {
	Balance(ctx context.Context, symbol, address string) (uint64, error)
	ServiceAddress() (string, error)
}

// EVMBalanceSource reads a native balance, in wei, from an EVM chain.
type EVMBalanceSource interface {
	BalanceAt(ctx context.Context, address string) (*uint256.Int, error)
}

// Config lists treasury addresses, static balances and USD prices keyed by
// upper-case symbol. Balances and prices are decimal strings.
type Config struct {
	Addresses map[string]string
	Balances  map[string]string
	PricesUSD map[string]string
}

// AssetSummary is one row of the wallet summary.
type AssetSummary struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Chain    string `json:"chain"`
	Amount   string `json:"amount"`
	PriceUSD string `json:"priceUsd"`
	USDValue string `json:"usdValue"`
}

// Summary is the full treasury view.
type Summary struct {
	Assets    []AssetSummary `json:"assets"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Manager assembles treasury balances from the ledger, an optional EVM node
// and static configuration.
type Manager struct {
	reader BalanceReader
	evm    EVMBalanceSource
	config Config
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewManager creates a treasury manager. evm may be nil.
func NewManager(reader BalanceReader, evm EVMBalanceSource, cfg Config, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		reader: reader,
		evm:    evm,
		config: cfg,
		logger: logger.WithField("component", "treasury"),
		now:    time.Now,
	}
}

// Summary returns every known asset in display order. SUI and SWT are read
// from the ledger concurrently.
func (m *Manager) Summary(ctx context.Context) (Summary, error) {
	balances := make(map[string]*uint256.Int, len(wallet.Symbols))

	var sui, swt uint64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sui, err = m.reader.Balance(gctx, "SUI", m.config.Addresses["SUI"])
		if err != nil {
			return fmt.Errorf("failed to read SUI balance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		swt, err = m.reader.Balance(gctx, "SWT", m.config.Addresses["SWT"])
		if err != nil {
			return fmt.Errorf("failed to read SWT balance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	balances["SUI"] = uint256.NewInt(sui)
	balances["SWT"] = uint256.NewInt(swt)

	var err error
	if balances["BTC"], err = m.staticBalance("BTC"); err != nil {
		return Summary{}, err
	}
	if balances["ETH"], err = m.ethBalance(ctx); err != nil {
		return Summary{}, err
	}

	summary := Summary{UpdatedAt: m.now().UTC()}
	for _, symbol := range wallet.Symbols {
		asset, err := wallet.LookupAsset(symbol)
		if err != nil {
			return Summary{}, err
		}
		price, err := m.price(asset)
		if err != nil {
			return Summary{}, err
		}
		balance := balances[symbol]
		summary.Assets = append(summary.Assets, AssetSummary{
			Symbol:   asset.Symbol,
			Name:     asset.Name,
			Chain:    asset.Chain,
			Amount:   amount.FormatUint256(balance, asset.Decimals),
			PriceUSD: amount.Format(price, usdDecimals),
			USDValue: USDValue(balance, asset.Decimals, price),
		})
	}
	return summary, nil
}

// Address returns the chain and receiving address for symbol. SUI and SWT
// default to the service account.
func (m *Manager) Address(symbol string) (chain, address string, err error) {
	asset, err := wallet.LookupAsset(symbol)
	if err != nil {
		return "", "", err
	}

	address = strings.TrimSpace(m.config.Addresses[asset.Symbol])
	if address == "" && asset.Chain == "sui" {
		if address, err = m.reader.ServiceAddress(); err != nil {
			return "", "", fmt.Errorf("%w: %s: %v", wallet.ErrAddressUnavailable, asset.Symbol, err)
		}
	}
	if address == "" {
		return "", "", fmt.Errorf("%w: %s", wallet.ErrAddressUnavailable, asset.Symbol)
	}
	return asset.Chain, address, nil
}

// USDValue multiplies a base-unit balance by a price carrying 8 decimals and
// truncates the product to 8 decimals.
func USDValue(balance *uint256.Int, decimals uint8, priceE8 uint64) string {
	value := amount.MulDiv(balance, uint256.NewInt(priceE8), amount.Pow10(decimals))
	return amount.FormatUint256(value, usdDecimals)
}

func (m *Manager) ethBalance(ctx context.Context) (*uint256.Int, error) {
	address := strings.TrimSpace(m.config.Addresses["ETH"])
	if m.evm == nil || address == "" {
		return m.staticBalance("ETH")
	}
	wei, err := m.evm.BalanceAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to read ETH balance: %w", err)
	}
	return wei, nil
}

// staticBalance parses a configured balance; an unset one counts as zero.
func (m *Manager) staticBalance(symbol string) (*uint256.Int, error) {
	value := strings.TrimSpace(m.config.Balances[symbol])
	if value == "" {
		return uint256.NewInt(0), nil
	}
	asset, err := wallet.LookupAsset(symbol)
	if err != nil {
		return nil, err
	}
	base, err := amount.ParseUint256(value, asset.Decimals)
	if errors.Is(err, amount.ErrNonPositive) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s treasury balance: %w", symbol, err)
	}
	return base, nil
}

func (m *Manager) price(asset wallet.Asset) (uint64, error) {
	value := strings.TrimSpace(m.config.PricesUSD[asset.Symbol])
	if value == "" {
		m.logger.WithField("symbol", asset.Symbol).Warn("No USD price configured")
		return 0, nil
	}
	price, err := amount.Parse(value, usdDecimals)
	if errors.Is(err, amount.ErrNonPositive) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("invalid %s price: %w", asset.Symbol, err)
	}
	return price, nil
}
