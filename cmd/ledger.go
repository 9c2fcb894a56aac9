package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suiworld-swap/config"
	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/wallet"
)

var ownerAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance <SUI|SWT>",
	Short: "Show a ledger balance",
	Long: `Show the total SUI or SWT balance of an address, defaulting to the
service account.

Examples:
  suiworld-swap balance SUI
  suiworld-swap balance SWT --address 0xabc...`,
	Args: cobra.ExactArgs(1),
	Run:  runBalance,
}

var coinsCmd = &cobra.Command{
	Use:   "coins <SUI|SWT>",
	Short: "List owned coin objects",
	Args:  cobra.ExactArgs(1),
	Run:   runCoins,
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show the swap pool reserves",
	Args:  cobra.NoArgs,
	Run:   runPool,
}

var addressCmd = &cobra.Command{
	Use:   "address [SYMBOL]",
	Short: "Show treasury deposit addresses",
	Args:  cobra.MaximumNArgs(1),
	Run:   runAddress,
}

func init() {
	rootCmd.AddCommand(balanceCmd, coinsCmd, poolCmd, addressCmd)

	balanceCmd.Flags().StringVar(&ownerAddress, "address", "", "Owner address (default service account)")
	coinsCmd.Flags().StringVar(&ownerAddress, "address", "", "Owner address (default service account)")
}

func runBalance(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	asset, err := wallet.LookupAsset(args[0])
	if err != nil {
		exitWith(err)
	}
	balance, err := svc.engine.Balance(cmd.Context(), asset.Symbol, ownerAddress)
	if err != nil {
		exitWith(err)
	}

	formatted := amount.Format(balance, asset.Decimals)
	if jsonOutput(cmd) {
		printJSON(map[string]any{"symbol": asset.Symbol, "balance": formatted, "baseUnits": balance})
		return
	}
	fmt.Printf("\n  %s %s\n\n", color.GreenString(formatted), asset.Symbol)
}

type coinRow struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

func runCoins(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	asset, err := wallet.LookupAsset(args[0])
	if err != nil {
		exitWith(err)
	}
	coinType, err := svc.engine.CoinType(asset.Symbol)
	if err != nil {
		exitWith(err)
	}
	owner := ownerAddress
	if owner == "" {
		if owner, err = svc.engine.ServiceAddress(); err != nil {
			exitWith(err)
		}
	}

	coins, err := svc.engine.ListCoins(cmd.Context(), owner, coinType)
	if err != nil {
		exitWith(err)
	}

	rows := make([]coinRow, 0, len(coins))
	for _, c := range coins {
		rows = append(rows, coinRow{ID: c.ID, Balance: amount.Format(c.Balance, asset.Decimals)})
	}
	if jsonOutput(cmd) {
		printJSON(rows)
		return
	}

	if len(rows) == 0 {
		fmt.Printf("\nNo %s coins owned by %s.\n\n", asset.Symbol, owner)
		return
	}
	color.Cyan("\n%s coins of %s", asset.Symbol, owner)
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range rows {
		fmt.Printf("  %s  %s\n", color.HiBlackString(r.ID), color.YellowString(r.Balance))
	}
	fmt.Printf("\nTotal: %d coins\n\n", len(rows))
}

func runPool(cmd *cobra.Command, args []string) {
	cfg := config.Get()
	svc := mustServices(cmd.Context())
	defer svc.Close()

	pool, err := svc.engine.GetPoolState(cmd.Context(), cfg.PoolID)
	if err != nil {
		exitWith(err)
	}
	sui, _ := wallet.LookupAsset("SUI")
	swt, _ := wallet.LookupAsset("SWT")

	reserves := map[string]string{
		"poolId": cfg.PoolID,
		"sui":    amount.Format(pool.SUIReserve, sui.Decimals),
		"swt":    amount.Format(pool.SWTReserve, swt.Decimals),
	}
	if jsonOutput(cmd) {
		printJSON(reserves)
		return
	}
	fmt.Printf("\n  Pool:  %s\n", color.HiBlackString(cfg.PoolID))
	fmt.Printf("  SUI:   %s\n", color.YellowString(reserves["sui"]))
	fmt.Printf("  SWT:   %s\n\n", color.YellowString(reserves["swt"]))
}

type addressRow struct {
	Symbol  string `json:"symbol"`
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

func runAddress(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	symbols := wallet.Symbols
	if len(args) == 1 {
		symbols = []string{strings.ToUpper(args[0])}
	}

	var rows []addressRow
	for _, symbol := range symbols {
		chain, addr, err := svc.treasury.Address(symbol)
		if err != nil {
			if len(args) == 1 {
				exitWith(err)
			}
			logger.WithError(err).WithField("symbol", symbol).Debug("address unavailable")
			continue
		}
		rows = append(rows, addressRow{Symbol: symbol, Chain: chain, Address: addr})
	}

	if jsonOutput(cmd) {
		printJSON(rows)
		return
	}
	fmt.Println()
	for _, r := range rows {
		fmt.Printf("  %-4s %-9s %s\n", color.YellowString(r.Symbol), r.Chain, color.CyanString(r.Address))
	}
	fmt.Println()
}
