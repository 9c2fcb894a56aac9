package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suiworld-swap/config"
	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/parser"
	"suiworld-swap/pkg/types"
	"suiworld-swap/pkg/wallet"
)

var quoteSlippageBps uint64

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <pay-token> to <receive-token>",
	Short: "Quote a swap against the current pool reserves",
	Long: `Quote a SUI/SWT swap from a fresh pool snapshot. Nothing is signed or
submitted.

Examples:
  suiworld-swap quote 1 SUI to SWT
  suiworld-swap quote 250 SWT for SUI --slippage-bps 100
  suiworld-swap quote 0.5 SUI -> SWT --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().Uint64Var(&quoteSlippageBps, "slippage-bps", 0, "Slippage tolerance in basis points (default from config)")
}

func runQuote(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	quiet := jsonOutput(cmd)
	request, pay, receive, payAmount, err := parsePayment(args)
	if err != nil {
		exitWith(err)
	}

	slippage := quoteSlippageBps
	if slippage == 0 {
		slippage = config.Get().DefaultSlippageBps
	}
	if slippage >= wallet.BpsScale {
		exitWith(fmt.Errorf("%w: slippage %d bps", amount.ErrInvalidAmount, slippage))
	}

	quote, err := fetchQuote(cmd.Context(), svc.engine, request, payAmount, quiet)
	if err != nil {
		exitWith(err)
	}

	display := newQuoteDisplay(quote, pay, receive, slippage)
	if quiet {
		printJSON(display)
		return
	}
	displayQuote(display)
}

// parsePayment parses a swap expression and converts the amount to base
// units of the pay asset.
func parsePayment(args []string) (*types.SwapCommand, wallet.Asset, wallet.Asset, uint64, error) {
	command, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, wallet.Asset{}, wallet.Asset{}, 0, err
	}
	if err := parser.ValidateSwapCommand(command); err != nil {
		return nil, wallet.Asset{}, wallet.Asset{}, 0, err
	}
	if _, err := wallet.ResolvePair(command.PaySymbol, command.ReceiveSymbol); err != nil {
		return nil, wallet.Asset{}, wallet.Asset{}, 0, err
	}
	pay, _ := wallet.LookupAsset(command.PaySymbol)
	receive, _ := wallet.LookupAsset(command.ReceiveSymbol)

	payAmount, err := amount.Parse(command.Amount, pay.Decimals)
	if err != nil {
		return nil, wallet.Asset{}, wallet.Asset{}, 0, err
	}
	return command, pay, receive, payAmount, nil
}

func fetchQuote(ctx context.Context, engine *wallet.Engine, command *types.SwapCommand, payAmount uint64, quiet bool) (wallet.SwapQuote, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !quiet {
		s.Suffix = " Fetching pool reserves..."
		s.Start()
	}
	quote, err := engine.ComputeSwapQuote(ctx, command.PaySymbol, command.ReceiveSymbol, payAmount)
	if !quiet {
		s.Stop()
	}
	return quote, err
}

func newQuoteDisplay(q wallet.SwapQuote, pay, receive wallet.Asset, slippageBps uint64) types.QuoteDisplay {
	sui, _ := wallet.LookupAsset("SUI")
	swt, _ := wallet.LookupAsset("SWT")
	return types.QuoteDisplay{
		PayAmount:     amount.Format(q.PayAmount, pay.Decimals),
		PaySymbol:     q.PaySymbol,
		ReceiveAmount: amount.Format(q.ReceiveAmount, receive.Decimals),
		ReceiveSymbol: q.ReceiveSymbol,
		Price:         wallet.Price(q),
		FeeAmount:     amount.Format(q.FeeAmount, pay.Decimals),
		FeeRateBps:    q.FeeBps,
		MinReceive:    amount.Format(wallet.MinReceive(q.ReceiveAmount, slippageBps), receive.Decimals),
		SlippageBps:   slippageBps,
		PoolSUI:       amount.Format(q.Pool.SUIReserve, sui.Decimals),
		PoolSWT:       amount.Format(q.Pool.SWTReserve, swt.Decimals),
	}
}

func displayQuote(q types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                        SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  You Pay:        %s %s\n", color.YellowString(q.PayAmount), q.PaySymbol)
	fmt.Printf("  You Receive:    %s %s\n", color.GreenString(q.ReceiveAmount), q.ReceiveSymbol)
	fmt.Printf("  Price:          1 %s = %s %s\n", q.PaySymbol, q.Price, q.ReceiveSymbol)
	fmt.Printf("  Pool Fee:       %s %s (%d bps)\n", q.FeeAmount, q.PaySymbol, q.FeeRateBps)
	fmt.Printf("  Min Receive:    %s %s (%d bps slippage)\n", q.MinReceive, q.ReceiveSymbol, q.SlippageBps)
	fmt.Printf("  Pool Reserves:  %s\n", color.HiBlackString("%s SUI / %s SWT", q.PoolSUI, q.PoolSWT))

	fmt.Println("\n" + strings.Repeat("=", 60))
}
