package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"suiworld-swap/config"
	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/types"
	"suiworld-swap/pkg/wallet"
)

var (
	minReceiveFlag  string
	slippageBpsFlag uint64
	idempotencyKey  string
	noConfirm       bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <pay-token> to <receive-token>",
	Short: "Execute a swap from the service account",
	Long: `Quote and execute a SUI/SWT swap, paying from the service account's coins.

The pay coin is split off when no coin matches the amount exactly. The swap
is rejected on-chain if the pool would return less than the minimum receive
amount, which defaults to the quote minus the slippage tolerance.

Examples:
  suiworld-swap swap 1 SUI to SWT
  suiworld-swap swap 250 SWT to SUI --min-receive 0.9
  suiworld-swap swap 1 SUI to SWT --idempotency-key order-42 --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&minReceiveFlag, "min-receive", "", "Minimum amount to receive, in display units")
	swapCmd.Flags().Uint64Var(&slippageBpsFlag, "slippage-bps", 0, "Slippage tolerance in basis points (default from config)")
	swapCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Key deduplicating repeated submissions (default random)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	quiet := jsonOutput(cmd)
	swapReq, pay, receive, payAmount, err := parsePayment(args)
	if err != nil {
		exitWith(err)
	}

	slippage := slippageBpsFlag
	if slippage == 0 {
		slippage = config.Get().DefaultSlippageBps
	}
	if slippage >= wallet.BpsScale {
		exitWith(fmt.Errorf("%w: slippage %d bps", amount.ErrInvalidAmount, slippage))
	}
	var minReceive uint64
	if minReceiveFlag != "" {
		if minReceive, err = amount.Parse(minReceiveFlag, receive.Decimals); err != nil {
			exitWith(err)
		}
	}

	quote, err := fetchQuote(cmd.Context(), svc.engine, swapReq, payAmount, quiet)
	if err != nil {
		exitWith(err)
	}

	display := newQuoteDisplay(quote, pay, receive, slippage)
	if minReceive > 0 {
		display.MinReceive = amount.Format(minReceive, receive.Decimals)
	}
	if !quiet {
		displayQuote(display)
	}

	if !noConfirm && !quiet {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	key := idempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !quiet {
		s.Suffix = " Submitting swap..."
		s.Start()
	}
	result, err := svc.engine.Execute(cmd.Context(), wallet.SwapRequest{
		PaySymbol:      quote.PaySymbol,
		ReceiveSymbol:  quote.ReceiveSymbol,
		PayAmount:      payAmount,
		MinReceive:     minReceive,
		SlippageBps:    slippage,
		IdempotencyKey: key,
	})
	if !quiet {
		s.Stop()
	}
	if err != nil {
		exitWith(err)
	}

	receipt := types.SwapReceipt{
		TxDigest:       result.TxDigest,
		ExecutedAt:     result.ExecutedAt.UTC().Format(time.RFC3339),
		PayAmount:      amount.Format(result.PayAmount, pay.Decimals),
		PaySymbol:      result.PaySymbol,
		ReceiveAmount:  amount.Format(result.ReceiveAmount, receive.Decimals),
		ReceiveSymbol:  result.ReceiveSymbol,
		IdempotencyKey: key,
	}
	if quiet {
		printJSON(receipt)
		return
	}
	displayReceipt(receipt)
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nDo you want to proceed with this swap? (yes/no): ")
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}

func displayReceipt(r types.SwapReceipt) {
	printSuccess("Swap executed")
	fmt.Printf("  Paid:            %s %s\n", color.YellowString(r.PayAmount), r.PaySymbol)
	fmt.Printf("  Received:        %s %s\n", color.GreenString(r.ReceiveAmount), r.ReceiveSymbol)
	fmt.Printf("  Digest:          %s\n", color.CyanString(r.TxDigest))
	fmt.Printf("  Executed At:     %s\n", r.ExecutedAt)
	fmt.Printf("  Idempotency Key: %s\n\n", color.HiBlackString(r.IdempotencyKey))
}
