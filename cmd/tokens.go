package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suiworld-swap/pkg/wallet"
)

var filterChain string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List supported assets",
	Long: `List the assets the treasury reports on. Only SUI and SWT are tradable.

Examples:
  suiworld-swap list-tokens
  suiworld-swap list-tokens --chain sui`,
	Args: cobra.NoArgs,
	Run:  runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterChain, "chain", "", "Filter by blockchain")
}

func runListTokens(cmd *cobra.Command, args []string) {
	var assets []wallet.Asset
	for _, symbol := range wallet.Symbols {
		asset, _ := wallet.LookupAsset(symbol)
		if filterChain != "" && !strings.EqualFold(asset.Chain, filterChain) {
			continue
		}
		assets = append(assets, asset)
	}

	if jsonOutput(cmd) {
		printJSON(assets)
		return
	}
	if len(assets) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 60) + "\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, a := range assets {
		tradable := color.HiBlackString("report only")
		if a.Tradable {
			tradable = color.GreenString("tradable")
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d decimals\t%s\n", color.YellowString(a.Symbol), a.Name, a.Chain, a.Decimals, tradable)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d tokens\n\n", len(assets))
}
