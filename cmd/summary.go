package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suiworld-swap/pkg/treasury"
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"status"},
	Short:   "Show treasury balances and their USD value",
	Long: `Show the treasury's balance of every supported asset with its USD value.
SUI and SWT are read from the ledger; BTC and ETH come from configuration
unless an Ethereum RPC endpoint is set.

Examples:
  suiworld-swap summary
  suiworld-swap summary --json`,
	Args: cobra.NoArgs,
	Run:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	svc := mustServices(cmd.Context())
	defer svc.Close()

	quiet := jsonOutput(cmd)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !quiet {
		s.Suffix = " Reading treasury balances..."
		s.Start()
	}
	summary, err := svc.treasury.Summary(cmd.Context())
	if !quiet {
		s.Stop()
	}
	if err != nil {
		exitWith(err)
	}

	if quiet {
		printJSON(summary)
		return
	}
	displaySummary(summary)
}

func displaySummary(summary treasury.Summary) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        TREASURY SUMMARY")
	fmt.Println(strings.Repeat("=", 70) + "\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ASSET\tCHAIN\tAMOUNT\tPRICE (USD)\tVALUE (USD)")
	for _, a := range summary.Assets {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", a.Symbol, a.Chain, a.Amount, a.PriceUSD, a.USDValue)
	}
	w.Flush()

	fmt.Printf("\n  Updated: %s\n", color.HiBlackString(summary.UpdatedAt.UTC().Format(time.RFC3339)))
	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
