package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"suiworld-swap/config"
	"suiworld-swap/pkg/logging"
	"suiworld-swap/pkg/wallet"
)

var logger *logrus.Logger

var rootCmd = &cobra.Command{
	Use:   "suiworld-swap",
	Short: "Custodial SUI/SWT swap service for the SuiWorld pool",
	Long: `suiworld-swap quotes and executes swaps between SUI and SWT against the
SuiWorld constant-product pool, signing with the service account, and serves
the same operations over HTTP.

Examples:
  suiworld-swap quote 1 SUI to SWT
  suiworld-swap swap 250 SWT to SUI --slippage-bps 50
  suiworld-swap summary
  suiworld-swap serve`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		l, err := logging.New(level, cfg.LogFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\n%s %v\n\n", color.RedString("Error:"), err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", color.GreenString(message))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func jsonOutput(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("json")
	return on
}

func exitWith(err error) {
	if code := wallet.Code(err); code != wallet.CodeUnknown {
		err = fmt.Errorf("[%s] %w", code, err)
	}
	printError(err)
	os.Exit(1)
}
