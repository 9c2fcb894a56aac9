package parser

import (
	"fmt"
	"regexp"
	"strings"

	"suiworld-swap/pkg/types"
)

var swapPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)\s+([A-Z0-9]+)\s+(?:TO|FOR|->)\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 SUI to SWT"
//   - "2.5 SWT to SUI"
//   - "0.1 sui for swt"
func ParseSwapCommand(command string) (*types.SwapCommand, error) {
	command = strings.Join(strings.Fields(strings.ToUpper(command)), " ")
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 SUI to SWT')")
	}

	return &types.SwapCommand{
		Amount:        matches[1],
		PaySymbol:     NormalizeTokenSymbol(matches[2]),
		ReceiveSymbol: NormalizeTokenSymbol(matches[3]),
	}, nil
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *types.SwapCommand) error {
	if cmd.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if cmd.PaySymbol == "" {
		return fmt.Errorf("pay token is required")
	}
	if cmd.ReceiveSymbol == "" {
		return fmt.Errorf("receive token is required")
	}
	return nil
}

var aliases = map[string]string{
	"WBTC":     "BTC",
	"WETH":     "ETH",
	"SUIWORLD": "SWT",
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}
	return symbol
}
