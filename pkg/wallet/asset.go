package wallet

import (
	"fmt"
	"strings"
)

// SUICoinType is the native gas coin type.
const SUICoinType = "0x2::sui::SUI"

// Asset describes a symbol the wallet can display or trade.
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Chain    string `json:"chain"`
	Decimals uint8  `json:"decimals"`
	// Tradable marks assets that can pass through the swap pool.
	Tradable bool `json:"tradable"`
}

var assets = map[string]Asset{
	"SUI": {Symbol: "SUI", Name: "Sui", Chain: "sui", Decimals: 9, Tradable: true},
	"SWT": {Symbol: "SWT", Name: "SuiWorld Token", Chain: "sui", Decimals: 6, Tradable: true},
	"BTC": {Symbol: "BTC", Name: "Bitcoin", Chain: "bitcoin", Decimals: 8},
	"ETH": {Symbol: "ETH", Name: "Ethereum", Chain: "ethereum", Decimals: 18},
}

// Symbols lists the known assets in display order.
var Symbols = []string{"SWT", "SUI", "BTC", "ETH"}

// LookupAsset returns the asset registered under symbol (case-insensitive).
func LookupAsset(symbol string) (Asset, error) {
	a, ok := assets[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	return a, nil
}

// Direction is one of the two pool swap directions.
type Direction int

const (
	SUIToSWT Direction = iota + 1
	SWTToSUI
)

// Function returns the Move entry function for the direction.
func (d Direction) Function() string {
	switch d {
	case SUIToSWT:
		return "swap_sui_to_swt"
	case SWTToSUI:
		return "swap_swt_to_sui"
	default:
		return ""
	}
}

// Pair formats the direction as PAY/RECEIVE for logs and metric labels.
func (d Direction) Pair() string {
	switch d {
	case SUIToSWT:
		return "SUI/SWT"
	case SWTToSUI:
		return "SWT/SUI"
	default:
		return "unknown"
	}
}

// ResolvePair validates a pay/receive symbol pair and returns its direction.
func ResolvePair(pay, receive string) (Direction, error) {
	pay = strings.ToUpper(strings.TrimSpace(pay))
	receive = strings.ToUpper(strings.TrimSpace(receive))

	if pay == receive {
		return 0, ErrSameAsset
	}
	payAsset, err := LookupAsset(pay)
	if err != nil {
		return 0, err
	}
	receiveAsset, err := LookupAsset(receive)
	if err != nil {
		return 0, err
	}
	if !payAsset.Tradable || !receiveAsset.Tradable {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, pay, receive)
	}
	if pay == "SUI" {
		return SUIToSWT, nil
	}
	return SWTToSUI, nil
}
