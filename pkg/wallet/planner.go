package wallet

import (
	"cmp"
	"fmt"
	"slices"
)

// sortByBalance returns a copy of coins ordered by descending balance. Equal
// balances keep the node's listing order.
func sortByBalance(coins []Coin) []Coin {
	sorted := slices.Clone(coins)
	slices.SortStableFunc(sorted, func(a, b Coin) int {
		return cmp.Compare(b.Balance, a.Balance)
	})
	return sorted
}

// PlanNativePayment plans a payment in the gas coin type. The largest coin is
// the gas candidate; it doubles as the payment source when it covers both the
// amount and the gas reserve.
func PlanNativePayment(coins []Coin, amount, minGasReserve uint64) (CoinPlan, error) {
	if len(coins) == 0 {
		return CoinPlan{}, fmt.Errorf("%w: no SUI coins", ErrInsufficientGas)
	}

	sorted := sortByBalance(coins)
	gas := sorted[0]
	if gas.Balance < minGasReserve {
		return CoinPlan{}, fmt.Errorf("%w: largest coin %s holds %d, need %d", ErrInsufficientGas, gas.ID, gas.Balance, minGasReserve)
	}
	if gas.Balance-minGasReserve >= amount {
		return CoinPlan{GasCoinID: gas.ID, SourceCoinID: gas.ID, NeedsSplit: true}, nil
	}

	plan, ok := firstSufficient(sorted[1:], amount)
	if !ok {
		return CoinPlan{}, fmt.Errorf("%w: no SUI coin holds %d", ErrCannotFundSwap, amount)
	}
	plan.GasCoinID = gas.ID
	return plan, nil
}

// SelectGasCoin returns the largest coin, provided it meets the gas reserve.
func SelectGasCoin(coins []Coin, minGasReserve uint64) (Coin, error) {
	for _, c := range sortByBalance(coins) {
		if c.Balance >= minGasReserve {
			return c, nil
		}
	}
	return Coin{}, fmt.Errorf("%w: no SUI coin holds %d", ErrInsufficientGas, minGasReserve)
}

// PlanTokenPayment plans a payment in a non-gas coin type using an already
// selected gas coin.
func PlanTokenPayment(gasCoinID string, coins []Coin, amount uint64) (CoinPlan, error) {
	plan, ok := firstSufficient(sortByBalance(coins), amount)
	if !ok {
		return CoinPlan{}, fmt.Errorf("%w: no coin holds %d", ErrCannotFundSwap, amount)
	}
	plan.GasCoinID = gasCoinID
	return plan, nil
}

func firstSufficient(sorted []Coin, amount uint64) (CoinPlan, bool) {
	for _, c := range sorted {
		if c.Balance < amount {
			continue
		}
		if c.Balance == amount {
			return CoinPlan{SourceCoinID: c.ID, PayCoinID: c.ID}, true
		}
		return CoinPlan{SourceCoinID: c.ID, NeedsSplit: true}, true
	}
	return CoinPlan{}, false
}
