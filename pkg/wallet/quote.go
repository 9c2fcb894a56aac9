package wallet

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/metrics"
)

// BpsScale is the basis point denominator.
const BpsScale = 10_000

const priceDecimals = 9

// Quote applies the constant-product formula with the fee taken off the input.
// The returned fee is for display only and is not deducted a second time.
func Quote(payAmount, reserveIn, reserveOut, feeBps uint64) (receive, fee uint64, err error) {
	if payAmount == 0 {
		return 0, 0, amount.ErrNonPositive
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, 0, ErrSwapPoolEmpty
	}
	if feeBps >= BpsScale {
		return 0, 0, fmt.Errorf("%w: fee %d bps", ErrInvalidQuote, feeBps)
	}

	scale := uint256.NewInt(BpsScale)
	inputWithFee := new(uint256.Int).Mul(uint256.NewInt(payAmount), uint256.NewInt(BpsScale-feeBps))
	denominator := new(uint256.Int).Mul(uint256.NewInt(reserveIn), scale)
	denominator.Add(denominator, inputWithFee)

	out := amount.MulDiv(uint256.NewInt(reserveOut), inputWithFee, denominator)
	feeAmount := amount.MulDiv(uint256.NewInt(payAmount), uint256.NewInt(feeBps), scale)

	// out < reserveOut and fee < payAmount, so both fit.
	return out.Uint64(), feeAmount.Uint64(), nil
}

// MinReceive applies a slippage tolerance to a quoted output, rounding down.
func MinReceive(receive, slippageBps uint64) uint64 {
	if slippageBps >= BpsScale {
		return 0
	}
	return amount.MulDiv(uint256.NewInt(receive), uint256.NewInt(BpsScale-slippageBps), uint256.NewInt(BpsScale)).Uint64()
}

// Price returns receive per pay in display units, truncated to 9 decimals.
func Price(q SwapQuote) string {
	payAsset, err := LookupAsset(q.PaySymbol)
	if err != nil || q.PayAmount == 0 {
		return "0"
	}
	receiveAsset, err := LookupAsset(q.ReceiveSymbol)
	if err != nil {
		return "0"
	}

	numerator := new(uint256.Int).Mul(uint256.NewInt(q.ReceiveAmount), amount.Pow10(payAsset.Decimals))
	numerator.Mul(numerator, amount.Pow10(priceDecimals))
	denominator := new(uint256.Int).Mul(uint256.NewInt(q.PayAmount), amount.Pow10(receiveAsset.Decimals))
	return amount.FormatUint256(numerator.Div(numerator, denominator), priceDecimals)
}

// ComputeSwapQuote validates the request, reads the pool and quotes it.
func (e *Engine) ComputeSwapQuote(ctx context.Context, pay, receive string, payAmount uint64) (SwapQuote, error) {
	direction, err := validateSwap(pay, receive, payAmount)
	if err != nil {
		return SwapQuote{}, err
	}

	q, err := e.quote(ctx, direction, payAmount)
	metrics.SwapQuotes.WithLabelValues(direction.Pair(), metrics.Outcome(err)).Inc()
	if err != nil {
		return SwapQuote{}, err
	}
	return q, nil
}

func (e *Engine) quote(ctx context.Context, direction Direction, payAmount uint64) (SwapQuote, error) {
	pool, err := e.GetPoolState(ctx, e.cfg.PoolID)
	if err != nil {
		return SwapQuote{}, err
	}

	in, out := pool.Reserves(direction)
	received, fee, err := Quote(payAmount, in, out, e.cfg.FeeBps)
	if err != nil {
		return SwapQuote{}, err
	}

	paySymbol, receiveSymbol := "SUI", "SWT"
	if direction == SWTToSUI {
		paySymbol, receiveSymbol = "SWT", "SUI"
	}
	return SwapQuote{
		PaySymbol:     paySymbol,
		ReceiveSymbol: receiveSymbol,
		PayAmount:     payAmount,
		ReceiveAmount: received,
		FeeAmount:     fee,
		FeeBps:        e.cfg.FeeBps,
		Pool:          pool,
	}, nil
}

// validateSwap runs before any chain read.
func validateSwap(pay, receive string, payAmount uint64) (Direction, error) {
	if payAmount == 0 {
		return 0, amount.ErrNonPositive
	}
	return ResolvePair(pay, receive)
}
