package wallet

import (
	"context"
	"errors"
	"fmt"

	"suiworld-swap/pkg/account"
	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/chainrpc"
)

// Error codes surfaced to the API layer.
const (
	CodeChainUnavailable  = "CHAIN_UNAVAILABLE"
	CodeSwapFailed        = "SWAP_FAILED"
	CodeSameAsset         = "SAME_ASSET"
	CodeAssetUnsupported  = "ASSET_UNSUPPORTED"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeCannotFundSwap    = "CANNOT_FUND_SWAP"
	CodeUnknown           = "UNKNOWN"
)

var (
	ErrSameAsset             = errors.New("cannot swap the same asset")
	ErrUnsupportedAsset      = errors.New("unsupported asset")
	ErrUnsupportedPair       = errors.New("unsupported swap pair")
	ErrInvalidBalancePayload = errors.New("invalid balance payload")
	ErrMalformedPoolObject   = errors.New("malformed swap pool object")
	ErrSwapPoolEmpty         = errors.New("swap pool is empty")
	ErrInsufficientGas       = errors.New("insufficient SUI for gas")
	ErrCannotFundSwap        = errors.New("service account cannot fund swap")
	ErrSplitFailed           = errors.New("unable to split coin")
	ErrSwapExecutionFailed   = errors.New("swap execution failed")
	ErrInvalidQuote          = errors.New("calculated quote output is non-positive")
	ErrSlippageExceeded      = errors.New("quoted output is below the minimum receive amount")
	ErrAddressUnavailable    = errors.New("address unavailable")
)

// ExecutionError reports a terminal failure while building or executing a
// transaction. Message carries the ledger's error text when there is one.
type ExecutionError struct {
	Stage   string
	Message string
}

func (e *ExecutionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", ErrSwapExecutionFailed, e.Stage)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSwapExecutionFailed, e.Stage, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return ErrSwapExecutionFailed
}

// Code maps err to the upward error code.
func Code(err error) string {
	var rpcErr *chainrpc.RPCError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, amount.ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrSameAsset):
		return CodeSameAsset
	case errors.Is(err, ErrUnsupportedAsset), errors.Is(err, ErrUnsupportedPair):
		return CodeAssetUnsupported
	case errors.Is(err, ErrInsufficientGas):
		return CodeInsufficientFunds
	case errors.Is(err, ErrCannotFundSwap):
		return CodeCannotFundSwap
	case errors.Is(err, ErrSplitFailed),
		errors.Is(err, ErrSwapExecutionFailed),
		errors.Is(err, ErrInvalidQuote),
		errors.Is(err, ErrSlippageExceeded):
		return CodeSwapFailed
	case errors.Is(err, chainrpc.ErrChainUnavailable),
		errors.As(err, &rpcErr),
		errors.Is(err, ErrInvalidBalancePayload),
		errors.Is(err, ErrMalformedPoolObject),
		errors.Is(err, ErrSwapPoolEmpty),
		errors.Is(err, ErrAddressUnavailable),
		errors.Is(err, account.ErrServiceKeyMissing),
		errors.Is(err, account.ErrInvalidServiceKey),
		errors.Is(err, account.ErrUnsupportedKeyScheme),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return CodeChainUnavailable
	default:
		return CodeUnknown
	}
}
