package wallet

import "time"

// Coin is one owned coin object of a single coin type.
type Coin struct {
	ID      string
	Balance uint64
}

// PoolState is a snapshot of the swap pool reserves in base units.
type PoolState struct {
	SUIReserve uint64
	SWTReserve uint64
}

// Reserves returns the input and output reserves for a direction.
func (p PoolState) Reserves(d Direction) (in, out uint64) {
	if d == SWTToSUI {
		return p.SWTReserve, p.SUIReserve
	}
	return p.SUIReserve, p.SWTReserve
}

// SwapQuote is computed from a single pool snapshot and is never persisted.
type SwapQuote struct {
	PaySymbol     string
	ReceiveSymbol string
	PayAmount     uint64
	ReceiveAmount uint64
	FeeAmount     uint64
	FeeBps        uint64
	Pool          PoolState
}

// CoinPlan describes how a single payment is funded.
type CoinPlan struct {
	GasCoinID    string
	SourceCoinID string
	NeedsSplit   bool
	// PayCoinID is set when an existing coin matches the amount exactly.
	PayCoinID string
}

// SwapRequest is an execution request as received from a caller.
type SwapRequest struct {
	PaySymbol     string
	ReceiveSymbol string
	PayAmount     uint64
	// MinReceive takes precedence over SlippageBps when non-zero.
	MinReceive     uint64
	SlippageBps    uint64
	IdempotencyKey string
}

// SwapExecutionResult is the outcome of a successful swap.
type SwapExecutionResult struct {
	TxDigest      string    `json:"txDigest"`
	ExecutedAt    time.Time `json:"executedAt"`
	PaySymbol     string    `json:"paySymbol"`
	ReceiveSymbol string    `json:"receiveSymbol"`
	PayAmount     uint64    `json:"payAmount"`
	ReceiveAmount uint64    `json:"receiveAmount"`
}
