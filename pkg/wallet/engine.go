package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"suiworld-swap/pkg/account"
	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/chainrpc"
	"suiworld-swap/pkg/idempotency"
	"suiworld-swap/pkg/metrics"
)

// Config holds the on-chain identifiers and gas parameters of the engine.
type Config struct {
	PackageID          string
	PoolID             string
	FeeBps             uint64
	GasBudgetSplit     uint64
	GasBudgetSwap      uint64
	GasCushion         uint64
	CoinPageSize       int
	DefaultSlippageBps uint64
}

// MinGasReserve is the smallest gas coin that can pay for a split followed by
// a swap.
func (c Config) MinGasReserve() uint64 {
	return c.GasBudgetSplit + c.GasBudgetSwap + c.GasCushion
}

// Engine reads pool and balance state, quotes swaps and executes them on
// behalf of the service account.
type Engine struct {
	caller  chainrpc.Caller
	account *account.ServiceAccount
	cache   *idempotency.Cache[SwapExecutionResult]
	flight  singleflight.Group
	cfg     Config
	logger  logrus.FieldLogger
	now     func() time.Time
}

// NewEngine creates an engine. A nil account yields a read-only engine whose
// executions fail with account.ErrServiceKeyMissing.
func NewEngine(caller chainrpc.Caller, acct *account.ServiceAccount, cache *idempotency.Cache[SwapExecutionResult], cfg Config, logger logrus.FieldLogger) *Engine {
	if cache == nil {
		// DefaultCapacity is positive, New cannot fail.
		cache, _ = idempotency.New[SwapExecutionResult](idempotency.DefaultCapacity)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.CoinPageSize <= 0 {
		cfg.CoinPageSize = 200
	}
	return &Engine{
		caller:  caller,
		account: acct,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.WithField("component", "wallet"),
		now:     time.Now,
	}
}

// ServiceAddress returns the service account address.
func (e *Engine) ServiceAddress() (string, error) {
	if e.account == nil {
		return "", account.ErrServiceKeyMissing
	}
	return e.account.Address(), nil
}

// SWTCoinType returns the fully qualified SWT coin type.
func (e *Engine) SWTCoinType() string {
	return e.cfg.PackageID + "::token::SWT"
}

// CoinType maps a tradable symbol to its coin type.
func (e *Engine) CoinType(symbol string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "SUI":
		return SUICoinType, nil
	case "SWT":
		if e.cfg.PackageID == "" {
			return "", fmt.Errorf("%w: package id not configured", ErrAddressUnavailable)
		}
		return e.SWTCoinType(), nil
	default:
		return "", fmt.Errorf("%w: %s has no ledger coin type", ErrUnsupportedAsset, symbol)
	}
}

// Balance returns the balance of symbol held by address, defaulting to the
// service account when address is empty.
func (e *Engine) Balance(ctx context.Context, symbol, address string) (uint64, error) {
	coinType, err := e.CoinType(symbol)
	if err != nil {
		return 0, err
	}
	if address == "" {
		if address, err = e.ServiceAddress(); err != nil {
			return 0, err
		}
	}
	return e.GetBalance(ctx, address, coinType)
}

// ExecuteSwap quotes the pair to confirm minReceive is attainable, funds the
// payment from the service account's coins and submits the swap call.
func (e *Engine) ExecuteSwap(ctx context.Context, pay, receive string, payAmount, minReceive uint64) (SwapExecutionResult, error) {
	return e.swap(ctx, pay, receive, payAmount, func(SwapQuote) uint64 { return minReceive })
}

// Execute runs req at most once per idempotency key. A repeated key returns
// the cached result; concurrent callers sharing a key wait for one execution.
func (e *Engine) Execute(ctx context.Context, req SwapRequest) (SwapExecutionResult, error) {
	slippage := req.SlippageBps
	if slippage == 0 {
		slippage = e.cfg.DefaultSlippageBps
	}
	if slippage >= BpsScale {
		return SwapExecutionResult{}, fmt.Errorf("%w: slippage %d bps", amount.ErrInvalidAmount, slippage)
	}

	minFor := func(q SwapQuote) uint64 {
		if req.MinReceive > 0 {
			return req.MinReceive
		}
		return MinReceive(q.ReceiveAmount, slippage)
	}
	run := func(ctx context.Context) (SwapExecutionResult, error) {
		return e.swap(ctx, req.PaySymbol, req.ReceiveSymbol, req.PayAmount, minFor)
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		return run(ctx)
	}
	if cached, ok := e.cache.Get(key); ok {
		metrics.IdempotencyHits.Inc()
		e.logger.WithField("idempotency_key", key).Info("Returning cached swap result")
		return cached, nil
	}

	// The shared execution outlives any single waiter's context.
	flightCtx := context.WithoutCancel(ctx)
	ch := e.flight.DoChan(key, func() (interface{}, error) {
		if cached, ok := e.cache.Get(key); ok {
			metrics.IdempotencyHits.Inc()
			return cached, nil
		}
		result, err := run(flightCtx)
		if err != nil {
			return nil, err
		}
		e.cache.Put(key, result)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return SwapExecutionResult{}, res.Err
		}
		return res.Val.(SwapExecutionResult), nil
	case <-ctx.Done():
		return SwapExecutionResult{}, ctx.Err()
	}
}

func (e *Engine) swap(ctx context.Context, pay, receive string, payAmount uint64, minFor func(SwapQuote) uint64) (SwapExecutionResult, error) {
	direction, err := validateSwap(pay, receive, payAmount)
	if err != nil {
		return SwapExecutionResult{}, err
	}
	if e.account == nil {
		return SwapExecutionResult{}, account.ErrServiceKeyMissing
	}

	result, err := e.executeDirection(ctx, direction, payAmount, minFor)
	metrics.SwapExecutions.WithLabelValues(direction.Pair(), metrics.Outcome(err)).Inc()
	if err != nil {
		e.logger.WithError(err).WithField("pair", direction.Pair()).Error("Swap failed")
		return SwapExecutionResult{}, err
	}

	e.logger.WithFields(logrus.Fields{
		"pair":    direction.Pair(),
		"digest":  result.TxDigest,
		"pay":     result.PayAmount,
		"receive": result.ReceiveAmount,
	}).Info("Swap executed")
	return result, nil
}

func (e *Engine) executeDirection(ctx context.Context, direction Direction, payAmount uint64, minFor func(SwapQuote) uint64) (SwapExecutionResult, error) {
	q, err := e.quote(ctx, direction, payAmount)
	if err != nil {
		return SwapExecutionResult{}, err
	}
	if q.ReceiveAmount == 0 {
		return SwapExecutionResult{}, ErrInvalidQuote
	}
	minReceive := minFor(q)
	if minReceive > q.ReceiveAmount {
		return SwapExecutionResult{}, fmt.Errorf("%w: quoted %d, minimum %d", ErrSlippageExceeded, q.ReceiveAmount, minReceive)
	}

	plan, err := e.plan(ctx, direction, payAmount)
	if err != nil {
		return SwapExecutionResult{}, err
	}

	payCoinID := plan.PayCoinID
	if plan.NeedsSplit {
		payCoinID, err = e.splitCoin(ctx, plan.SourceCoinID, payAmount, plan.GasCoinID)
		if err != nil {
			return SwapExecutionResult{}, err
		}
	}

	txBytes, err := e.buildMoveCall(ctx, direction, payCoinID, plan.GasCoinID, minReceive)
	if err != nil {
		return SwapExecutionResult{}, err
	}
	response, err := e.executeTransaction(ctx, txBytes)
	if err != nil {
		return SwapExecutionResult{}, err
	}
	if msg, ok := effectsError(response); !ok {
		return SwapExecutionResult{}, &ExecutionError{Stage: "swap", Message: msg}
	}
	return e.executionResult(response, q)
}

func (e *Engine) plan(ctx context.Context, direction Direction, payAmount uint64) (CoinPlan, error) {
	owner := e.account.Address()
	reserve := e.cfg.MinGasReserve()

	suiCoins, err := e.ListCoins(ctx, owner, SUICoinType)
	if err != nil {
		return CoinPlan{}, err
	}
	if direction == SUIToSWT {
		return PlanNativePayment(suiCoins, payAmount, reserve)
	}

	gas, err := SelectGasCoin(suiCoins, reserve)
	if err != nil {
		return CoinPlan{}, err
	}
	swtType, err := e.CoinType("SWT")
	if err != nil {
		return CoinPlan{}, err
	}
	swtCoins, err := e.ListCoins(ctx, owner, swtType)
	if err != nil {
		return CoinPlan{}, err
	}
	return PlanTokenPayment(gas.ID, swtCoins, payAmount)
}
