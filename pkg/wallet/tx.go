package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/tidwall/gjson"
)

const (
	swapModule  = "swap"
	waitForCert = "WaitForEffectsCert"
	digestLen   = 32
)

var executeOptions = map[string]bool{
	"showEffects":        true,
	"showEvents":         false,
	"showObjectChanges":  true,
	"showBalanceChanges": true,
}

type unsignedTx struct {
	TxBytes string `json:"txBytes"`
}

func moveArgs(poolID, payCoinID string, minReceive uint64) []map[string]string {
	return []map[string]string{
		{"type": "object", "objectId": poolID},
		{"type": "object", "objectId": payCoinID},
		{"type": "pure", "valueType": "u64", "value": strconv.FormatUint(minReceive, 10)},
	}
}

// buildMoveCall asks the node for the unsigned bytes of a swap call.
func (e *Engine) buildMoveCall(ctx context.Context, direction Direction, payCoinID, gasCoinID string, minReceive uint64) (string, error) {
	if e.cfg.PackageID == "" {
		return "", fmt.Errorf("%w: package id not configured", ErrAddressUnavailable)
	}

	var built unsignedTx
	err := e.caller.Call(ctx, &built, "unsafe_moveCall",
		e.account.Address(),
		e.cfg.PackageID,
		swapModule,
		direction.Function(),
		[]string{},
		moveArgs(e.cfg.PoolID, payCoinID, minReceive),
		gasCoinID,
		strconv.FormatUint(e.cfg.GasBudgetSwap, 10),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build swap transaction: %w", err)
	}
	if built.TxBytes == "" {
		return "", &ExecutionError{Stage: "build", Message: "node returned no transaction bytes"}
	}
	return built.TxBytes, nil
}

// executeTransaction signs txBytes and submits them, waiting for the effects
// certificate.
func (e *Engine) executeTransaction(ctx context.Context, txBytes string) (gjson.Result, error) {
	signature, err := e.account.SignTransaction(txBytes)
	if err != nil {
		return gjson.Result{}, &ExecutionError{Stage: "sign", Message: err.Error()}
	}

	var raw json.RawMessage
	err = e.caller.Call(ctx, &raw, "sui_executeTransactionBlock", txBytes, []string{signature}, executeOptions, waitForCert)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute transaction: %w", err)
	}
	return gjson.ParseBytes(raw), nil
}

// effectsError returns the chain's error text when the effects status is not
// success. ok is true for a successful transaction.
func effectsError(response gjson.Result) (message string, ok bool) {
	status := response.Get("effects.status")
	if status.Get("status").String() == "success" {
		return "", true
	}
	if msg := status.Get("error").String(); msg != "" {
		return msg, false
	}
	return "transaction did not succeed", false
}

func (e *Engine) executionResult(response gjson.Result, q SwapQuote) (SwapExecutionResult, error) {
	digest := response.Get("digest").String()
	if decoded, err := base58.Decode(digest); err != nil || len(decoded) != digestLen {
		return SwapExecutionResult{}, &ExecutionError{Stage: "execute", Message: fmt.Sprintf("malformed transaction digest %q", digest)}
	}

	executedAt := e.now().UTC()
	if ms := response.Get("timestampMs"); ms.Exists() {
		if n, ok := parseUint(ms); ok {
			executedAt = time.UnixMilli(int64(n)).UTC()
		}
	}

	received := q.ReceiveAmount
	if n, ok := e.receivedAmount(response, q.ReceiveSymbol); ok {
		received = n
	}

	return SwapExecutionResult{
		TxDigest:      digest,
		ExecutedAt:    executedAt,
		PaySymbol:     q.PaySymbol,
		ReceiveSymbol: q.ReceiveSymbol,
		PayAmount:     q.PayAmount,
		ReceiveAmount: received,
	}, nil
}

// receivedAmount returns the service account's net credit of the receive coin
// type. SUI also pays for gas, so the gas fee is added back for that coin.
func (e *Engine) receivedAmount(response gjson.Result, receiveSymbol string) (uint64, bool) {
	coinType, err := e.CoinType(receiveSymbol)
	if err != nil {
		return 0, false
	}
	address := e.account.Address()

	var (
		net   int64
		found bool
	)
	response.Get("balanceChanges").ForEach(func(_, change gjson.Result) bool {
		if !strings.EqualFold(change.Get("owner.AddressOwner").String(), address) {
			return true
		}
		if change.Get("coinType").String() != coinType {
			return true
		}
		if n, ok := parseInt(change.Get("amount")); ok {
			net += n
			found = true
		}
		return true
	})
	if !found {
		return 0, false
	}

	if coinType == SUICoinType {
		gas, ok := gasFee(response.Get("effects.gasUsed"))
		if !ok {
			return 0, false
		}
		net += gas
	}
	if net <= 0 {
		return 0, false
	}
	return uint64(net), true
}

// gasFee is computation plus storage cost minus the storage rebate.
func gasFee(used gjson.Result) (int64, bool) {
	computation, ok1 := parseInt(used.Get("computationCost"))
	storage, ok2 := parseInt(used.Get("storageCost"))
	rebate, ok3 := parseInt(used.Get("storageRebate"))
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return computation + storage - rebate, true
}
