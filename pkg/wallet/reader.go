package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// GetBalance returns the total balance of coinType held by address.
func (e *Engine) GetBalance(ctx context.Context, address, coinType string) (uint64, error) {
	var raw json.RawMessage
	if err := e.caller.Call(ctx, &raw, "suix_getBalance", address, coinType); err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	total := gjson.GetBytes(raw, "totalBalance")
	if !total.Exists() {
		return 0, fmt.Errorf("%w: totalBalance missing", ErrInvalidBalancePayload)
	}
	balance, ok := parseUint(total)
	if !ok {
		return 0, fmt.Errorf("%w: totalBalance %s", ErrInvalidBalancePayload, total.Raw)
	}
	return balance, nil
}

// GetPoolState reads the current reserves of the pool object poolID. Every
// call goes to the node.
func (e *Engine) GetPoolState(ctx context.Context, poolID string) (PoolState, error) {
	if poolID == "" {
		return PoolState{}, fmt.Errorf("%w: swap pool id not configured", ErrMalformedPoolObject)
	}

	var raw json.RawMessage
	opts := map[string]interface{}{"showContent": true}
	if err := e.caller.Call(ctx, &raw, "sui_getObject", poolID, opts); err != nil {
		return PoolState{}, fmt.Errorf("failed to get pool object: %w", err)
	}
	return decodePool(raw)
}

type coinPage struct {
	Data []struct {
		CoinObjectID string `json:"coinObjectId"`
		Balance      string `json:"balance"`
	} `json:"data"`
	HasNextPage bool    `json:"hasNextPage"`
	NextCursor  *string `json:"nextCursor"`
}

// ListCoins pages through every coin of coinType owned by owner.
func (e *Engine) ListCoins(ctx context.Context, owner, coinType string) ([]Coin, error) {
	if owner == "" {
		return nil, ErrAddressUnavailable
	}

	var (
		coins  []Coin
		cursor *string
	)
	for {
		var page coinPage
		if err := e.caller.Call(ctx, &page, "suix_getCoins", owner, coinType, cursor, e.cfg.CoinPageSize); err != nil {
			return nil, fmt.Errorf("failed to list coins: %w", err)
		}
		for _, c := range page.Data {
			balance, err := strconv.ParseUint(c.Balance, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: coin %s balance %q", ErrInvalidBalancePayload, c.CoinObjectID, c.Balance)
			}
			coins = append(coins, Coin{ID: c.CoinObjectID, Balance: balance})
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return coins, nil
		}
		cursor = page.NextCursor
	}
}
