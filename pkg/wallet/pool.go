package wallet

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// reserveShapes are the paths a reserve amount may sit under inside a pool
// field, tried in order: a plain Balance<T> and a wrapped balance-of-balance.
var reserveShapes = []string{
	"fields.value",
	"fields.balance.fields.value",
}

func decodePool(raw json.RawMessage) (PoolState, error) {
	fields := gjson.GetBytes(raw, "data.content.fields")
	if !fields.IsObject() {
		return PoolState{}, fmt.Errorf("%w: content fields missing", ErrMalformedPoolObject)
	}

	sui, err := decodeReserve(fields.Get("sui_balance"))
	if err != nil {
		return PoolState{}, fmt.Errorf("sui_balance: %w", err)
	}
	swt, err := decodeReserve(fields.Get("swt_balance"))
	if err != nil {
		return PoolState{}, fmt.Errorf("swt_balance: %w", err)
	}
	return PoolState{SUIReserve: sui, SWTReserve: swt}, nil
}

func decodeReserve(field gjson.Result) (uint64, error) {
	for _, path := range reserveShapes {
		value := field.Get(path)
		if !value.Exists() {
			continue
		}
		n, ok := parseUint(value)
		if !ok {
			return 0, fmt.Errorf("%w: reserve value %s", ErrMalformedPoolObject, value.Raw)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: unrecognised balance shape", ErrMalformedPoolObject)
}

// parseUint accepts u64 values encoded either as JSON strings or numbers.
func parseUint(value gjson.Result) (uint64, bool) {
	var text string
	switch value.Type {
	case gjson.String:
		text = value.Str
	case gjson.Number:
		text = value.Raw
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseInt(value gjson.Result) (int64, bool) {
	var text string
	switch value.Type {
	case gjson.String:
		text = value.Str
	case gjson.Number:
		text = value.Raw
	default:
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
