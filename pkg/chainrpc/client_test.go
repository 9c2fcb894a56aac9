package chainrpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler func(req rpcRequest) string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, handler(req))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{URL: srv.URL, Timeout: 2 * time.Second}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestCallDecodesResult(t *testing.T) {
	var seen rpcRequest
	client := newTestClient(t, func(req rpcRequest) string {
		seen = req
		return `{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":{"totalBalance":"42"}}`
	})

	var out struct {
		TotalBalance string `json:"totalBalance"`
	}
	err := client.Call(context.Background(), &out, "suix_getBalance", "0xabc", "0x2::sui::SUI")
	require.NoError(t, err)

	assert.Equal(t, "42", out.TotalBalance)
	assert.Equal(t, "2.0", seen.JSONRPC)
	assert.Equal(t, "suix_getBalance", seen.Method)
	require.Len(t, seen.Params, 2)
	assert.JSONEq(t, `"0xabc"`, string(seen.Params[0]))
}

func TestCallMapsRPCError(t *testing.T) {
	client := newTestClient(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":{"code":-32602,"message":"Invalid params"}}`
	})

	err := client.Call(context.Background(), nil, "sui_getObject", "0x1")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, "Invalid params", rpcErr.Message)
	assert.NotErrorIs(t, err, ErrChainUnavailable)
}

func TestCallNullResultIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":null}`
	})

	var out map[string]interface{}
	err := client.Call(context.Background(), &out, "sui_getObject", "0x1")
	require.ErrorIs(t, err, ErrChainUnavailable)
}

func TestCallMissingResultIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":` + string(req.ID) + `}`
	})

	err := client.Call(context.Background(), nil, "sui_getObject", "0x1")
	require.ErrorIs(t, err, ErrChainUnavailable)
}

func TestCallHTTPFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{URL: srv.URL}, quietLogger())
	require.NoError(t, err)

	err = client.Call(context.Background(), nil, "suix_getBalance", "0x1", "0x2::sui::SUI")
	require.ErrorIs(t, err, ErrChainUnavailable)
}

func TestCallUnreachableNodeIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(context.Background(), Config{URL: url, Timeout: time.Second}, quietLogger())
	require.NoError(t, err)

	err = client.Call(context.Background(), nil, "suix_getBalance")
	require.ErrorIs(t, err, ErrChainUnavailable)
}

func TestCallCancelledContextIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"ok"}`
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.Call(ctx, nil, "sui_getObject", "0x1")
	require.ErrorIs(t, err, ErrChainUnavailable)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, quietLogger())
	require.Error(t, err)
}
