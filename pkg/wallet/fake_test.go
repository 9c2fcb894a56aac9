package wallet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"suiworld-swap/pkg/account"
	"suiworld-swap/pkg/chainrpc"
)

type handler func(params []interface{}) (interface{}, error)

// fakeChain is an in-memory chainrpc.Caller that round-trips results through
// JSON like the real client.
type fakeChain struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{handlers: make(map[string]handler)}
}

func (f *fakeChain) on(method string, h handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeChain) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, method)
	h := f.handlers[method]
	f.mu.Unlock()

	if h == nil {
		return fmt.Errorf("%w: unexpected method %s", chainrpc.ErrChainUnavailable, method)
	}
	out, err := h(params)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (f *fakeChain) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.calls {
		if m == method {
			n++
		}
	}
	return n
}

func (f *fakeChain) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func raw(format string, args ...interface{}) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, args...))
}

func poolObject(sui, swt uint64) json.RawMessage {
	return raw(`{"data":{"objectId":"0xpool","content":{"dataType":"moveObject","fields":{
		"sui_balance":{"type":"0x2::balance::Balance<0x2::sui::SUI>","fields":{"value":"%d"}},
		"swt_balance":{"fields":{"balance":{"fields":{"value":"%d"}}}}}}}}`, sui, swt)
}

func coinsPage(coins ...Coin) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteString(`{"data":[`)
	for i, c := range coins {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"coinObjectId":%q,"balance":"%d"}`, c.ID, c.Balance)
	}
	buf.WriteString(`],"hasNextPage":false,"nextCursor":null}`)
	return buf.Bytes()
}

func testDigest(fill byte) string {
	return base58.Encode(bytes.Repeat([]byte{fill}, digestLen))
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testAccount(t *testing.T) *account.ServiceAccount {
	t.Helper()
	secret := make([]byte, 33)
	for i := 1; i < len(secret); i++ {
		secret[i] = byte(i)
	}
	acct, err := account.FromBase64(base64.StdEncoding.EncodeToString(secret))
	require.NoError(t, err)
	return acct
}

var testConfig = Config{
	PackageID:          "0xpkg",
	PoolID:             "0xpool",
	FeeBps:             30,
	GasBudgetSplit:     20,
	GasBudgetSwap:      20,
	GasCushion:         10,
	CoinPageSize:       200,
	DefaultSlippageBps: 30,
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestEngine(t *testing.T, chain *fakeChain, cfg Config) *Engine {
	t.Helper()
	engine := NewEngine(chain, testAccount(t), nil, cfg, quietLogger())
	engine.now = func() time.Time { return fixedNow }
	return engine
}
