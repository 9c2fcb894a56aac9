package chainrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"suiworld-swap/pkg/metrics"
)

// DefaultTimeout bounds a single RPC round trip.
const DefaultTimeout = 15 * time.Second

var (
	// ErrChainUnavailable covers unreachable nodes, non-2xx responses,
	// timeouts and responses without a result.
	ErrChainUnavailable = errors.New("chain unavailable")
)

// RPCError is a well-formed JSON-RPC error returned by the node.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("chain rpc error %d: %s", e.Code, e.Message)
}

// Caller issues one JSON-RPC request and decodes its result.
type Caller interface {
	Call(ctx context.Context, result interface{}, method string, params ...interface{}) error
}

// Config holds the transport settings.
type Config struct {
	URL       string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
}

// Client is a JSON-RPC 2.0 client for a ledger full node.
type Client struct {
	rpc     *rpc.Client
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

// NewClient creates a client for the node at cfg.URL.
func NewClient(ctx context.Context, cfg Config, logger logrus.FieldLogger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	httpClient := &http.Client{Timeout: timeout}
	client, err := rpc.DialOptions(ctx, cfg.URL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	c := &Client{
		rpc:    client,
		logger: logger.WithField("component", "chainrpc"),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Call sends method with positional params and unmarshals the result into
// result. It never retries.
func (c *Client) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrChainUnavailable, err)
		}
	}
	if params == nil {
		params = []interface{}{}
	}

	start := time.Now()
	var raw json.RawMessage
	err := c.rpc.CallContext(ctx, &raw, method, params...)
	metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	err = classify(method, raw, err)
	metrics.RPCRequests.WithLabelValues(method, metrics.Outcome(err)).Inc()
	if err != nil {
		c.logger.WithError(err).WithField("method", method).Error("RPC call failed")
		return err
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", ErrChainUnavailable, method, err)
	}
	return nil
}

// Close releases the underlying transport.
func (c *Client) Close() {
	c.rpc.Close()
}

func classify(method string, raw json.RawMessage, err error) error {
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return &RPCError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
		}
		if errors.Is(err, rpc.ErrNoResult) {
			return fmt.Errorf("%w: %s returned no result", ErrChainUnavailable, method)
		}
		return fmt.Errorf("%w: %s: %v", ErrChainUnavailable, method, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: %s returned no result", ErrChainUnavailable, method)
	}
	return nil
}
