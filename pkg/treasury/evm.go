package treasury

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
)

// EVMBalance reads native balances from an EVM JSON-RPC endpoint.
type EVMBalance struct {
	client *ethclient.Client
}

// NewEVMBalance connects to the node at rpcURL.
func NewEVMBalance(ctx context.Context, rpcURL string) (*EVMBalance, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("EVM RPC URL not configured")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return &EVMBalance{client: client}, nil
}

// BalanceAt returns the latest balance of address in wei.
func (e *EVMBalance) BalanceAt(ctx context.Context, address string) (*uint256.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid EVM address: %s", address)
	}
	balance, err := e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	wei, overflow := uint256.FromBig(balance)
	if overflow {
		return nil, fmt.Errorf("balance of %s overflows 256 bits", address)
	}
	return wei, nil
}

// Close releases the connection.
func (e *EVMBalance) Close() {
	e.client.Close()
}
