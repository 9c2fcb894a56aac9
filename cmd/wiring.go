package cmd

import (
	"context"
	"fmt"

	"suiworld-swap/config"
	"suiworld-swap/pkg/account"
	"suiworld-swap/pkg/chainrpc"
	"suiworld-swap/pkg/idempotency"
	"suiworld-swap/pkg/treasury"
	"suiworld-swap/pkg/wallet"
)

// services holds the long-lived clients shared by every command.
type services struct {
	client   *chainrpc.Client
	evm      *treasury.EVMBalance
	engine   *wallet.Engine
	treasury *treasury.Manager
}

func newServices(ctx context.Context) (*services, error) {
	cfg := config.Get()
	client, err := chainrpc.NewClient(ctx, cfg.RPC(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sui node: %w", err)
	}

	// Without a service key the engine still reads the ledger and quotes.
	acct, err := account.FromBase64(cfg.ServiceKey)
	switch {
	case err == nil:
		logger.WithField("address", acct.Address()).Debug("service account loaded")
	case cfg.ServiceKey == "":
		acct = nil
		logger.Warn("SUIWORLD_SERVICE_KEY not set, running read-only")
	default:
		client.Close()
		return nil, err
	}

	cache, err := idempotency.New[wallet.SwapExecutionResult](idempotency.DefaultCapacity)
	if err != nil {
		client.Close()
		return nil, err
	}

	s := &services{client: client}
	s.engine = wallet.NewEngine(client, acct, cache, cfg.Wallet(), logger)

	var evm treasury.EVMBalanceSource
	if cfg.ETHRPCURL != "" {
		s.evm, err = treasury.NewEVMBalance(ctx, cfg.ETHRPCURL)
		if err != nil {
			logger.WithError(err).Warn("ethereum balance source unavailable, using static ETH balance")
		} else {
			evm = s.evm
		}
	}
	s.treasury = treasury.NewManager(s.engine, evm, cfg.Treasury(), logger)
	return s, nil
}

func (s *services) Close() {
	if s.evm != nil {
		s.evm.Close()
	}
	s.client.Close()
}

func mustServices(ctx context.Context) *services {
	s, err := newServices(ctx)
	if err != nil {
		exitWith(err)
	}
	return s
}
