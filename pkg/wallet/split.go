package wallet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// splitCoin carves amount out of sourceCoinID and returns the new coin's id.
// Failure is terminal for the current swap.
func (e *Engine) splitCoin(ctx context.Context, sourceCoinID string, amount uint64, gasCoinID string) (string, error) {
	address := e.account.Address()

	var built unsignedTx
	err := e.caller.Call(ctx, &built, "unsafe_splitCoin",
		address,
		sourceCoinID,
		[]string{strconv.FormatUint(amount, 10)},
		gasCoinID,
		strconv.FormatUint(e.cfg.GasBudgetSplit, 10),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build split transaction: %w", err)
	}
	if built.TxBytes == "" {
		return "", fmt.Errorf("%w: node returned no transaction bytes", ErrSplitFailed)
	}

	response, err := e.executeTransaction(ctx, built.TxBytes)
	if err != nil {
		return "", err
	}
	if msg, ok := effectsError(response); !ok {
		return "", fmt.Errorf("%w: %s", ErrSplitFailed, msg)
	}

	var coinID string
	response.Get("effects.created").ForEach(func(_, created gjson.Result) bool {
		if strings.EqualFold(created.Get("owner.AddressOwner").String(), address) {
			coinID = created.Get("reference.objectId").String()
		}
		return coinID == ""
	})
	if coinID == "" {
		e.logger.WithField("source_coin", sourceCoinID).Error("Split did not create a coin owned by the service account")
		return "", fmt.Errorf("%w: no created coin owned by %s", ErrSplitFailed, address)
	}

	e.logger.WithFields(logrus.Fields{
		"source_coin": sourceCoinID,
		"coin_id":     coinID,
		"amount":      amount,
	}).Debug("Split coin")
	return coinID, nil
}
