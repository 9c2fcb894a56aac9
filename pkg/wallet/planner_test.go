package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coins(balances ...uint64) []Coin {
	out := make([]Coin, len(balances))
	for i, b := range balances {
		out[i] = Coin{ID: string(rune('a' + i)), Balance: b}
	}
	return out
}

func TestPlanNativePayment(t *testing.T) {
	tests := []struct {
		name    string
		coins   []Coin
		amount  uint64
		reserve uint64
		want    CoinPlan
		wantErr error
	}{
		{
			name:    "gas coin covers both",
			coins:   coins(100),
			amount:  40,
			reserve: 50,
			want:    CoinPlan{GasCoinID: "a", SourceCoinID: "a", NeedsSplit: true},
		},
		{
			name:    "exact match in remaining coins",
			coins:   coins(40, 100, 40),
			amount:  40,
			reserve: 80,
			want:    CoinPlan{GasCoinID: "b", SourceCoinID: "a", PayCoinID: "a"},
		},
		{
			name:    "larger remaining coin is split",
			coins:   coins(100, 70, 30),
			amount:  40,
			reserve: 80,
			want:    CoinPlan{GasCoinID: "a", SourceCoinID: "b", NeedsSplit: true},
		},
		{
			name:    "gas exactly covers both",
			coins:   coins(90),
			amount:  40,
			reserve: 50,
			want:    CoinPlan{GasCoinID: "a", SourceCoinID: "a", NeedsSplit: true},
		},
		{
			name:    "no coins",
			coins:   nil,
			amount:  1,
			reserve: 1,
			wantErr: ErrInsufficientGas,
		},
		{
			name:    "gas candidate below reserve",
			coins:   coins(30, 20),
			amount:  1,
			reserve: 50,
			wantErr: ErrInsufficientGas,
		},
		{
			name:    "nothing funds the payment",
			coins:   coins(100, 30, 20),
			amount:  40,
			reserve: 80,
			wantErr: ErrCannotFundSwap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanNativePayment(tt.coins, tt.amount, tt.reserve)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan)
		})
	}
}

func TestPlanNativePaymentNeverPaysWithGasCoinUnsplit(t *testing.T) {
	plan, err := PlanNativePayment(coins(100, 40, 40), 40, 80)
	require.NoError(t, err)
	assert.False(t, plan.NeedsSplit)
	assert.Equal(t, "b", plan.PayCoinID)
	assert.NotEqual(t, plan.GasCoinID, plan.PayCoinID)
}

func TestPlanNativePaymentDoesNotMutateInput(t *testing.T) {
	in := coins(10, 300, 20)
	_, err := PlanNativePayment(in, 5, 100)
	require.NoError(t, err)
	assert.Equal(t, coins(10, 300, 20), in)
}

func TestSelectGasCoin(t *testing.T) {
	gas, err := SelectGasCoin(coins(20, 90, 60), 50)
	require.NoError(t, err)
	assert.Equal(t, Coin{ID: "b", Balance: 90}, gas)

	_, err = SelectGasCoin(coins(20, 30), 50)
	require.ErrorIs(t, err, ErrInsufficientGas)
	assert.Equal(t, CodeInsufficientFunds, Code(err))

	_, err = SelectGasCoin(nil, 50)
	require.ErrorIs(t, err, ErrInsufficientGas)
}

func TestPlanTokenPayment(t *testing.T) {
	tests := []struct {
		name    string
		coins   []Coin
		amount  uint64
		want    CoinPlan
		wantErr error
	}{
		{
			name:   "largest coin split",
			coins:  coins(5, 500, 50),
			amount: 40,
			want:   CoinPlan{GasCoinID: "gas", SourceCoinID: "b", NeedsSplit: true},
		},
		{
			name:   "exact coin used directly",
			coins:  coins(40),
			amount: 40,
			want:   CoinPlan{GasCoinID: "gas", SourceCoinID: "a", PayCoinID: "a"},
		},
		{
			name:   "equal balances keep listing order",
			coins:  coins(40, 40),
			amount: 40,
			want:   CoinPlan{GasCoinID: "gas", SourceCoinID: "a", PayCoinID: "a"},
		},
		{
			name:    "too small",
			coins:   coins(10, 20),
			amount:  40,
			wantErr: ErrCannotFundSwap,
		},
		{
			name:    "no coins",
			amount:  1,
			wantErr: ErrCannotFundSwap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanTokenPayment("gas", tt.coins, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, CodeCannotFundSwap, Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan)
		})
	}
}
