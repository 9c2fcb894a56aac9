package types

// SwapCommand is a swap parsed from the command line, amounts still in
// display units.
type SwapCommand struct {
	Amount        string
	PaySymbol     string
	ReceiveSymbol string
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	PayAmount     string `json:"payAmount"`
	PaySymbol     string `json:"paySymbol"`
	ReceiveAmount string `json:"receiveAmount"`
	ReceiveSymbol string `json:"receiveSymbol"`
	Price         string `json:"price"`
	FeeAmount     string `json:"feeAmount"`
	FeeRateBps    uint64 `json:"feeRateBps"`
	MinReceive    string `json:"minReceiveAmount"`
	SlippageBps   uint64 `json:"slippageBps"`
	PoolSUI       string `json:"poolSui"`
	PoolSWT       string `json:"poolSwt"`
}

// SwapReceipt is the formatted outcome of an executed swap.
type SwapReceipt struct {
	TxDigest       string `json:"txDigest"`
	ExecutedAt     string `json:"executedAt"`
	PayAmount      string `json:"payAmount"`
	PaySymbol      string `json:"paySymbol"`
	ReceiveAmount  string `json:"receiveAmount"`
	ReceiveSymbol  string `json:"receiveSymbol"`
	IdempotencyKey string `json:"idempotencyKey"`
}
