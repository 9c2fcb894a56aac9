package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"suiworld-swap/pkg/amount"
	"suiworld-swap/pkg/treasury"
	"suiworld-swap/pkg/wallet"
)

// IdempotencyHeader carries the idempotency key when the body omits it.
const IdempotencyHeader = "Idempotency-Key"

const maxBodyBytes = 1 << 16

type quoteRequest struct {
	PaySymbol     string `json:"paySymbol"`
	ReceiveSymbol string `json:"receiveSymbol"`
	PayAmount     string `json:"payAmount"`
	SlippageBps   uint64 `json:"slippageBps,omitempty"`
}

type quoteResponse struct {
	PaySymbol        string    `json:"paySymbol"`
	ReceiveSymbol    string    `json:"receiveSymbol"`
	PayAmount        string    `json:"payAmount"`
	ReceiveAmount    string    `json:"receiveAmount"`
	FeeRateBps       uint64    `json:"feeRateBps"`
	FeeAmount        string    `json:"feeAmount"`
	Price            string    `json:"price"`
	SlippageBps      uint64    `json:"slippageBps"`
	MinReceiveAmount string    `json:"minReceiveAmount"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

type executeRequest struct {
	PaySymbol        string     `json:"paySymbol"`
	ReceiveSymbol    string     `json:"receiveSymbol"`
	PayAmount        string     `json:"payAmount"`
	MinReceiveAmount string     `json:"minReceiveAmount,omitempty"`
	SlippageBps      uint64     `json:"slippageBps,omitempty"`
	IdempotencyKey   string     `json:"idempotencyKey,omitempty"`
	QuoteExpiresAt   *time.Time `json:"quoteExpiresAt,omitempty"`
}

type executeResponse struct {
	TxDigest      string    `json:"txDigest"`
	Chain         string    `json:"chain"`
	ExecutedAt    time.Time `json:"executedAt"`
	PaySymbol     string    `json:"paySymbol"`
	ReceiveSymbol string    `json:"receiveSymbol"`
	PayAmount     string    `json:"payAmount"`
	ReceiveAmount string    `json:"receiveAmount"`
}

type addressResponse struct {
	Symbol  string `json:"symbol"`
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.treasury.Summary(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summary.Assets == nil {
		summary.Assets = []treasury.AssetSummary{}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) getAddress(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	chain, address, err := s.treasury.Address(symbol)
	if code := wallet.Code(err); code == wallet.CodeAssetUnsupported {
		s.writeErrorStatus(w, err, code, http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addressResponse{Symbol: symbol, Chain: chain, Address: address})
}

func (s *Server) postQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	payAsset, receiveAsset, payAmount, err := parsePayment(req.PaySymbol, req.ReceiveSymbol, req.PayAmount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	slippage, err := s.slippage(req.SlippageBps)
	if err != nil {
		s.writeError(w, err)
		return
	}

	quote, err := s.swapper.ComputeSwapQuote(r.Context(), payAsset.Symbol, receiveAsset.Symbol, payAmount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		PaySymbol:        payAsset.Symbol,
		ReceiveSymbol:    receiveAsset.Symbol,
		PayAmount:        amount.FormatFixed(quote.PayAmount, payAsset.Decimals),
		ReceiveAmount:    amount.FormatFixed(quote.ReceiveAmount, receiveAsset.Decimals),
		FeeRateBps:       quote.FeeBps,
		FeeAmount:        amount.FormatFixed(quote.FeeAmount, payAsset.Decimals),
		Price:            wallet.Price(quote),
		SlippageBps:      slippage,
		MinReceiveAmount: amount.FormatFixed(wallet.MinReceive(quote.ReceiveAmount, slippage), receiveAsset.Decimals),
		ExpiresAt:        s.now().UTC().Add(s.quoteTTL),
	})
}

func (s *Server) postExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.QuoteExpiresAt != nil && s.now().After(*req.QuoteExpiresAt) {
		s.writeError(w, errQuoteExpired)
		return
	}

	payAsset, receiveAsset, payAmount, err := parsePayment(req.PaySymbol, req.ReceiveSymbol, req.PayAmount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var minReceive uint64
	if strings.TrimSpace(req.MinReceiveAmount) != "" {
		if minReceive, err = amount.Parse(req.MinReceiveAmount, receiveAsset.Decimals); err != nil {
			s.writeError(w, fmt.Errorf("minReceiveAmount: %w", err))
			return
		}
	}
	if _, err := s.slippage(req.SlippageBps); err != nil {
		s.writeError(w, err)
		return
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	}

	result, err := s.swapper.Execute(r.Context(), wallet.SwapRequest{
		PaySymbol:      payAsset.Symbol,
		ReceiveSymbol:  receiveAsset.Symbol,
		PayAmount:      payAmount,
		MinReceive:     minReceive,
		SlippageBps:    req.SlippageBps,
		IdempotencyKey: key,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		TxDigest:      result.TxDigest,
		Chain:         payAsset.Chain,
		ExecutedAt:    result.ExecutedAt,
		PaySymbol:     result.PaySymbol,
		ReceiveSymbol: result.ReceiveSymbol,
		PayAmount:     amount.FormatFixed(result.PayAmount, payAsset.Decimals),
		ReceiveAmount: amount.FormatFixed(result.ReceiveAmount, receiveAsset.Decimals),
	})
}

// parsePayment checks the pair before reading the amount, which needs the
// pay asset's decimals.
func parsePayment(pay, receive, value string) (wallet.Asset, wallet.Asset, uint64, error) {
	if _, err := wallet.ResolvePair(pay, receive); err != nil {
		return wallet.Asset{}, wallet.Asset{}, 0, err
	}
	payAsset, err := wallet.LookupAsset(pay)
	if err != nil {
		return wallet.Asset{}, wallet.Asset{}, 0, err
	}
	receiveAsset, err := wallet.LookupAsset(receive)
	if err != nil {
		return wallet.Asset{}, wallet.Asset{}, 0, err
	}
	payAmount, err := amount.Parse(value, payAsset.Decimals)
	if err != nil {
		return wallet.Asset{}, wallet.Asset{}, 0, fmt.Errorf("payAmount: %w", err)
	}
	return payAsset, receiveAsset, payAmount, nil
}

func (s *Server) slippage(requested uint64) (uint64, error) {
	if requested == 0 {
		requested = s.defaultSlippageBps
	}
	if requested >= wallet.BpsScale {
		return 0, fmt.Errorf("%w: slippage %d bps", amount.ErrInvalidAmount, requested)
	}
	return requested, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}
