package api

import (
	"errors"
	"net/http"

	"suiworld-swap/pkg/wallet"
)

// Codes produced by the HTTP layer itself.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeQuoteExpired   = "QUOTE_EXPIRED"
)

var (
	errInvalidRequest = errors.New("invalid request body")
	errQuoteExpired   = errors.New("quote has expired, request a new one")
)

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case wallet.CodeSameAsset, wallet.CodeAssetUnsupported, wallet.CodeInvalidAmount, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeQuoteExpired:
		return http.StatusConflict
	case wallet.CodeSwapFailed:
		return http.StatusBadGateway
	case wallet.CodeChainUnavailable, wallet.CodeInsufficientFunds, wallet.CodeCannotFundSwap:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := wallet.Code(err)
	switch {
	case errors.Is(err, errInvalidRequest):
		code = CodeInvalidRequest
	case errors.Is(err, errQuoteExpired):
		code = CodeQuoteExpired
	}

	s.writeErrorStatus(w, err, code, StatusFor(code))
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, err error, code string, status int) {
	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("Unhandled wallet error")
		detail = "internal error"
	} else if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("code", code).Warn("Wallet request failed")
	}
	writeJSON(w, status, errorResponse{Detail: detail, Code: code})
}
