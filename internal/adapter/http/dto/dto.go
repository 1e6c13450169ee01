package dto

import (
	"strings"

	"wallet-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// OperationRequest is the request body for a wallet operation. Kind and
// sign are checked by the engine; here only shape and the NUMERIC(19,4)
// bounds of the balance column.
type OperationRequest struct {
	WalletID      string           `json:"walletId" binding:"required,uuid"`
	OperationType string           `json:"operationType" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,decimal_precision=19.4"`
}

// AmountOrZero returns the amount, or zero when it was omitted.
func (r OperationRequest) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// IdempotencyHeader binds the optional Idempotency-Key header.
type IdempotencyHeader struct {
	Key string `header:"Idempotency-Key" binding:"omitempty,max=128,safe_id"`
}

// WalletResponse is the wallet representation returned by every endpoint.
type WalletResponse struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
	Version int64  `json:"version"`
}

// NewWalletResponse maps a domain wallet to its wire form.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:      w.ID.String(),
		Balance: FormatBalance(w.Balance),
		Version: w.Version,
	}
}

// FormatBalance renders d with at least two fractional digits.
func FormatBalance(d decimal.Decimal) string {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return s
	}
	return d.StringFixed(2)
}

// DependencyStatus is one entry of HealthResponse.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}
