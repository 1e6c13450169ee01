package domain

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitialVersion is the version stamp of a freshly created wallet.
const InitialVersion int64 = 0

// Wallet is a balance-bearing account. Balance is never negative and
// Version advances by exactly one on every committed mutation.
type Wallet struct {
	ID      uuid.UUID       `json:"id"`
	Balance decimal.Decimal `json:"balance"`
	Version int64           `json:"version"`
}

// NewWallet returns a wallet at InitialVersion.
func NewWallet(id uuid.UUID, balance decimal.Decimal) *Wallet {
	return &Wallet{ID: id, Balance: balance, Version: InitialVersion}
}

// OperationType is the kind of balance mutation requested by a caller.
type OperationType string

const (
	OperationDeposit  OperationType = "DEPOSIT"
	OperationWithdraw OperationType = "WITHDRAW"
)

// ParseOperationType matches s exactly, as the wire enum is case-sensitive.
// Anything else fails IsValid.
func ParseOperationType(s string) OperationType {
	return OperationType(s)
}

// IsValid reports whether t is DEPOSIT or WITHDRAW.
func (t OperationType) IsValid() bool {
	return t == OperationDeposit || t == OperationWithdraw
}

// Durable stores keep balances as NUMERIC(19,4).
const (
	BalancePrecision int32 = 19
	BalanceScale     int32 = 4
)

// maxCoefficientBits bounds the coefficient before any digit counting so
// inputs like 1e50000000 are rejected without being expanded.
const maxCoefficientBits = 256

var ten = big.NewInt(10)

// FitsPrecision reports whether d can be stored in a NUMERIC(precision,
// scale) column without rounding. Trailing fractional zeros are ignored.
// It never renders d, so exponent-notation values stay cheap.
func FitsPrecision(d decimal.Decimal, precision, scale int32) bool {
	coef := new(big.Int).Abs(d.Coefficient())
	if coef.Sign() == 0 {
		return true
	}
	if coef.BitLen() > maxCoefficientBits {
		return false
	}

	exp := int64(d.Exponent())
	q, r := new(big.Int), new(big.Int)
	for exp < 0 {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			break
		}
		coef.Set(q)
		exp++
	}

	if -exp > int64(scale) {
		return false
	}
	intDigits := int64(len(coef.String())) + exp
	return intDigits <= int64(precision-scale)
}

// FitsBalance reports whether d fits the stored balance column.
func FitsBalance(d decimal.Decimal) bool {
	return FitsPrecision(d, BalancePrecision, BalanceScale)
}
