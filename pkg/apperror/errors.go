package apperror

import (
	"fmt"
	"net/http"
)

// Error codes returned to clients in the error envelope.
const (
	CodeWalletNotFound         = "WALLET_NOT_FOUND"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeInvalidOperationType   = "INVALID_OPERATION_TYPE"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeInvalidJSON            = "INVALID_JSON"
	CodeValidation             = "VALIDATION_ERROR"
	CodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	CodePayloadTooLarge        = "PAYLOAD_TOO_LARGE"
	CodeIdempotencyInProgress  = "IDEMPOTENCY_IN_PROGRESS"
	CodeIdempotencyKeyReused   = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal               = "INTERNAL_SERVER_ERROR"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, apperror.ErrWalletNotFound()) works regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet operations ----

func ErrWalletNotFound() *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusNotFound)
}

// WalletNotFound names the missing wallet in the message.
func WalletNotFound(id fmt.Stringer) *AppError {
	return New(CodeWalletNotFound, fmt.Sprintf("Wallet %s not found", id), http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient funds in wallet", http.StatusBadRequest)
}

func ErrInvalidOperationType() *AppError {
	return New(CodeInvalidOperationType, "Operation type must be DEPOSIT or WITHDRAW", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be a positive number", http.StatusBadRequest)
}

// AmountOutOfRange is INVALID_AMOUNT for an amount whose result the wallet
// store cannot hold exactly.
func AmountOutOfRange() *AppError {
	return New(CodeInvalidAmount,
		"Resulting balance exceeds 15 integer or 4 fractional digits",
		http.StatusBadRequest)
}

func ErrConcurrentModification() *AppError {
	return New(CodeConcurrentModification,
		"Wallet was modified by another operation, re-read and retry",
		http.StatusConflict)
}

// ---- Request shape ----

func ErrInvalidJSON() *AppError {
	return New(CodeInvalidJSON, "Malformed JSON request", http.StatusBadRequest)
}

// Validation returns a VALIDATION_ERROR with the given detail.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrPayloadTooLarge() *AppError {
	return New(CodePayloadTooLarge, "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Idempotency ----

func ErrIdempotencyInProgress() *AppError {
	return New(CodeIdempotencyInProgress,
		"A request with this Idempotency-Key is still being processed",
		http.StatusConflict)
}

func ErrIdempotencyKeyReused() *AppError {
	return New(CodeIdempotencyKeyReused,
		"Idempotency-Key was already used for a different request",
		http.StatusUnprocessableEntity)
}

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System ----

// InternalError wraps an internal error; the cause is never sent to the client.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
