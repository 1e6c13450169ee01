package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"
	"wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OperationProcessorImpl implements ports.OperationProcessor. Each Apply is a
// single read-compute-CAS attempt; races are settled by the store's version
// check alone.
type OperationProcessorImpl struct {
	store    ports.WalletStore
	recorder ports.OperationRecorder
	log      zerolog.Logger
}

// NewOperationProcessor creates a new OperationProcessorImpl.
func NewOperationProcessor(store ports.WalletStore, recorder ports.OperationRecorder, log zerolog.Logger) *OperationProcessorImpl {
	return &OperationProcessorImpl{
		store:    store,
		recorder: recorder,
		log:      log,
	}
}

// Apply validates the operation, reads the wallet, computes the new balance
// and issues one conditional write. A conflict is returned, not retried.
func (p *OperationProcessorImpl) Apply(ctx context.Context, walletID uuid.UUID, kind domain.OperationType, amount decimal.Decimal) (*domain.Wallet, error) {
	start := time.Now()
	wallet, err := p.apply(ctx, walletID, kind, amount)
	p.recorder.Record(operationLabel(kind), outcomeOf(err), time.Since(start))
	return wallet, err
}

func (p *OperationProcessorImpl) apply(ctx context.Context, walletID uuid.UUID, kind domain.OperationType, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !kind.IsValid() {
		return nil, apperror.ErrInvalidOperationType()
	}

	wallet, err := p.store.Get(ctx, walletID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperror.WalletNotFound(walletID)
		}
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}

	var newBalance decimal.Decimal
	switch kind {
	case domain.OperationDeposit:
		newBalance = wallet.Balance.Add(amount)
	case domain.OperationWithdraw:
		if wallet.Balance.LessThan(amount) {
			return nil, apperror.ErrInsufficientFunds()
		}
		newBalance = wallet.Balance.Sub(amount)
	}

	version, err := p.store.ConditionalPut(ctx, walletID, newBalance, wallet.Version)
	if err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			p.log.Warn().
				Str("wallet_id", walletID.String()).
				Int64("base_version", wallet.Version).
				Str("operation", string(kind)).
				Msg("concurrent modification, not retried")
			return nil, apperror.ErrConcurrentModification()
		}
		if errors.Is(err, ports.ErrBalanceOutOfRange) {
			return nil, apperror.AmountOutOfRange()
		}
		return nil, apperror.InternalError(fmt.Errorf("conditional put: %w", err))
	}

	p.log.Info().
		Str("wallet_id", walletID.String()).
		Str("operation", string(kind)).
		Str("amount", amount.String()).
		Int64("version", version).
		Msg("wallet operation committed")

	return &domain.Wallet{ID: walletID, Balance: newBalance, Version: version}, nil
}

// operationLabel keeps metric label cardinality bounded.
func operationLabel(kind domain.OperationType) string {
	if !kind.IsValid() {
		return "unknown"
	}
	return string(kind)
}

func outcomeOf(err error) string {
	if err == nil {
		return ports.OutcomeCommitted
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return ports.OutcomeError
	}
	switch appErr.Code {
	case apperror.CodeConcurrentModification:
		return ports.OutcomeConflict
	case apperror.CodeInsufficientFunds:
		return ports.OutcomeInsufficientFunds
	case apperror.CodeWalletNotFound:
		return ports.OutcomeNotFound
	case apperror.CodeInvalidAmount, apperror.CodeInvalidOperationType:
		return ports.OutcomeInvalid
	default:
		return ports.OutcomeError
	}
}
