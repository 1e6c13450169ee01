package handler

import (
	"errors"
	"net/http"

	"wallet-service/internal/adapter/http/dto"
	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"
	"wallet-service/pkg/apperror"
	"wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	processor ports.OperationProcessor
	reader    ports.WalletReader
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(processor ports.OperationProcessor, reader ports.WalletReader) *WalletHandler {
	return &WalletHandler{processor: processor, reader: reader}
}

// ApplyOperation handles POST /api/v1/wallets.
func (h *WalletHandler) ApplyOperation(c *gin.Context) {
	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		response.Error(c, apperror.Validation("walletId must be a UUID"))
		return
	}

	wallet, err := h.processor.Apply(
		c.Request.Context(),
		walletID,
		domain.ParseOperationType(req.OperationType),
		req.AmountOrZero(),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// GetWallet handles GET /api/v1/wallets/:id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a UUID"))
		return
	}

	wallet, err := h.reader.Get(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// bindError separates unreadable bodies from well-formed ones that fail
// field validation.
func bindError(err error) *apperror.AppError {
	var (
		maxBytesErr *http.MaxBytesError
		validErrs   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &maxBytesErr):
		return apperror.ErrPayloadTooLarge()
	case errors.As(err, &validErrs) && len(validErrs) > 0:
		return apperror.Validation(validationMessage(validErrs[0]))
	default:
		// Syntax errors, wrong JSON types, empty bodies and amounts that are
		// not numbers all land here.
		return apperror.ErrInvalidJSON()
	}
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a UUID"
	case "decimal_precision":
		return field + " must have at most 15 integer and 4 fractional digits"
	default:
		return field + " is invalid"
	}
}
