package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/middleware"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/response"
	"github.com/dalikhouaja008/B-rich-backend/internal/usecases"
)

type bridgeService interface {
	FundWalletFromAccount(ctx context.Context, userID uuid.UUID, input *entities.FundWalletInput) (*entities.Wallet, error)
	ConvertCurrency(ctx context.Context, userID uuid.UUID, input *entities.ConvertCurrencyInput) (*entities.Wallet, error)
}

// BridgeHandler handles account-to-wallet funding endpoints
type BridgeHandler struct {
	bridgeUsecase bridgeService
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(bridgeUsecase *usecases.BridgeUsecase) *BridgeHandler {
	return &BridgeHandler{bridgeUsecase: bridgeUsecase}
}

// FundWallet moves value from a bank account into the user's wallet
// POST /api/v1/bridge/fund
func (h *BridgeHandler) FundWallet(c *gin.Context) {
	var input entities.FundWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	wallet, err := h.bridgeUsecase.FundWalletFromAccount(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// ConvertCurrency converts a fiat amount into the user's wallet
// POST /api/v1/bridge/convert
func (h *BridgeHandler) ConvertCurrency(c *gin.Context) {
	var input entities.ConvertCurrencyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	wallet, err := h.bridgeUsecase.ConvertCurrency(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}
