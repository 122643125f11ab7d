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

type transferService interface {
	Transfer(ctx context.Context, userID uuid.UUID, input *entities.TransferInput) (*entities.TransferResult, error)
}

// TransferHandler handles transfer endpoints
type TransferHandler struct {
	transferUsecase transferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferUsecase *usecases.TransferUsecase) *TransferHandler {
	return &TransferHandler{transferUsecase: transferUsecase}
}

// Transfer executes a wallet-to-wallet transfer
// POST /api/v1/transfers
func (h *TransferHandler) Transfer(c *gin.Context) {
	var input entities.TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	result, err := h.transferUsecase.Transfer(c.Request.Context(), userID, &input)
	if err != nil {
		// a ledger-failed transfer still carries its signature
		if result != nil {
			status := domainerrors.StatusCode(err)
			c.JSON(status, gin.H{
				"code":    status,
				"message": err.Error(),
				"result":  result,
			})
			return
		}
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == entities.TransactionStatusPending {
		status = http.StatusAccepted
	}
	response.Success(c, status, gin.H{"result": result})
}
