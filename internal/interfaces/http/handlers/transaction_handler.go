package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/middleware"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/response"
	"github.com/dalikhouaja008/B-rich-backend/internal/usecases"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

type syncService interface {
	SyncWalletTransactions(ctx context.Context, userID uuid.UUID, walletPublicKey string) (*entities.SyncResult, error)
	GetWalletTransactions(ctx context.Context, userID uuid.UUID, walletPublicKey string, page, limit int) ([]*entities.TransactionRecord, utils.PaginationMeta, error)
}

// TransactionHandler handles transaction history endpoints
type TransactionHandler struct {
	syncUsecase syncService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(syncUsecase *usecases.SyncUsecase) *TransactionHandler {
	return &TransactionHandler{syncUsecase: syncUsecase}
}

// SyncTransactions mirrors a wallet's on-ledger history locally
// POST /api/v1/wallets/:publicKey/sync
func (h *TransactionHandler) SyncTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	publicKey := c.Param("publicKey")
	if publicKey == "" {
		response.Error(c, domainerrors.BadRequest("missing wallet public key"))
		return
	}

	result, err := h.syncUsecase.SyncWalletTransactions(c.Request.Context(), userID, publicKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sync": result})
}

// ListTransactions reads the locally recorded history of a wallet
// GET /api/v1/wallets/:publicKey/transactions?page=&limit=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	publicKey := c.Param("publicKey")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, meta, err := h.syncUsecase.GetWalletTransactions(c.Request.Context(), userID, publicKey, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	if records == nil {
		records = []*entities.TransactionRecord{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"transactions": records,
		"pagination":   meta,
	})
}
