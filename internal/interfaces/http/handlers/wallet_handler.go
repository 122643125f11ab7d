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

type walletService interface {
	CreateCurrencyWallet(ctx context.Context, userID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error)
	GetUserWallets(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error)
	GetWalletsWithTransactions(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error)
	RefreshBalance(ctx context.Context, publicKey string) (*entities.Wallet, error)
	TotalBalance(ctx context.Context, userID uuid.UUID) (float64, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// CreateWallet creates or tops up the user's wallet for a currency
// POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var input entities.CreateWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	wallet, err := h.walletUsecase.CreateCurrencyWallet(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"wallet": wallet})
}

// ListWallets lists wallets for the current user
// GET /api/v1/wallets
func (h *WalletHandler) ListWallets(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	var (
		wallets []*entities.Wallet
		err     error
	)
	if c.Query("include") == "transactions" {
		wallets, err = h.walletUsecase.GetWalletsWithTransactions(c.Request.Context(), userID)
	} else {
		wallets, err = h.walletUsecase.GetUserWallets(c.Request.Context(), userID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	if wallets == nil {
		wallets = []*entities.Wallet{}
	}
	response.Success(c, http.StatusOK, gin.H{"wallets": wallets})
}

// RefreshBalance re-reads a wallet's balance from the ledger
// POST /api/v1/wallets/:publicKey/refresh
func (h *WalletHandler) RefreshBalance(c *gin.Context) {
	publicKey := c.Param("publicKey")
	if publicKey == "" {
		response.Error(c, domainerrors.BadRequest("missing wallet public key"))
		return
	}

	wallet, err := h.walletUsecase.RefreshBalance(c.Request.Context(), publicKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// TotalBalance sums the ledger balances of the user's wallets
// GET /api/v1/wallets/total-balance
func (h *WalletHandler) TotalBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.BadRequest("user not resolved"))
		return
	}

	total, err := h.walletUsecase.TotalBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"totalBalance": total})
}
