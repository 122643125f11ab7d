package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/middleware"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type walletServiceStub struct {
	wallet  *entities.Wallet
	wallets []*entities.Wallet
	total   float64
	err     error
}

func (s *walletServiceStub) CreateCurrencyWallet(context.Context, uuid.UUID, *entities.CreateWalletInput) (*entities.Wallet, error) {
	return s.wallet, s.err
}

func (s *walletServiceStub) GetUserWallets(context.Context, uuid.UUID) ([]*entities.Wallet, error) {
	return s.wallets, s.err
}

func (s *walletServiceStub) GetWalletsWithTransactions(context.Context, uuid.UUID) ([]*entities.Wallet, error) {
	return s.wallets, s.err
}

func (s *walletServiceStub) RefreshBalance(context.Context, string) (*entities.Wallet, error) {
	return s.wallet, s.err
}

func (s *walletServiceStub) TotalBalance(context.Context, uuid.UUID) (float64, error) {
	return s.total, s.err
}

type transferServiceStub struct {
	result *entities.TransferResult
	err    error
}

func (s *transferServiceStub) Transfer(context.Context, uuid.UUID, *entities.TransferInput) (*entities.TransferResult, error) {
	return s.result, s.err
}

type syncServiceStub struct {
	sync    *entities.SyncResult
	records []*entities.TransactionRecord
	meta    utils.PaginationMeta
	err     error
}

func (s *syncServiceStub) SyncWalletTransactions(context.Context, uuid.UUID, string) (*entities.SyncResult, error) {
	return s.sync, s.err
}

func (s *syncServiceStub) GetWalletTransactions(context.Context, uuid.UUID, string, int, int) ([]*entities.TransactionRecord, utils.PaginationMeta, error) {
	return s.records, s.meta, s.err
}

type bridgeServiceStub struct {
	wallet *entities.Wallet
	err    error
}

func (s *bridgeServiceStub) FundWalletFromAccount(context.Context, uuid.UUID, *entities.FundWalletInput) (*entities.Wallet, error) {
	return s.wallet, s.err
}

func (s *bridgeServiceStub) ConvertCurrency(context.Context, uuid.UUID, *entities.ConvertCurrencyInput) (*entities.Wallet, error) {
	return s.wallet, s.err
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.UserContextMiddleware())
	return r
}

func TestCreateWallet(t *testing.T) {
	stub := &walletServiceStub{wallet: &entities.Wallet{PublicKey: "Key1", Currency: "EUR"}}
	h := &WalletHandler{walletUsecase: stub}

	r := newRouter()
	r.POST("/wallets", h.CreateWallet)

	w := performRequest(r, http.MethodPost, "/wallets", entities.CreateWalletInput{Currency: "EUR", Amount: 100})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Key1")
}

func TestCreateWallet_InvalidBody(t *testing.T) {
	h := &WalletHandler{walletUsecase: &walletServiceStub{}}

	r := newRouter()
	r.POST("/wallets", h.CreateWallet)

	w := performRequest(r, http.MethodPost, "/wallets", map[string]interface{}{"currency": "EUR", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWallet_UnsupportedCurrency(t *testing.T) {
	h := &WalletHandler{walletUsecase: &walletServiceStub{err: domainerrors.ErrUnsupportedCurrency}}

	r := newRouter()
	r.POST("/wallets", h.CreateWallet)

	w := performRequest(r, http.MethodPost, "/wallets", entities.CreateWalletInput{Currency: "XTZ", Amount: 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListWallets_EmptyIsArray(t *testing.T) {
	h := &WalletHandler{walletUsecase: &walletServiceStub{}}

	r := newRouter()
	r.GET("/wallets", h.ListWallets)

	w := performRequest(r, http.MethodGet, "/wallets", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"wallets":[]}`, w.Body.String())
}

func TestUserContext_MissingHeader(t *testing.T) {
	h := &WalletHandler{walletUsecase: &walletServiceStub{}}

	r := newRouter()
	r.GET("/wallets", h.ListWallets)

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshBalance_NotFound(t *testing.T) {
	h := &WalletHandler{walletUsecase: &walletServiceStub{err: domainerrors.ErrWalletNotFound}}

	r := newRouter()
	r.POST("/wallets/:publicKey/refresh", h.RefreshBalance)

	w := performRequest(r, http.MethodPost, "/wallets/MissingKey/refresh", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransfer_Confirmed(t *testing.T) {
	stub := &transferServiceStub{result: &entities.TransferResult{
		Signature: "sig-1",
		State:     entities.TransferConfirmed,
		Status:    entities.TransactionStatusSuccess,
	}}
	h := &TransferHandler{transferUsecase: stub}

	r := newRouter()
	r.POST("/transfers", h.Transfer)

	w := performRequest(r, http.MethodPost, "/transfers", entities.TransferInput{
		FromPublicKey: "From", ToPublicKey: "To", Amount: 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sig-1")
}

func TestTransfer_PendingIsAccepted(t *testing.T) {
	stub := &transferServiceStub{result: &entities.TransferResult{
		Signature: "sig-slow",
		State:     entities.TransferTimedOut,
		Status:    entities.TransactionStatusPending,
	}}
	h := &TransferHandler{transferUsecase: stub}

	r := newRouter()
	r.POST("/transfers", h.Transfer)

	w := performRequest(r, http.MethodPost, "/transfers", entities.TransferInput{
		FromPublicKey: "From", ToPublicKey: "To", Amount: 2,
	})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestTransfer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient funds", domainerrors.NewInsufficientFunds(domainerrors.FundsSideLedger, 1, 2), http.StatusBadRequest},
		{"lock contention", domainerrors.ErrTransferInProgress, http.StatusConflict},
		{"network down", domainerrors.ErrNetworkUnavailable, http.StatusServiceUnavailable},
		{"invalid address", domainerrors.ErrInvalidAddress, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &TransferHandler{transferUsecase: &transferServiceStub{err: tc.err}}
			r := newRouter()
			r.POST("/transfers", h.Transfer)

			w := performRequest(r, http.MethodPost, "/transfers", entities.TransferInput{
				FromPublicKey: "From", ToPublicKey: "To", Amount: 2,
			})
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestTransfer_LedgerFailureStillReturnsSignature(t *testing.T) {
	stub := &transferServiceStub{
		result: &entities.TransferResult{
			Signature: "sig-bad",
			State:     entities.TransferFailed,
			Status:    entities.TransactionStatusFailed,
		},
		err: domainerrors.ErrRpcError,
	}
	h := &TransferHandler{transferUsecase: stub}

	r := newRouter()
	r.POST("/transfers", h.Transfer)

	w := performRequest(r, http.MethodPost, "/transfers", entities.TransferInput{
		FromPublicKey: "From", ToPublicKey: "To", Amount: 2,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "sig-bad")
}

func TestSyncTransactions(t *testing.T) {
	stub := &syncServiceStub{sync: &entities.SyncResult{RecordsTouched: 3, CurrentBalance: 1.5}}
	h := &TransactionHandler{syncUsecase: stub}

	r := newRouter()
	r.POST("/wallets/:publicKey/sync", h.SyncTransactions)

	w := performRequest(r, http.MethodPost, "/wallets/SomeKey/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sync entities.SyncResult `json:"sync"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Sync.RecordsTouched)
	assert.Equal(t, 1.5, body.Sync.CurrentBalance)
}

func TestListTransactions(t *testing.T) {
	stub := &syncServiceStub{
		records: []*entities.TransactionRecord{{Signature: "s1"}},
		meta:    utils.PaginationMeta{Page: 1, Limit: 10, TotalCount: 1, TotalPages: 1},
	}
	h := &TransactionHandler{syncUsecase: stub}

	r := newRouter()
	r.GET("/wallets/:publicKey/transactions", h.ListTransactions)

	w := performRequest(r, http.MethodGet, "/wallets/SomeKey/transactions?page=1&limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "s1")
	assert.Contains(t, w.Body.String(), "totalCount")
}

func TestFundWallet(t *testing.T) {
	stub := &bridgeServiceStub{wallet: &entities.Wallet{PublicKey: "Key1", OriginalAmount: 200}}
	h := &BridgeHandler{bridgeUsecase: stub}

	r := newRouter()
	r.POST("/bridge/fund", h.FundWallet)

	w := performRequest(r, http.MethodPost, "/bridge/fund", entities.FundWalletInput{
		RIB: "12345678901234567890", Amount: 200, Currency: "EUR",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFundWallet_ReconciliationIsServerError(t *testing.T) {
	h := &BridgeHandler{bridgeUsecase: &bridgeServiceStub{err: domainerrors.ErrReconciliation}}

	r := newRouter()
	r.POST("/bridge/fund", h.FundWallet)

	w := performRequest(r, http.MethodPost, "/bridge/fund", entities.FundWalletInput{
		RIB: "12345678901234567890", Amount: 200, Currency: "EUR",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestConvertCurrency_Handler(t *testing.T) {
	stub := &bridgeServiceStub{wallet: &entities.Wallet{PublicKey: "Key1", Currency: "USD"}}
	h := &BridgeHandler{bridgeUsecase: stub}

	r := newRouter()
	r.POST("/bridge/convert", h.ConvertCurrency)

	w := performRequest(r, http.MethodPost, "/bridge/convert", entities.ConvertCurrencyInput{
		Amount: 100, FromCurrency: "USD",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
