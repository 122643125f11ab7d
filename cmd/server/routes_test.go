package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/handlers"
)

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIV1Routes(r, routeDeps{
		walletHandler:      &handlers.WalletHandler{},
		transferHandler:    &handlers.TransferHandler{},
		transactionHandler: &handlers.TransactionHandler{},
		bridgeHandler:      &handlers.BridgeHandler{},
	})

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/wallets"},
		{"GET", "/api/v1/wallets"},
		{"GET", "/api/v1/wallets/total-balance"},
		{"POST", "/api/v1/wallets/:publicKey/refresh"},
		{"POST", "/api/v1/wallets/:publicKey/sync"},
		{"GET", "/api/v1/wallets/:publicKey/transactions"},
		{"POST", "/api/v1/transfers"},
		{"POST", "/api/v1/bridge/fund"},
		{"POST", "/api/v1/bridge/convert"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestBuildRouter_HealthAndMetricsRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := buildRouter(routeDeps{
		walletHandler:      &handlers.WalletHandler{},
		transferHandler:    &handlers.TransferHandler{},
		transactionHandler: &handlers.TransactionHandler{},
		bridgeHandler:      &handlers.BridgeHandler{},
	})

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}
