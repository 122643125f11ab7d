package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/handlers"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	walletHandler      *handlers.WalletHandler
	transferHandler    *handlers.TransferHandler
	transactionHandler *handlers.TransactionHandler
	bridgeHandler      *handlers.BridgeHandler
}

func buildRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerAPIV1Routes(r, d)
	return r
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(middleware.UserContextMiddleware())
	{
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.GET("", d.walletHandler.ListWallets)
			wallets.GET("/total-balance", d.walletHandler.TotalBalance)
			wallets.POST("/:publicKey/refresh", d.walletHandler.RefreshBalance)
			wallets.POST("/:publicKey/sync", d.transactionHandler.SyncTransactions)
			wallets.GET("/:publicKey/transactions", d.transactionHandler.ListTransactions)
		}

		v1.POST("/transfers", d.transferHandler.Transfer)

		bridge := v1.Group("/bridge")
		{
			bridge.POST("/fund", d.bridgeHandler.FundWallet)
			bridge.POST("/convert", d.bridgeHandler.ConvertCurrency)
		}
	}
}
