package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dalikhouaja008/B-rich-backend/internal/config"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/jobs"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/ledger"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/models"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/repositories"
	"github.com/dalikhouaja008/B-rich-backend/internal/interfaces/http/handlers"
	"github.com/dalikhouaja008/B-rich-backend/internal/usecases"
	"github.com/dalikhouaja008/B-rich-backend/pkg/crypto"
	"github.com/dalikhouaja008/B-rich-backend/pkg/logger"
	"github.com/dalikhouaja008/B-rich-backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(&models.Wallet{}, &models.Transaction{}, &models.Account{}); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Key vault for custodied wallet key material
	vault, err := crypto.NewKeyVault(cfg.Security.VaultPassphrase, cfg.Security.VaultSalt)
	if err != nil {
		return fmt.Errorf("failed to initialize key vault: %w", err)
	}

	// Solana ledger gateway
	gateway, err := ledger.NewSolanaGateway(cfg.Ledger.RPCURL, cfg.Ledger.Commitment)
	if err != nil {
		return fmt.Errorf("failed to connect to ledger rpc: %w", err)
	}

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	accountRepo := repositories.NewAccountRepository(db)

	// Per-wallet transfer locks
	lockStore := redis.NewWalletLockStore(redis.GetClient(), cfg.Security.LockTTL)

	// Initialize usecases
	rates := usecases.NewRateSource(cfg.Ledger.RateCacheTTL)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, txRepo, gateway, vault, rates)
	transferUsecase := usecases.NewTransferUsecase(walletRepo, txRepo, gateway, vault, lockStore, usecases.TransferConfig{
		BroadcastAttempts: cfg.Ledger.BroadcastAttempts,
		ConfirmPoll:       cfg.Ledger.ConfirmPoll,
		ConfirmTimeout:    cfg.Ledger.ConfirmTimeout,
	})
	syncUsecase := usecases.NewSyncUsecase(walletRepo, txRepo, gateway)
	bridgeUsecase := usecases.NewBridgeUsecase(accountRepo, txRepo, walletUsecase)

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	transferHandler := handlers.NewTransferHandler(transferUsecase)
	transactionHandler := handlers.NewTransactionHandler(syncUsecase)
	bridgeHandler := handlers.NewBridgeHandler(bridgeUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := jobs.NewPendingTransactionReconciler(txRepo, gateway, cfg.Ledger.ConfirmPoll*15)
	go reconciler.Start(ctx)

	// Initialize router
	r := buildRouter(routeDeps{
		walletHandler:      walletHandler,
		transferHandler:    transferHandler,
		transactionHandler: transactionHandler,
		bridgeHandler:      bridgeHandler,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		reconciler.Stop()
		cancel()
	}()

	log.Printf("🚀 B-rich Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
