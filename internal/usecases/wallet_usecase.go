package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/domain/repositories"
	"github.com/dalikhouaja008/B-rich-backend/pkg/crypto"
	"github.com/dalikhouaja008/B-rich-backend/pkg/logger"
	"github.com/dalikhouaja008/B-rich-backend/pkg/solana"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

const defaultNetwork = "devnet"

// WalletUsecase handles wallet lifecycle business logic
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	gateway    repositories.LedgerGateway
	vault      *crypto.KeyVault
	rates      *RateSource
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	gateway repositories.LedgerGateway,
	vault *crypto.KeyVault,
	rates *RateSource,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		gateway:    gateway,
		vault:      vault,
		rates:      rates,
	}
}

// CreateCurrencyWallet creates the user's generated wallet for a currency,
// funding it with the SOL equivalent of amount. Creation is idempotent per
// (user, currency): an existing wallet is topped up instead of duplicated.
func (u *WalletUsecase) CreateCurrencyWallet(ctx context.Context, userID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error) {
	if input == nil || input.Currency == "" || input.Amount <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	rate, err := u.rates.RateToSOL(input.Currency)
	if err != nil {
		return nil, err
	}
	solAmount := input.Amount * rate

	existing, err := u.walletRepo.GetByUserCurrencyType(ctx, userID, input.Currency, entities.WalletTypeGenerated)
	if err != nil && err != domainerrors.ErrWalletNotFound {
		return nil, err
	}
	if existing != nil {
		return u.topUpWallet(ctx, existing, input.Amount, solAmount)
	}

	keypair, err := solana.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	encrypted, err := u.vault.Encrypt(keypair.SecretKey)
	if err != nil {
		return nil, err
	}

	wallet := &entities.Wallet{
		ID:                  utils.GenerateUUIDv7(),
		UserID:              userID,
		PublicKey:           keypair.Address(),
		EncryptedPrivateKey: null.StringFrom(encrypted),
		Type:                entities.WalletTypeGenerated,
		Network:             defaultNetwork,
		Currency:            input.Currency,
		OriginalAmount:      input.Amount,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	wallet.Balance = u.fundAndReadBalance(ctx, wallet.PublicKey, solAmount)

	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	logger.Info(ctx, "currency wallet created",
		zap.String("user_id", userID.String()),
		zap.String("currency", input.Currency),
		zap.String("public_key", wallet.PublicKey),
	)
	return wallet, nil
}

// topUpWallet adds funds to an already-existing generated wallet.
func (u *WalletUsecase) topUpWallet(ctx context.Context, wallet *entities.Wallet, fiatAmount, solAmount float64) (*entities.Wallet, error) {
	wallet.Balance = u.fundAndReadBalance(ctx, wallet.PublicKey, solAmount)
	wallet.OriginalAmount += fiatAmount
	wallet.UpdatedAt = time.Now()

	if err := u.walletRepo.Update(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// CreditShadowBalance adds a fiat amount to the OriginalAmount of the
// user's generated wallet for a currency, creating the wallet on first
// touch. No conversion happens and no rate is required, so currencies
// without a ledger rate can still be bridged; the on-ledger balance is
// untouched.
func (u *WalletUsecase) CreditShadowBalance(ctx context.Context, userID uuid.UUID, currency string, amount float64) (*entities.Wallet, error) {
	if currency == "" || amount <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	existing, err := u.walletRepo.GetByUserCurrencyType(ctx, userID, currency, entities.WalletTypeGenerated)
	if err != nil && err != domainerrors.ErrWalletNotFound {
		return nil, err
	}
	if existing != nil {
		existing.OriginalAmount += amount
		existing.UpdatedAt = time.Now()
		if err := u.walletRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	keypair, err := solana.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	encrypted, err := u.vault.Encrypt(keypair.SecretKey)
	if err != nil {
		return nil, err
	}

	wallet := &entities.Wallet{
		ID:                  utils.GenerateUUIDv7(),
		UserID:              userID,
		PublicKey:           keypair.Address(),
		EncryptedPrivateKey: null.StringFrom(encrypted),
		Type:                entities.WalletTypeGenerated,
		Network:             defaultNetwork,
		Currency:            currency,
		OriginalAmount:      amount,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	logger.Info(ctx, "shadow wallet credited",
		zap.String("user_id", userID.String()),
		zap.String("currency", currency),
		zap.String("public_key", wallet.PublicKey),
	)
	return wallet, nil
}

// fundAndReadBalance requests a test-network airdrop and reads back the
// authoritative balance. Both steps are best effort; a network hiccup
// leaves the balance cache at zero until the next refresh.
func (u *WalletUsecase) fundAndReadBalance(ctx context.Context, publicKey string, solAmount float64) float64 {
	if solAmount > 0 {
		if _, err := u.gateway.RequestAirdrop(ctx, publicKey, solAmount); err != nil {
			logger.Warn(ctx, "airdrop request failed",
				zap.String("public_key", publicKey),
				zap.Float64("sol_amount", solAmount),
				zap.Error(err),
			)
		}
	}
	balance, err := u.gateway.GetBalance(ctx, publicKey)
	if err != nil {
		logger.Warn(ctx, "balance read failed after funding",
			zap.String("public_key", publicKey),
			zap.Error(err),
		)
		return 0
	}
	return balance
}

// GetUserWallets lists all wallets of a user
func (u *WalletUsecase) GetUserWallets(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// RefreshBalance overwrites a wallet's cached balance with the
// authoritative ledger figure and returns the updated wallet. When the
// wallet's currency has a conversion rate, the advisory OriginalAmount
// is realigned to the fresh balance as well.
func (u *WalletUsecase) RefreshBalance(ctx context.Context, publicKey string) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, err
	}

	balance, err := u.gateway.GetBalance(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	wallet.Balance = balance

	if shadow, err := u.rates.ShadowRate(wallet.Currency); err == nil {
		wallet.OriginalAmount = balance * shadow
		wallet.UpdatedAt = time.Now()
		if err := u.walletRepo.Update(ctx, wallet); err != nil {
			return nil, err
		}
		return wallet, nil
	}

	if err := u.walletRepo.UpdateBalance(ctx, publicKey, balance); err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetWalletsWithTransactions returns the user's wallets, each with a
// refreshed balance and its locally recorded transaction history. A
// balance read failure keeps the cached figure rather than failing the
// whole listing.
func (u *WalletUsecase) GetWalletsWithTransactions(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	wallets, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, wallet := range wallets {
		balance, err := u.gateway.GetBalance(ctx, wallet.PublicKey)
		if err != nil {
			logger.Warn(ctx, "balance refresh failed, serving cached value",
				zap.String("public_key", wallet.PublicKey),
				zap.Error(err),
			)
		} else {
			if err := u.walletRepo.UpdateBalance(ctx, wallet.PublicKey, balance); err != nil {
				return nil, err
			}
			wallet.Balance = balance
		}

		records, _, err := u.txRepo.GetByWallet(ctx, userID, wallet.PublicKey, 0, 0)
		if err != nil {
			return nil, err
		}
		wallet.Transactions = records
	}
	return wallets, nil
}

// TotalBalance sums the authoritative ledger balances of all the user's
// wallets. Any unreadable wallet fails the whole sum; a partial total
// would silently understate the user's holdings.
func (u *WalletUsecase) TotalBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	wallets, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, wallet := range wallets {
		balance, err := u.gateway.GetBalance(ctx, wallet.PublicKey)
		if err != nil {
			return 0, fmt.Errorf("wallet %s: %w", wallet.PublicKey, domainerrors.ErrBalanceUnavailable)
		}
		total += balance
	}
	return total, nil
}
