package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByPublicKey(ctx context.Context, publicKey string) (*entities.Wallet, error)
	GetByUserAndPublicKey(ctx context.Context, userID uuid.UUID, publicKey string) (*entities.Wallet, error)
	// GetByUserCurrencyType resolves the deterministic (user, currency, type)
	// key that makes generated-wallet creation idempotent.
	GetByUserCurrencyType(ctx context.Context, userID uuid.UUID, currency string, walletType entities.WalletType) (*entities.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error)
	Update(ctx context.Context, wallet *entities.Wallet) error
	// UpdateBalance overwrites the cached balance with the authoritative
	// ledger figure (last-writer-wins, never a delta).
	UpdateBalance(ctx context.Context, publicKey string, balance float64) error
}
