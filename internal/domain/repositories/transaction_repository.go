package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
)

// TransactionRepository defines transaction-record data operations.
// Upsert keys on the network-unique signature: insert when absent,
// overwrite fields when present.
type TransactionRepository interface {
	Upsert(ctx context.Context, record *entities.TransactionRecord) error
	GetBySignature(ctx context.Context, signature string) (*entities.TransactionRecord, error)
	GetByWallet(ctx context.Context, userID uuid.UUID, walletPublicKey string, limit, offset int) ([]*entities.TransactionRecord, int64, error)
	GetPending(ctx context.Context, limit int) ([]*entities.TransactionRecord, error)
	UpdateStatus(ctx context.Context, signature string, status entities.TransactionStatus) error
}
