package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

func newTxRecord(userID uuid.UUID, signature string, blockTime int64) *entities.TransactionRecord {
	return &entities.TransactionRecord{
		Signature:       signature,
		WalletPublicKey: "walletPk",
		UserID:          userID,
		FromAddress:     "walletPk",
		ToAddress:       "destPk",
		Amount:          -2.0,
		Fee:             0.000005,
		BlockTime:       blockTime,
		Status:          entities.TransactionStatusSuccess,
		Type:            entities.TransactionTypeSend,
		Timestamp:       time.Unix(blockTime, 0),
	}
}

func TestTransactionRepository_UpsertIdempotent(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	rec := newTxRecord(userID, "sig-1", 1700000000)
	require.NoError(t, repo.Upsert(context.Background(), rec))

	// Same signature again with updated fields must overwrite, not duplicate.
	updated := newTxRecord(userID, "sig-1", 1700000000)
	updated.Status = entities.TransactionStatusFailed
	require.NoError(t, repo.Upsert(context.Background(), updated))

	records, total, err := repo.GetByWallet(context.Background(), userID, "walletPk", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, entities.TransactionStatusFailed, records[0].Status)
}

func TestTransactionRepository_GetBySignature(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	require.NoError(t, repo.Upsert(context.Background(), newTxRecord(userID, "sig-2", 1700000100)))

	got, err := repo.GetBySignature(context.Background(), "sig-2")
	require.NoError(t, err)
	assert.Equal(t, "sig-2", got.Signature)
	assert.Equal(t, entities.TransactionTypeSend, got.Type)

	_, err = repo.GetBySignature(context.Background(), "sig-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTransactionRepository_GetByWallet_OrderAndPagination(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	for i, sig := range []string{"sig-a", "sig-b", "sig-c"} {
		require.NoError(t, repo.Upsert(context.Background(), newTxRecord(userID, sig, int64(1700000000+i))))
	}

	records, total, err := repo.GetByWallet(context.Background(), userID, "walletPk", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 2)
	// newest first
	assert.Equal(t, "sig-c", records[0].Signature)
	assert.Equal(t, "sig-b", records[1].Signature)
}

func TestTransactionRepository_GetPendingAndUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	pending := newTxRecord(userID, "sig-pending", 1700000200)
	pending.Status = entities.TransactionStatusPending
	require.NoError(t, repo.Upsert(context.Background(), pending))
	require.NoError(t, repo.Upsert(context.Background(), newTxRecord(userID, "sig-done", 1700000300)))

	got, err := repo.GetPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sig-pending", got[0].Signature)

	require.NoError(t, repo.UpdateStatus(context.Background(), "sig-pending", entities.TransactionStatusSuccess))

	got, err = repo.GetPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	err = repo.UpdateStatus(context.Background(), "sig-missing", entities.TransactionStatusFailed)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
