package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/models"
)

// TransactionRepository implements transaction-record data operations
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Upsert inserts a record or overwrites the existing row with the same
// signature. Signature uniqueness is what keeps repeated syncs idempotent.
func (r *TransactionRepository) Upsert(ctx context.Context, record *entities.TransactionRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	m := r.toModel(record)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "signature"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"wallet_public_key", "user_id", "from_address", "to_address",
			"amount", "fee", "block_time", "status", "type", "timestamp", "updated_at",
		}),
	}).Create(m).Error
}

// GetBySignature gets a record by its unique signature
func (r *TransactionRepository) GetBySignature(ctx context.Context, signature string) (*entities.TransactionRecord, error) {
	var m models.Transaction
	if err := r.db.WithContext(ctx).Where("signature = ?", signature).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByWallet lists a wallet's records newest first, with pagination
func (r *TransactionRepository) GetByWallet(ctx context.Context, userID uuid.UUID, walletPublicKey string, limit, offset int) ([]*entities.TransactionRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND wallet_public_key = ?", userID, walletPublicKey)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transaction
	q := query.Order("block_time DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*entities.TransactionRecord, 0, len(ms))
	for i := range ms {
		records = append(records, r.toEntity(&ms[i]))
	}
	return records, total, nil
}

// GetPending lists records still awaiting settlement, oldest first
func (r *TransactionRepository) GetPending(ctx context.Context, limit int) ([]*entities.TransactionRecord, error) {
	var ms []models.Transaction
	q := r.db.WithContext(ctx).
		Where("status = ?", string(entities.TransactionStatusPending)).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	records := make([]*entities.TransactionRecord, 0, len(ms))
	for i := range ms {
		records = append(records, r.toEntity(&ms[i]))
	}
	return records, nil
}

// UpdateStatus settles a record's status by signature
func (r *TransactionRepository) UpdateStatus(ctx context.Context, signature string, status entities.TransactionStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("signature = ?", signature).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) toModel(t *entities.TransactionRecord) *models.Transaction {
	return &models.Transaction{
		ID:              t.ID,
		Signature:       t.Signature,
		WalletPublicKey: t.WalletPublicKey,
		UserID:          t.UserID,
		FromAddress:     t.FromAddress,
		ToAddress:       t.ToAddress,
		Amount:          t.Amount,
		Fee:             t.Fee,
		BlockTime:       t.BlockTime,
		Status:          string(t.Status),
		Type:            string(t.Type),
		Timestamp:       t.Timestamp,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r *TransactionRepository) toEntity(m *models.Transaction) *entities.TransactionRecord {
	return &entities.TransactionRecord{
		ID:              m.ID,
		Signature:       m.Signature,
		WalletPublicKey: m.WalletPublicKey,
		UserID:          m.UserID,
		FromAddress:     m.FromAddress,
		ToAddress:       m.ToAddress,
		Amount:          m.Amount,
		Fee:             m.Fee,
		BlockTime:       m.BlockTime,
		Status:          entities.TransactionStatus(m.Status),
		Type:            entities.TransactionType(m.Type),
		Timestamp:       m.Timestamp,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
