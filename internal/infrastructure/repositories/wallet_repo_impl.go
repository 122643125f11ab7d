package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	now := time.Now()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	m := r.toModel(wallet)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByPublicKey gets a wallet by its public address
func (r *WalletRepository) GetByPublicKey(ctx context.Context, publicKey string) (*entities.Wallet, error) {
	var m models.Wallet
	if err := r.db.WithContext(ctx).Where("public_key = ?", publicKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserAndPublicKey gets a wallet by owner and address
func (r *WalletRepository) GetByUserAndPublicKey(ctx context.Context, userID uuid.UUID, publicKey string) (*entities.Wallet, error) {
	var m models.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND public_key = ?", userID, publicKey).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserCurrencyType gets the unique wallet for (user, currency, type)
func (r *WalletRepository) GetByUserCurrencyType(ctx context.Context, userID uuid.UUID, currency string, walletType entities.WalletType) (*entities.Wallet, error) {
	var m models.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency = ? AND type = ?", userID, currency, string(walletType)).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets all wallets for a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	var ms []models.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, nil
}

// Update persists all mutable wallet fields
func (r *WalletRepository) Update(ctx context.Context, wallet *entities.Wallet) error {
	wallet.UpdatedAt = time.Now()
	m := r.toModel(wallet)

	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"balance":         m.Balance,
			"original_amount": m.OriginalAmount,
			"updated_at":      m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

// UpdateBalance overwrites the cached balance with the authoritative figure
func (r *WalletRepository) UpdateBalance(ctx context.Context, publicKey string, balance float64) error {
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("public_key = ?", publicKey).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) toModel(w *entities.Wallet) *models.Wallet {
	m := &models.Wallet{
		ID:             w.ID,
		UserID:         w.UserID,
		PublicKey:      w.PublicKey,
		Type:           string(w.Type),
		Network:        w.Network,
		Currency:       w.Currency,
		Balance:        w.Balance,
		OriginalAmount: w.OriginalAmount,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
	if w.EncryptedPrivateKey.Valid {
		v := w.EncryptedPrivateKey.String
		m.EncryptedPrivateKey = &v
	}
	return m
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	w := &entities.Wallet{
		ID:             m.ID,
		UserID:         m.UserID,
		PublicKey:      m.PublicKey,
		Type:           entities.WalletType(m.Type),
		Network:        m.Network,
		Currency:       m.Currency,
		Balance:        m.Balance,
		OriginalAmount: m.OriginalAmount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.EncryptedPrivateKey != nil {
		w.EncryptedPrivateKey = null.StringFrom(*m.EncryptedPrivateKey)
	}
	return w
}
