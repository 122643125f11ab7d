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

// AccountRepository implements the fiat-account collaborator surface
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByRIB gets an account by RIB, scoped to its owner
func (r *AccountRepository) GetByRIB(ctx context.Context, userID uuid.UUID, rib string) (*entities.Account, error) {
	var m models.Account
	if err := r.db.WithContext(ctx).
		Where("rib = ? AND user_id = ?", rib, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Debit atomically removes amount from the account balance. The guarded
// UPDATE refuses to take the balance below zero, so there is never a
// partial debit.
func (r *AccountRepository) Debit(ctx context.Context, rib string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domainerrors.BadRequest("debit amount must be positive")
	}

	var newBalance float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("rib = ? AND balance >= ?", rib, amount).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance - ?", amount),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the account is missing or it cannot cover the amount.
			var m models.Account
			if err := tx.Where("rib = ?", rib).First(&m).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrAccountNotFound
				}
				return err
			}
			return domainerrors.NewInsufficientFunds(domainerrors.FundsSideFiat, m.Balance, amount)
		}

		var m models.Account
		if err := tx.Where("rib = ?", rib).First(&m).Error; err != nil {
			return err
		}
		newBalance = m.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Credit atomically adds amount to the account balance
func (r *AccountRepository) Credit(ctx context.Context, rib string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domainerrors.BadRequest("credit amount must be positive")
	}

	var newBalance float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("rib = ?", rib).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", amount),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAccountNotFound
		}

		var m models.Account
		if err := tx.Where("rib = ?", rib).First(&m).Error; err != nil {
			return err
		}
		newBalance = m.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *AccountRepository) toEntity(m *models.Account) *entities.Account {
	a := &entities.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Number:    m.Number,
		Type:      m.Type,
		Status:    m.Status,
		RIB:       m.RIB,
		IsDefault: m.IsDefault,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Nickname != nil {
		a.Nickname = null.StringFrom(*m.Nickname)
	}
	return a
}
