package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_wallets_user_currency_type"`
	PublicKey           string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	EncryptedPrivateKey *string   `gorm:"type:text"` // nil for externally-custodied wallets
	Type                string    `gorm:"type:varchar(20);not null;default:'GENERATED';uniqueIndex:idx_wallets_user_currency_type"`
	Network             string    `gorm:"type:varchar(20);not null;default:'devnet'"`
	Currency            string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_wallets_user_currency_type"`
	Balance             float64   `gorm:"not null;default:0"`
	OriginalAmount      float64   `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}
