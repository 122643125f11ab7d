package models

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Signature       string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	WalletPublicKey string    `gorm:"type:varchar(64);not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	FromAddress     string    `gorm:"type:varchar(64)"`
	ToAddress       string    `gorm:"type:varchar(64)"`
	Amount          float64   `gorm:"not null;default:0"`
	Fee             float64   `gorm:"not null;default:0"`
	BlockTime       int64     `gorm:"index"`
	Status          string    `gorm:"type:varchar(10);not null;index"`
	Type            string    `gorm:"type:varchar(20);not null"`
	Timestamp       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Transaction) TableName() string {
	return "transactions"
}
