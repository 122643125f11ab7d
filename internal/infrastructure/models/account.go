package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Number    string    `gorm:"type:varchar(34)"`
	Type      string    `gorm:"type:varchar(20)"`
	Nickname  *string   `gorm:"type:varchar(100)"`
	Status    string    `gorm:"type:varchar(10);default:'active'"`
	RIB       string    `gorm:"type:varchar(34);not null;uniqueIndex"`
	IsDefault bool      `gorm:"default:false"`
	Balance   float64   `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Account) TableName() string {
	return "accounts"
}
