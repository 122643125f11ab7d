package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
)

// AccountRepository is the fiat-account collaborator surface the currency
// bridge consumes. Debit and Credit are atomic: they either move the full
// amount or fail without partial effect.
type AccountRepository interface {
	GetByRIB(ctx context.Context, userID uuid.UUID, rib string) (*entities.Account, error)
	Debit(ctx context.Context, rib string, amount float64) (newBalance float64, err error)
	Credit(ctx context.Context, rib string, amount float64) (newBalance float64, err error)
}
