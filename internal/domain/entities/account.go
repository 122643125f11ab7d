package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Account is a fiat bank account linked to a user, identified by its RIB.
// Only the collaborator surface the currency bridge needs is modeled here;
// full account management lives outside this core.
type Account struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Number    string      `json:"number"`
	Type      string      `json:"type"`
	Nickname  null.String `json:"nickname,omitempty"`
	Status    string      `json:"status"`
	RIB       string      `json:"rib"`
	IsDefault bool        `json:"isDefault"`
	Balance   float64     `json:"balance"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// FundWalletInput is the controller-facing input for the account-to-wallet bridge.
type FundWalletInput struct {
	RIB      string  `json:"rib" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}
