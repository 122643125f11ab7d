package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletType describes where a wallet's key material comes from.
type WalletType string

const (
	WalletTypeGenerated WalletType = "GENERATED" // keypair created and custodied here
	WalletTypePhantom   WalletType = "PHANTOM"   // externally-linked, no key material stored
	WalletTypeImported  WalletType = "IMPORTED"
)

// Wallet pairs a public address with optionally encrypted private key
// material and a cached balance. Balance is a best-effort cache of the
// ledger figure; only RefreshBalance makes it current. OriginalAmount is
// the fiat-denominated shadow balance and is advisory only.
type Wallet struct {
	ID                  uuid.UUID   `json:"id"`
	UserID              uuid.UUID   `json:"userId"`
	PublicKey           string      `json:"publicKey"`
	EncryptedPrivateKey null.String `json:"-"`
	Type                WalletType  `json:"type"`
	Network             string      `json:"network"`
	Currency            string      `json:"currency"`
	Balance             float64     `json:"balance"`
	OriginalAmount      float64     `json:"originalAmount"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`

	// Populated by the wallets-with-transactions read path.
	Transactions []*TransactionRecord `json:"transactions,omitempty"`
}

// HasKeyMaterial reports whether this wallet can sign locally.
func (w *Wallet) HasKeyMaterial() bool {
	return w.EncryptedPrivateKey.Valid && w.EncryptedPrivateKey.String != ""
}

// CreateWalletInput is the controller-facing input for wallet creation.
type CreateWalletInput struct {
	Currency string  `json:"currency" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// ConvertCurrencyInput requests a fiat-to-SOL conversion into the
// user's wallet for that currency.
type ConvertCurrencyInput struct {
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	FromCurrency string  `json:"fromCurrency" binding:"required"`
}
