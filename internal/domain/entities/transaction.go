package entities

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the settlement state of a recorded transaction.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// TransactionType classifies a transaction relative to the owning wallet.
type TransactionType string

const (
	TransactionTypeSend         TransactionType = "send"
	TransactionTypeReceive      TransactionType = "receive"
	TransactionTypeSwap         TransactionType = "swap"
	TransactionTypeBankToWallet TransactionType = "bank_to_wallet"
	TransactionTypeUnknown      TransactionType = "unknown"
)

// TransactionRecord is the local log entry for a ledger transaction,
// keyed by its network-unique signature. Re-synchronizing the same
// signature updates the record in place, never duplicates it.
type TransactionRecord struct {
	ID              uuid.UUID         `json:"id"`
	Signature       string            `json:"signature"`
	WalletPublicKey string            `json:"walletPublicKey"`
	UserID          uuid.UUID         `json:"userId"`
	FromAddress     string            `json:"fromAddress"`
	ToAddress       string            `json:"toAddress"`
	Amount          float64           `json:"amount"`
	Fee             float64           `json:"fee"`
	BlockTime       int64             `json:"blockTime"`
	Status          TransactionStatus `json:"status"`
	Type            TransactionType   `json:"type"`
	Timestamp       time.Time         `json:"timestamp"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TransferInput is the controller-facing input for a wallet-to-wallet transfer.
type TransferInput struct {
	FromPublicKey string  `json:"fromPublicKey" binding:"required"`
	ToPublicKey   string  `json:"toPublicKey" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// TransferState is a step of the transfer engine's state machine.
type TransferState string

const (
	TransferInitiated     TransferState = "initiated"
	TransferFundsVerified TransferState = "funds_verified"
	TransferSigned        TransferState = "signed"
	TransferBroadcast     TransferState = "broadcast"
	TransferConfirming    TransferState = "confirming"
	TransferConfirmed     TransferState = "confirmed"
	TransferFailed        TransferState = "failed"
	TransferTimedOut      TransferState = "timed_out"
)

// TransferResult is returned to the caller once a transfer reaches a
// terminal state. A TimedOut transfer still carries its signature and a
// pending status so the caller (or the reconciler) can resolve it later.
type TransferResult struct {
	Signature string            `json:"signature"`
	State     TransferState     `json:"state"`
	Status    TransactionStatus `json:"status"`
}

// SyncResult summarizes one transaction-history synchronization pass.
type SyncResult struct {
	RecordsTouched int     `json:"recordsTouched"`
	CurrentBalance float64 `json:"currentBalance"`
}
