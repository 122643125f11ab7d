package entities

// Blockhash is a recent block reference attached to a transaction before
// signing, valid until its LastValidBlockHeight.
type Blockhash struct {
	Hash                 string
	LastValidBlockHeight uint64
}

// ConfirmationState is the ledger network's view of a broadcast signature.
type ConfirmationState string

const (
	ConfirmationPending   ConfirmationState = "pending"
	ConfirmationConfirmed ConfirmationState = "confirmed"
	ConfirmationFinalized ConfirmationState = "finalized"
	ConfirmationFailed    ConfirmationState = "failed"
)

// ConfirmationStatus is the result of a signature-status poll. Err is set
// when the ledger reports the transaction itself failed.
type ConfirmationStatus struct {
	State ConfirmationState
	Err   string
}

// Terminal reports whether the status ends the confirmation wait.
func (s ConfirmationStatus) Terminal() bool {
	switch s.State {
	case ConfirmationConfirmed, ConfirmationFinalized, ConfirmationFailed:
		return true
	default:
		return false
	}
}

// SignatureInfo is one entry of an address's signature history.
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime int64
	Err       string
}

// TransactionDetail is the normalized shape of a ledger transaction.
// Fields the RPC response omits stay at their zero values; counterparty
// addresses may be empty rather than failing the caller.
type TransactionDetail struct {
	Signature    string
	BlockTime    int64
	Fee          uint64
	PreBalances  []uint64
	PostBalances []uint64
	AccountKeys  []string
	Err          string
}

// FromAddress returns the first account key, or "" when unavailable.
func (d *TransactionDetail) FromAddress() string {
	if len(d.AccountKeys) > 0 {
		return d.AccountKeys[0]
	}
	return ""
}

// ToAddress returns the second account key, or "" when unavailable.
func (d *TransactionDetail) ToAddress() string {
	if len(d.AccountKeys) > 1 {
		return d.AccountKeys[1]
	}
	return ""
}
