package repositories

import (
	"context"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
)

// LedgerGateway abstracts the external ledger network. It is a pure I/O
// boundary: no business rules, and its responses are trusted as ground
// truth for balances and confirmations. Implementations normalize
// transport failures to ErrNetworkUnavailable and server-side failures
// to ErrRpcError; retry policy belongs to the caller.
type LedgerGateway interface {
	// GetBalance returns the authoritative balance of an address, in SOL.
	GetBalance(ctx context.Context, address string) (float64, error)
	// GetLatestBlockhash returns a recent block reference for signing.
	GetLatestBlockhash(ctx context.Context) (*entities.Blockhash, error)
	// RequestAirdrop funds an address on the test network and returns the
	// funding signature.
	RequestAirdrop(ctx context.Context, address string, amount float64) (string, error)
	// SendRawTransaction broadcasts signed transaction bytes and returns
	// the network signature.
	SendRawTransaction(ctx context.Context, signedTx []byte) (string, error)
	// GetSignatureStatus polls the confirmation status of a signature.
	GetSignatureStatus(ctx context.Context, signature string) (entities.ConfirmationStatus, error)
	// GetSignaturesForAddress returns up to limit most recent signature
	// metadata entries for an address, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]entities.SignatureInfo, error)
	// GetTransaction fetches normalized transaction detail for a signature.
	// A nil detail with nil error means the network does not know it (yet).
	GetTransaction(ctx context.Context, signature string) (*entities.TransactionDetail, error)
}
