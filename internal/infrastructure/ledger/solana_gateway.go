package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	ethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/pkg/solana"
)

// rpcCaller is the transport surface the gateway needs. *ethrpc.Client
// satisfies it; tests inject a deterministic fake instead of a socket.
type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// SolanaGateway implements repositories.LedgerGateway against a Solana
// JSON-RPC endpoint. It is a pure I/O boundary: responses are normalized
// to domain shapes and errors to the domain taxonomy, nothing more.
type SolanaGateway struct {
	caller     rpcCaller
	commitment string
}

// NewSolanaGateway dials the RPC endpoint.
func NewSolanaGateway(rpcURL, commitment string) (*SolanaGateway, error) {
	client, err := ethrpc.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domainerrors.ErrNetworkUnavailable, rpcURL, err)
	}
	return newGateway(client, commitment), nil
}

// NewSolanaGatewayWithCaller builds a gateway over an injected transport.
// Intended for unit tests where RPC sockets are unavailable.
func NewSolanaGatewayWithCaller(caller rpcCaller, commitment string) *SolanaGateway {
	return newGateway(caller, commitment)
}

func newGateway(caller rpcCaller, commitment string) *SolanaGateway {
	if commitment == "" {
		commitment = "confirmed"
	}
	return &SolanaGateway{caller: caller, commitment: commitment}
}

type commitmentOpt struct {
	Commitment string `json:"commitment"`
}

type contextValue[T any] struct {
	Value T `json:"value"`
}

// GetBalance returns the authoritative balance of an address, in SOL.
func (g *SolanaGateway) GetBalance(ctx context.Context, address string) (float64, error) {
	var resp contextValue[uint64]
	if err := g.call(ctx, &resp, "getBalance", address, commitmentOpt{g.commitment}); err != nil {
		return 0, err
	}
	return solana.ToSOL(resp.Value), nil
}

type blockhashValue struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// GetLatestBlockhash returns a recent block reference for signing.
func (g *SolanaGateway) GetLatestBlockhash(ctx context.Context) (*entities.Blockhash, error) {
	var resp contextValue[blockhashValue]
	if err := g.call(ctx, &resp, "getLatestBlockhash", commitmentOpt{g.commitment}); err != nil {
		return nil, err
	}
	return &entities.Blockhash{
		Hash:                 resp.Value.Blockhash,
		LastValidBlockHeight: resp.Value.LastValidBlockHeight,
	}, nil
}

// RequestAirdrop funds an address on the test network.
func (g *SolanaGateway) RequestAirdrop(ctx context.Context, address string, amount float64) (string, error) {
	var signature string
	if err := g.call(ctx, &signature, "requestAirdrop", address, solana.ToLamports(amount)); err != nil {
		return "", err
	}
	return signature, nil
}

type sendTransactionOpts struct {
	Encoding            string `json:"encoding"`
	PreflightCommitment string `json:"preflightCommitment"`
}

// SendRawTransaction broadcasts signed transaction bytes.
func (g *SolanaGateway) SendRawTransaction(ctx context.Context, signedTx []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(signedTx)
	var signature string
	err := g.call(ctx, &signature, "sendTransaction", encoded, sendTransactionOpts{
		Encoding:            "base64",
		PreflightCommitment: g.commitment,
	})
	if err != nil {
		return "", err
	}
	return signature, nil
}

type signatureStatus struct {
	ConfirmationStatus string          `json:"confirmationStatus"`
	Err                json.RawMessage `json:"err"`
}

type signatureStatusOpts struct {
	SearchTransactionHistory bool `json:"searchTransactionHistory"`
}

// GetSignatureStatus polls the confirmation status of one signature.
func (g *SolanaGateway) GetSignatureStatus(ctx context.Context, signature string) (entities.ConfirmationStatus, error) {
	var resp contextValue[[]*signatureStatus]
	err := g.call(ctx, &resp, "getSignatureStatuses", []string{signature}, signatureStatusOpts{true})
	if err != nil {
		return entities.ConfirmationStatus{}, err
	}
	if len(resp.Value) == 0 || resp.Value[0] == nil {
		// unknown signature: still pending from the caller's perspective
		return entities.ConfirmationStatus{State: entities.ConfirmationPending}, nil
	}

	status := resp.Value[0]
	if errStr := rawErrString(status.Err); errStr != "" {
		return entities.ConfirmationStatus{State: entities.ConfirmationFailed, Err: errStr}, nil
	}
	switch status.ConfirmationStatus {
	case "confirmed":
		return entities.ConfirmationStatus{State: entities.ConfirmationConfirmed}, nil
	case "finalized":
		return entities.ConfirmationStatus{State: entities.ConfirmationFinalized}, nil
	default:
		return entities.ConfirmationStatus{State: entities.ConfirmationPending}, nil
	}
}

type signatureInfo struct {
	Signature string          `json:"signature"`
	Slot      uint64          `json:"slot"`
	BlockTime *int64          `json:"blockTime"`
	Err       json.RawMessage `json:"err"`
}

type signaturesOpts struct {
	Limit int `json:"limit"`
}

// GetSignaturesForAddress returns recent signature metadata, newest first.
func (g *SolanaGateway) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]entities.SignatureInfo, error) {
	var resp []signatureInfo
	if err := g.call(ctx, &resp, "getSignaturesForAddress", address, signaturesOpts{Limit: limit}); err != nil {
		return nil, err
	}

	infos := make([]entities.SignatureInfo, 0, len(resp))
	for _, s := range resp {
		info := entities.SignatureInfo{
			Signature: s.Signature,
			Slot:      s.Slot,
			Err:       rawErrString(s.Err),
		}
		if s.BlockTime != nil {
			info.BlockTime = *s.BlockTime
		}
		infos = append(infos, info)
	}
	return infos, nil
}

type transactionResponse struct {
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Fee          uint64          `json:"fee"`
		PreBalances  []uint64        `json:"preBalances"`
		PostBalances []uint64        `json:"postBalances"`
		Err          json.RawMessage `json:"err"`
	} `json:"meta"`
	Transaction json.RawMessage `json:"transaction"`
}

type transactionOpts struct {
	Encoding                       string `json:"encoding"`
	Commitment                     string `json:"commitment"`
	MaxSupportedTransactionVersion int    `json:"maxSupportedTransactionVersion"`
}

// GetTransaction fetches normalized transaction detail for a signature.
// Missing sub-structures degrade to zero values instead of failing:
// the detail schema varies across transaction versions.
func (g *SolanaGateway) GetTransaction(ctx context.Context, signature string) (*entities.TransactionDetail, error) {
	var resp *transactionResponse
	err := g.call(ctx, &resp, "getTransaction", signature, transactionOpts{
		Encoding:                       "json",
		Commitment:                     g.commitment,
		MaxSupportedTransactionVersion: 0,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	detail := &entities.TransactionDetail{Signature: signature}
	if resp.BlockTime != nil {
		detail.BlockTime = *resp.BlockTime
	}
	if resp.Meta != nil {
		detail.Fee = resp.Meta.Fee
		detail.PreBalances = resp.Meta.PreBalances
		detail.PostBalances = resp.Meta.PostBalances
		detail.Err = rawErrString(resp.Meta.Err)
	}
	detail.AccountKeys = decodeAccountKeys(resp.Transaction)
	return detail, nil
}

// decodeAccountKeys handles both renderings of the transaction field:
// the parsed message object, and the ["<base64>", "base64"] tuple the
// node falls back to when it cannot render the requested encoding. Keys
// it cannot recover degrade to nil; the sync layer treats that as
// missing counterparties, not as failure.
func decodeAccountKeys(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var parsed struct {
		Message struct {
			AccountKeys []string `json:"accountKeys"`
		} `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Message.AccountKeys) > 0 {
		return parsed.Message.AccountKeys
	}

	var tuple []string
	if err := json.Unmarshal(raw, &tuple); err != nil || len(tuple) == 0 {
		return nil
	}
	wire, err := base64.StdEncoding.DecodeString(tuple[0])
	if err != nil {
		return nil
	}
	keys, err := solana.ExtractMessageAccounts(wire)
	if err != nil {
		return nil
	}
	return keys
}

// call dispatches one RPC and normalizes failures: server-side JSON-RPC
// errors become ErrRpcError, everything else ErrNetworkUnavailable.
func (g *SolanaGateway) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	err := g.caller.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}
	if rpcErr, ok := err.(ethrpc.Error); ok {
		return fmt.Errorf("%w: %s (code %d): %v", domainerrors.ErrRpcError, method, rpcErr.ErrorCode(), err)
	}
	return fmt.Errorf("%w: %s: %v", domainerrors.ErrNetworkUnavailable, method, err)
}

// rawErrString renders a JSON "err" field, which is null on success and
// an arbitrary object or string on failure.
func rawErrString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}
