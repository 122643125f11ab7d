package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
	"github.com/dalikhouaja008/B-rich-backend/internal/domain/repositories"
	"github.com/dalikhouaja008/B-rich-backend/pkg/crypto"
	"github.com/dalikhouaja008/B-rich-backend/pkg/logger"
	"github.com/dalikhouaja008/B-rich-backend/pkg/redis"
	"github.com/dalikhouaja008/B-rich-backend/pkg/solana"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

// TransferConfig bounds the broadcast and confirmation phases.
type TransferConfig struct {
	BroadcastAttempts int
	ConfirmPoll       time.Duration
	ConfirmTimeout    time.Duration
}

func (c TransferConfig) withDefaults() TransferConfig {
	if c.BroadcastAttempts <= 0 {
		c.BroadcastAttempts = 3
	}
	if c.ConfirmPoll <= 0 {
		c.ConfirmPoll = 2 * time.Second
	}
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = 2 * time.Minute
	}
	return c
}

// TransferUsecase drives a wallet-to-wallet transfer through its state
// machine: verify funds, sign, broadcast, then wait for confirmation.
// Funds are never debited locally; the ledger is the only authority.
type TransferUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	gateway    repositories.LedgerGateway
	vault      *crypto.KeyVault
	locks      *redis.WalletLockStore
	cfg        TransferConfig
}

// NewTransferUsecase creates a new transfer usecase
func NewTransferUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	gateway repositories.LedgerGateway,
	vault *crypto.KeyVault,
	locks *redis.WalletLockStore,
	cfg TransferConfig,
) *TransferUsecase {
	return &TransferUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		gateway:    gateway,
		vault:      vault,
		locks:      locks,
		cfg:        cfg.withDefaults(),
	}
}

// Transfer moves amount SOL from the user's custodied wallet to another
// address. The sender wallet is leased for the verify-sign-broadcast
// window so concurrent transfers cannot double-spend; the confirmation
// wait holds no lock. A confirmation timeout is not a failure: the
// signature is persisted as pending for the reconciler to settle.
func (u *TransferUsecase) Transfer(ctx context.Context, userID uuid.UUID, input *entities.TransferInput) (*entities.TransferResult, error) {
	if input == nil || input.Amount <= 0 {
		return nil, domainerrors.ErrBadRequest
	}
	if !solana.ValidAddress(input.FromPublicKey) || !solana.ValidAddress(input.ToPublicKey) {
		return nil, domainerrors.ErrInvalidAddress
	}
	if input.FromPublicKey == input.ToPublicKey {
		return nil, fmt.Errorf("%w: sender and recipient are the same address", domainerrors.ErrBadRequest)
	}

	wallet, err := u.walletRepo.GetByUserAndPublicKey(ctx, userID, input.FromPublicKey)
	if err != nil {
		return nil, err
	}
	if !wallet.HasKeyMaterial() {
		return nil, fmt.Errorf("%w: wallet %s has no custodied key", domainerrors.ErrInvalidKeyMaterial, wallet.PublicKey)
	}

	signature, err := u.signAndBroadcast(ctx, wallet, input)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	return u.awaitConfirmation(ctx, userID, wallet, input, signature)
}

// signAndBroadcast runs the lock-protected window: live balance check,
// key decryption, signing against a fresh blockhash, and broadcast.
func (u *TransferUsecase) signAndBroadcast(ctx context.Context, wallet *entities.Wallet, input *entities.TransferInput) (string, error) {
	token, acquired, err := u.locks.Acquire(ctx, wallet.PublicKey)
	if err != nil {
		return "", fmt.Errorf("acquire transfer lock: %w", err)
	}
	if !acquired {
		return "", domainerrors.ErrTransferInProgress
	}
	defer func() {
		if releaseErr := u.locks.Release(ctx, wallet.PublicKey, token); releaseErr != nil {
			logger.Warn(ctx, "transfer lock release failed",
				zap.String("public_key", wallet.PublicKey),
				zap.Error(releaseErr),
			)
		}
	}()

	balance, err := u.gateway.GetBalance(ctx, wallet.PublicKey)
	if err != nil {
		return "", err
	}
	if balance < input.Amount {
		return "", domainerrors.NewInsufficientFunds(domainerrors.FundsSideLedger, balance, input.Amount)
	}

	secret, err := u.vault.Decrypt(wallet.EncryptedPrivateKey.String)
	if err != nil {
		return "", err
	}
	keypair, err := solana.KeypairFromSecretKey(secret)
	if err != nil {
		return "", err
	}

	blockhash, err := u.gateway.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	rawTx, err := solana.BuildTransferTransaction(keypair, input.ToPublicKey, solana.ToLamports(input.Amount), blockhash.Hash)
	if err != nil {
		return "", err
	}

	return u.broadcast(ctx, rawTx)
}

// broadcast retries transient send failures a bounded number of times.
func (u *TransferUsecase) broadcast(ctx context.Context, rawTx []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= u.cfg.BroadcastAttempts; attempt++ {
		signature, err := u.gateway.SendRawTransaction(ctx, rawTx)
		if err == nil {
			return signature, nil
		}
		lastErr = err
		logger.Warn(ctx, "broadcast attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < u.cfg.BroadcastAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}
	return "", fmt.Errorf("%w: %v", domainerrors.ErrBroadcastFailure, lastErr)
}

// awaitConfirmation polls the signature status until it settles or the
// wall-clock bound elapses.
func (u *TransferUsecase) awaitConfirmation(ctx context.Context, userID uuid.UUID, wallet *entities.Wallet, input *entities.TransferInput, signature string) (*entities.TransferResult, error) {
	started := time.Now()
	deadline := started.Add(u.cfg.ConfirmTimeout)

	for {
		status, err := u.gateway.GetSignatureStatus(ctx, signature)
		if err != nil {
			// transient poll failure, keep waiting until the deadline
			logger.Warn(ctx, "signature status poll failed",
				zap.String("signature", signature),
				zap.Error(err),
			)
		} else if status.Terminal() {
			transferConfirmationSeconds.Observe(time.Since(started).Seconds())
			if status.State == entities.ConfirmationFailed {
				return u.settleFailed(ctx, userID, wallet, input, signature, status.Err)
			}
			return u.settleConfirmed(ctx, userID, wallet, input, signature)
		}

		if !time.Now().Add(u.cfg.ConfirmPoll).Before(deadline) {
			return u.settleTimedOut(ctx, userID, wallet, input, signature)
		}
		select {
		case <-ctx.Done():
			return u.settleTimedOut(ctx, userID, wallet, input, signature)
		case <-time.After(u.cfg.ConfirmPoll):
		}
	}
}

func (u *TransferUsecase) settleConfirmed(ctx context.Context, userID uuid.UUID, wallet *entities.Wallet, input *entities.TransferInput, signature string) (*entities.TransferResult, error) {
	u.refreshBalances(ctx, wallet.PublicKey, input.ToPublicKey)
	u.recordTransfer(ctx, userID, wallet, input, signature, entities.TransactionStatusSuccess)

	transfersTotal.WithLabelValues("confirmed").Inc()
	logger.Info(ctx, "transfer confirmed",
		zap.String("signature", signature),
		zap.String("from", wallet.PublicKey),
		zap.String("to", input.ToPublicKey),
		zap.Float64("amount", input.Amount),
	)
	return &entities.TransferResult{
		Signature: signature,
		State:     entities.TransferConfirmed,
		Status:    entities.TransactionStatusSuccess,
	}, nil
}

func (u *TransferUsecase) settleFailed(ctx context.Context, userID uuid.UUID, wallet *entities.Wallet, input *entities.TransferInput, signature, ledgerErr string) (*entities.TransferResult, error) {
	u.recordTransfer(ctx, userID, wallet, input, signature, entities.TransactionStatusFailed)

	transfersTotal.WithLabelValues("failed").Inc()
	result := &entities.TransferResult{
		Signature: signature,
		State:     entities.TransferFailed,
		Status:    entities.TransactionStatusFailed,
	}
	return result, fmt.Errorf("%w: %s", domainerrors.ErrRpcError, ledgerErr)
}

func (u *TransferUsecase) settleTimedOut(ctx context.Context, userID uuid.UUID, wallet *entities.Wallet, input *entities.TransferInput, signature string) (*entities.TransferResult, error) {
	u.recordTransfer(ctx, userID, wallet, input, signature, entities.TransactionStatusPending)

	transfersTotal.WithLabelValues("timed_out").Inc()
	logger.Warn(ctx, "transfer confirmation timed out, recorded as pending",
		zap.String("signature", signature),
	)
	return &entities.TransferResult{
		Signature: signature,
		State:     entities.TransferTimedOut,
		Status:    entities.TransactionStatusPending,
	}, nil
}

// refreshBalances pulls the authoritative post-transfer balances for the
// sender and, when it is locally known, the recipient.
func (u *TransferUsecase) refreshBalances(ctx context.Context, from, to string) {
	for _, address := range []string{from, to} {
		if _, err := u.walletRepo.GetByPublicKey(ctx, address); err != nil {
			continue // recipient can be a foreign address
		}
		balance, err := u.gateway.GetBalance(ctx, address)
		if err != nil {
			logger.Warn(ctx, "post-transfer balance refresh failed",
				zap.String("public_key", address),
				zap.Error(err),
			)
			continue
		}
		if err := u.walletRepo.UpdateBalance(ctx, address, balance); err != nil {
			logger.Warn(ctx, "post-transfer balance write failed",
				zap.String("public_key", address),
				zap.Error(err),
			)
		}
	}
}

func (u *TransferUsecase) recordTransfer(ctx context.Context, userID uuid.UUID, wallet *entities.Wallet, input *entities.TransferInput, signature string, status entities.TransactionStatus) {
	now := time.Now()
	record := &entities.TransactionRecord{
		ID:              utils.GenerateUUIDv7(),
		Signature:       signature,
		WalletPublicKey: wallet.PublicKey,
		UserID:          userID,
		FromAddress:     wallet.PublicKey,
		ToAddress:       input.ToPublicKey,
		Amount:          input.Amount,
		BlockTime:       now.Unix(),
		Status:          status,
		Type:            entities.TransactionTypeSend,
		Timestamp:       now,
	}
	if err := u.txRepo.Upsert(ctx, record); err != nil {
		logger.Error(ctx, "transfer record write failed",
			zap.String("signature", signature),
			zap.Error(err),
		)
	}
}
