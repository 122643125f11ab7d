package usecases

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	"github.com/dalikhouaja008/B-rich-backend/internal/domain/repositories"
	"github.com/dalikhouaja008/B-rich-backend/pkg/logger"
	"github.com/dalikhouaja008/B-rich-backend/pkg/solana"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

// syncSignatureLimit caps how far back one sync pass reaches.
const syncSignatureLimit = 100

// SyncUsecase mirrors a wallet's on-ledger transaction history into the
// local transaction log. Records are keyed by signature, so repeated
// syncs converge instead of duplicating.
type SyncUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	gateway    repositories.LedgerGateway
}

// NewSyncUsecase creates a new sync usecase
func NewSyncUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	gateway repositories.LedgerGateway,
) *SyncUsecase {
	return &SyncUsecase{walletRepo: walletRepo, txRepo: txRepo, gateway: gateway}
}

// SyncWalletTransactions fetches the wallet's recent signatures, upserts
// a record per resolvable transaction and refreshes the cached balance.
// A signature whose detail cannot be fetched is skipped, not fatal: the
// next pass picks it up again.
func (u *SyncUsecase) SyncWalletTransactions(ctx context.Context, userID uuid.UUID, walletPublicKey string) (*entities.SyncResult, error) {
	wallet, err := u.walletRepo.GetByUserAndPublicKey(ctx, userID, walletPublicKey)
	if err != nil {
		return nil, err
	}

	infos, err := u.gateway.GetSignaturesForAddress(ctx, walletPublicKey, syncSignatureLimit)
	if err != nil {
		return nil, err
	}

	touched := 0
	for _, info := range infos {
		detail, err := u.gateway.GetTransaction(ctx, info.Signature)
		if err != nil || detail == nil {
			logger.Warn(ctx, "skipping unresolvable signature",
				zap.String("signature", info.Signature),
				zap.Error(err),
			)
			continue
		}

		record := u.buildRecord(userID, wallet.PublicKey, info, detail)
		if err := u.txRepo.Upsert(ctx, record); err != nil {
			logger.Warn(ctx, "transaction record upsert failed",
				zap.String("signature", info.Signature),
				zap.Error(err),
			)
			continue
		}
		touched++
	}
	syncRecordsTouched.Add(float64(touched))

	balance := wallet.Balance
	if fresh, err := u.gateway.GetBalance(ctx, walletPublicKey); err != nil {
		logger.Warn(ctx, "post-sync balance refresh failed",
			zap.String("public_key", walletPublicKey),
			zap.Error(err),
		)
	} else {
		if err := u.walletRepo.UpdateBalance(ctx, walletPublicKey, fresh); err != nil {
			return nil, err
		}
		balance = fresh
	}

	return &entities.SyncResult{RecordsTouched: touched, CurrentBalance: balance}, nil
}

// GetWalletTransactions reads the locally recorded history of a wallet,
// newest first, with pagination metadata.
func (u *SyncUsecase) GetWalletTransactions(ctx context.Context, userID uuid.UUID, walletPublicKey string, page, limit int) ([]*entities.TransactionRecord, utils.PaginationMeta, error) {
	if _, err := u.walletRepo.GetByUserAndPublicKey(ctx, userID, walletPublicKey); err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	params := utils.GetPaginationParams(page, limit)
	records, total, err := u.txRepo.GetByWallet(ctx, userID, walletPublicKey, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return records, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// buildRecord normalizes one ledger transaction into a local record.
// Missing counterparties degrade to empty strings and the type falls
// back to unknown rather than failing the sync.
func (u *SyncUsecase) buildRecord(userID uuid.UUID, walletPublicKey string, info entities.SignatureInfo, detail *entities.TransactionDetail) *entities.TransactionRecord {
	blockTime := detail.BlockTime
	if blockTime == 0 {
		blockTime = info.BlockTime
	}

	status := entities.TransactionStatusSuccess
	if detail.Err != "" || info.Err != "" {
		status = entities.TransactionStatusFailed
	}

	// the sign of the wallet's own balance change decides the type; the
	// wallet may sit at any index of AccountKeys, not just a counterparty
	// slot. Without balance data the counterparty positions are the
	// fallback.
	txType := entities.TransactionTypeUnknown
	delta, known := walletDelta(walletPublicKey, detail)
	switch {
	case known && delta < 0:
		txType = entities.TransactionTypeSend
	case known && delta > 0:
		txType = entities.TransactionTypeReceive
	case walletPublicKey == detail.FromAddress():
		txType = entities.TransactionTypeSend
	case walletPublicKey == detail.ToAddress():
		txType = entities.TransactionTypeReceive
	}

	amount := math.Abs(delta)
	fee := 0.0
	if txType == entities.TransactionTypeSend {
		fee = solana.ToSOL(detail.Fee)
		// the sender's delta includes the fee it paid
		amount = math.Max(amount-fee, 0)
	}

	return &entities.TransactionRecord{
		ID:              utils.GenerateUUIDv7(),
		Signature:       info.Signature,
		WalletPublicKey: walletPublicKey,
		UserID:          userID,
		FromAddress:     detail.FromAddress(),
		ToAddress:       detail.ToAddress(),
		Amount:          amount,
		Fee:             fee,
		BlockTime:       blockTime,
		Status:          status,
		Type:            txType,
		Timestamp:       time.Unix(blockTime, 0),
	}
}

// walletDelta derives the signed balance change of the wallet from the
// pre/post balance arrays, matching the wallet's position in AccountKeys.
// The second return reports whether balance data for that position was
// present at all.
func walletDelta(walletPublicKey string, detail *entities.TransactionDetail) (float64, bool) {
	for i, key := range detail.AccountKeys {
		if key != walletPublicKey {
			continue
		}
		if i < len(detail.PreBalances) && i < len(detail.PostBalances) {
			return solana.LamportsDelta(detail.PreBalances[i], detail.PostBalances[i]), true
		}
		break
	}
	return 0, false
}
