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
	"github.com/dalikhouaja008/B-rich-backend/pkg/logger"
	"github.com/dalikhouaja008/B-rich-backend/pkg/utils"
)

// BridgeUsecase moves value between a user's fiat bank account and their
// custodied wallet. The fiat debit happens first; any wallet-side failure
// is unwound with a compensating credit.
type BridgeUsecase struct {
	accountRepo repositories.AccountRepository
	txRepo      repositories.TransactionRepository
	wallets     *WalletUsecase
}

// NewBridgeUsecase creates a new bridge usecase
func NewBridgeUsecase(
	accountRepo repositories.AccountRepository,
	txRepo repositories.TransactionRepository,
	wallets *WalletUsecase,
) *BridgeUsecase {
	return &BridgeUsecase{accountRepo: accountRepo, txRepo: txRepo, wallets: wallets}
}

// FundWalletFromAccount debits the user's bank account and credits the
// amount to the shadow balance of their generated wallet for that
// currency. No ledger conversion happens here, so currencies without a
// conversion rate can be bridged too. If the wallet credit fails after
// the debit, the debit is compensated; a compensation failure is
// escalated for manual reconciliation and is never retried
// automatically.
func (u *BridgeUsecase) FundWalletFromAccount(ctx context.Context, userID uuid.UUID, input *entities.FundWalletInput) (*entities.Wallet, error) {
	if input == nil || input.RIB == "" || input.Amount <= 0 || input.Currency == "" {
		return nil, domainerrors.ErrBadRequest
	}

	account, err := u.accountRepo.GetByRIB(ctx, userID, input.RIB)
	if err != nil {
		return nil, err
	}
	if account.Balance < input.Amount {
		return nil, domainerrors.NewInsufficientFunds(domainerrors.FundsSideFiat, account.Balance, input.Amount)
	}

	if _, err := u.accountRepo.Debit(ctx, input.RIB, input.Amount); err != nil {
		return nil, err
	}

	wallet, err := u.wallets.CreditShadowBalance(ctx, userID, input.Currency, input.Amount)
	if err != nil {
		return nil, u.compensate(ctx, input.RIB, input.Amount, err)
	}

	u.recordBridge(ctx, userID, account, wallet, input.Amount)

	logger.Info(ctx, "wallet funded from bank account",
		zap.String("user_id", userID.String()),
		zap.String("rib", input.RIB),
		zap.String("public_key", wallet.PublicKey),
		zap.Float64("amount", input.Amount),
	)
	return wallet, nil
}

// compensate returns the debited amount to the account. When even the
// compensating credit fails the account is out of balance with the
// wallet, which only an operator can resolve.
func (u *BridgeUsecase) compensate(ctx context.Context, rib string, amount float64, cause error) error {
	bridgeCompensations.Inc()
	if _, creditErr := u.accountRepo.Credit(ctx, rib, amount); creditErr != nil {
		logger.Error(ctx, "compensating credit failed, manual reconciliation required",
			zap.String("rib", rib),
			zap.Float64("amount", amount),
			zap.NamedError("cause", cause),
			zap.Error(creditErr),
		)
		return fmt.Errorf("%w: wallet credit failed (%v) and compensating credit failed (%v)",
			domainerrors.ErrReconciliation, cause, creditErr)
	}
	logger.Warn(ctx, "wallet credit failed, fiat debit compensated",
		zap.String("rib", rib),
		zap.Float64("amount", amount),
		zap.Error(cause),
	)
	return cause
}

// recordBridge logs the funding as a bank_to_wallet transaction. The
// money has already moved correctly at this point, so a write failure is
// logged rather than unwound.
func (u *BridgeUsecase) recordBridge(ctx context.Context, userID uuid.UUID, account *entities.Account, wallet *entities.Wallet, amount float64) {
	now := time.Now()
	record := &entities.TransactionRecord{
		ID:              utils.GenerateUUIDv7(),
		Signature:       "bridge-" + uuid.NewString(),
		WalletPublicKey: wallet.PublicKey,
		UserID:          userID,
		FromAddress:     account.RIB,
		ToAddress:       wallet.PublicKey,
		Amount:          amount,
		BlockTime:       now.Unix(),
		Status:          entities.TransactionStatusSuccess,
		Type:            entities.TransactionTypeBankToWallet,
		Timestamp:       now,
	}
	if err := u.txRepo.Upsert(ctx, record); err != nil {
		logger.Error(ctx, "bridge record write failed",
			zap.String("signature", record.Signature),
			zap.Error(err),
		)
	}
}

// ConvertCurrency converts a fiat amount into SOL inside the user's
// generated wallet for that currency, creating the wallet on first use.
func (u *BridgeUsecase) ConvertCurrency(ctx context.Context, userID uuid.UUID, input *entities.ConvertCurrencyInput) (*entities.Wallet, error) {
	if input == nil || input.Amount <= 0 || input.FromCurrency == "" {
		return nil, domainerrors.ErrBadRequest
	}
	return u.wallets.CreateCurrencyWallet(ctx, userID, &entities.CreateWalletInput{
		Currency: input.FromCurrency,
		Amount:   input.Amount,
	})
}
