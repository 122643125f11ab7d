package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
)

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockWalletRepository) GetByPublicKey(ctx context.Context, publicKey string) (*entities.Wallet, error) {
	args := m.Called(ctx, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserAndPublicKey(ctx context.Context, userID uuid.UUID, publicKey string) (*entities.Wallet, error) {
	args := m.Called(ctx, userID, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserCurrencyType(ctx context.Context, userID uuid.UUID, currency string, walletType entities.WalletType) (*entities.Wallet, error) {
	args := m.Called(ctx, userID, currency, walletType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *entities.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, publicKey string, balance float64) error {
	return m.Called(ctx, publicKey, balance).Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Upsert(ctx context.Context, record *entities.TransactionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockTransactionRepository) GetBySignature(ctx context.Context, signature string) (*entities.TransactionRecord, error) {
	args := m.Called(ctx, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) GetByWallet(ctx context.Context, userID uuid.UUID, walletPublicKey string, limit, offset int) ([]*entities.TransactionRecord, int64, error) {
	args := m.Called(ctx, userID, walletPublicKey, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.TransactionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) GetPending(ctx context.Context, limit int) ([]*entities.TransactionRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, signature string, status entities.TransactionStatus) error {
	return m.Called(ctx, signature, status).Error(0)
}

// Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByRIB(ctx context.Context, userID uuid.UUID, rib string) (*entities.Account, error) {
	args := m.Called(ctx, userID, rib)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, rib string, amount float64) (float64, error) {
	args := m.Called(ctx, rib, amount)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, rib string, amount float64) (float64, error) {
	args := m.Called(ctx, rib, amount)
	return args.Get(0).(float64), args.Error(1)
}

// Mock LedgerGateway
type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) GetBalance(ctx context.Context, address string) (float64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedgerGateway) GetLatestBlockhash(ctx context.Context) (*entities.Blockhash, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Blockhash), args.Error(1)
}

func (m *MockLedgerGateway) RequestAirdrop(ctx context.Context, address string, amount float64) (string, error) {
	args := m.Called(ctx, address, amount)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerGateway) SendRawTransaction(ctx context.Context, signedTx []byte) (string, error) {
	args := m.Called(ctx, signedTx)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerGateway) GetSignatureStatus(ctx context.Context, signature string) (entities.ConfirmationStatus, error) {
	args := m.Called(ctx, signature)
	return args.Get(0).(entities.ConfirmationStatus), args.Error(1)
}

func (m *MockLedgerGateway) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]entities.SignatureInfo, error) {
	args := m.Called(ctx, address, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SignatureInfo), args.Error(1)
}

func (m *MockLedgerGateway) GetTransaction(ctx context.Context, signature string) (*entities.TransactionDetail, error) {
	args := m.Called(ctx, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransactionDetail), args.Error(1)
}
