package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrAccountNotFound     = errors.New("bank account not found")
	ErrInvalidAddress      = errors.New("invalid wallet address")
	ErrInvalidKeyMaterial  = errors.New("invalid key material")
	ErrEncryptionFailure   = errors.New("encryption failure")
	ErrDecryptionFailure   = errors.New("decryption failure")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNetworkUnavailable  = errors.New("ledger network unavailable")
	ErrRpcError            = errors.New("ledger rpc error")
	ErrBroadcastFailure    = errors.New("transaction broadcast failure")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	ErrTransferInProgress  = errors.New("another transfer is in progress for this wallet")
	ErrReconciliation      = errors.New("reconciliation failure: manual intervention required")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrBalanceUnavailable  = errors.New("balance unavailable")
)

// FundsSide distinguishes which balance was short in an InsufficientFundsError.
type FundsSide string

const (
	FundsSideLedger FundsSide = "ledger"
	FundsSideFiat   FundsSide = "fiat"
)

// InsufficientFundsError carries both figures for user-facing diagnostics.
type InsufficientFundsError struct {
	Side      FundsSide
	Available float64
	Requested float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s funds: available %.9f, requested %.9f", e.Side, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// NewInsufficientFunds creates an InsufficientFundsError for the given side.
func NewInsufficientFunds(side FundsSide, available, requested float64) error {
	return &InsufficientFundsError{Side: side, Available: available, Requested: requested}
}

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// StatusCode maps a domain error to the HTTP status the handler layer should return.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrWalletNotFound), errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrUnsupportedCurrency):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransferInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrNetworkUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
