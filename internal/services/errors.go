package services

import "errors"

// Caller-input errors: the operation is rejected before any write.
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidOpeningBalance = errors.New("opening balance cannot be negative")
	ErrAccountNotFound       = errors.New("account not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSameAccount           = errors.New("cannot transfer to the same account")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrEmailTaken            = errors.New("email already registered")
)

// Server-side faults: the unit of work aborted, nothing was committed.
var (
	ErrAccountNumbersExhausted = errors.New("could not allocate a unique account number")
	ErrLedgerIntegrity         = errors.New("ledger integrity violation")
)
