package apperrors

import "errors"

// ErrCurrencyNotFound indicates an unknown currency id was passed to a
// currency-scoped operation.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrAccountNotFound indicates asynchronous resolution found no record for
// the given name or id.
var ErrAccountNotFound = errors.New("account not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// Exchange and transfer rejections. Each one is independently
// distinguishable so callers can produce a specific message.
var (
	ErrExchangeDisabled    = errors.New("exchange is disabled for this currency")
	ErrTransferDisabled    = errors.New("transfer is disabled for this currency")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoExchangeRoute     = errors.New("no exchange route between currencies")
	ErrAmountTooSmall      = errors.New("amount too small")
	ErrTargetLimitExceeded = errors.New("target currency limit exceeded")
)

// ErrPersistence indicates a save could not complete. The in-memory state
// stays authoritative; the failure is logged, never propagated to the caller
// whose mutation already succeeded in memory.
var ErrPersistence = errors.New("persistence failure")

// ErrConfiguration indicates a configuration problem that is logged but does
// not abort the operation (e.g. a primary-economy currency registered while
// the economy bridge is unavailable).
var ErrConfiguration = errors.New("configuration error")
