package types

import "errors"

// Error definitions for every failure kind the operation handlers can return.
// These are sentinel values so callers can branch with errors.Is; handlers wrap
// them with context via fmt.Errorf("%w: ...").
var (
	// Authorization
	ErrUnauthorized         = errors.New("unauthorized: only the owner can perform this action")
	ErrUnauthorizedOperator = errors.New("unauthorized: caller is not owner or authorized operator")

	// State guards
	ErrWalletLocked       = errors.New("wallet is locked until the specified time")
	ErrTradingPaused      = errors.New("trading is currently paused")
	ErrAlreadyInitialized = errors.New("wallet already initialized for this nonce")
	ErrTokenMintAlreadySet = errors.New("token mint already set")
	ErrTokenMintMismatch  = errors.New("token mint mismatch")

	// Input validation
	ErrInvalidLockDuration = errors.New("invalid lock duration (0 to 365 days)")
	ErrLockTooLong         = errors.New("total lock period exceeds maximum (5 years)")
	ErrInvalidTradeSize    = errors.New("invalid trade size percentage (must be 1-50)")
	ErrInvalidSlippage     = errors.New("invalid slippage (must be 10-5000 bps)")
	ErrInvalidDelayConfig  = errors.New("invalid delay configuration (min > max)")
	ErrInvalidStrategy     = errors.New("unknown strategy tag")
	ErrZeroDeposit         = errors.New("deposit amount must be greater than zero")
	ErrInvalidOperator     = errors.New("operator cannot be the zero address")
	ErrInvalidWithdrawDestination = errors.New("cannot withdraw to a different address")

	// Resource
	ErrInsufficientBalance = errors.New("insufficient balance for trade")
	ErrTradeExceedsMax     = errors.New("trade amount exceeds maximum allowed percentage")
	ErrBelowRentReserve    = errors.New("must keep minimum rent reserve in the vault")
	ErrTradeTooSoon        = errors.New("trade rate limit exceeded, wait for cooldown")

	// Arithmetic
	ErrMathOverflow = errors.New("arithmetic overflow")

	// External protocol
	ErrInvalidProgram = errors.New("invalid target program for venue call")
)
