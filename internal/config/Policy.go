/*

This file contains the policy bounds the controller enforces on every wallet.

These values mirror the on-chain limits of the venue protocols and are not
runtime-configurable: every guard in the operation handlers reads them, and a
divergence between two running instances would make authorization decisions
inconsistent.

*/

package config

// ProgramVersion is the wallet record version, bumped on layout migrations.
const ProgramVersion uint8 = 2

// MinRentReserve is the minimum balance (in lamports) that must remain in a
// vault at all times. 0.01 SOL, matching the rent-exemption floor.
const MinRentReserve uint64 = 10_000_000

// MaxTradePct is the largest fraction of vault balance a single trade may use.
const MaxTradePct uint8 = 50

// MinLockSeconds is the minimum initial lock duration (0 = no lock).
const MinLockSeconds int64 = 0

// MaxLockSeconds is the maximum single lock duration (365 days).
const MaxLockSeconds int64 = 365 * 24 * 60 * 60

// MaxTotalLockSeconds caps the cumulative lock at 5 years from now.
// Extend-lock can never push the unlock time past this horizon.
const MaxTotalLockSeconds int64 = 5 * 365 * 24 * 60 * 60

// MinSlippageBps is the minimum slippage tolerance (0.1%). Anything tighter
// would make every trade fail against a moving curve.
const MinSlippageBps uint16 = 10

// MaxSlippageBps is the maximum slippage tolerance (50%).
const MaxSlippageBps uint16 = 5000
