/*

This file contains the policy primitives: pure functions over wallet state that
decide whether an action is permitted. They perform no I/O and never mutate the
wallet; the operation handlers compose them into guards.

*/

package policy

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/utils"
)

// IsAuthorized reports whether the caller may perform trade and fee actions.
// Owner-only actions use a direct owner comparison instead, not this check.
func IsAuthorized(w *types.Wallet, caller solana.PublicKey) bool {
	return caller.Equals(w.Owner) || caller.Equals(w.Operator)
}

// IsLocked reports whether owner withdrawals are currently forbidden.
// The boundary now == LockUntil is unlocked.
func IsLocked(w *types.Wallet, now int64) bool {
	return w.LockUntil > 0 && now < w.LockUntil
}

// CanTrade reports whether the per-wallet trade cooldown has elapsed.
// A wallet that has never traded (LastTrade == 0) can always trade.
// The boundary now == LastTrade+MinDelaySecs is tradeable.
func CanTrade(w *types.Wallet, now int64) bool {
	if w.LastTrade == 0 {
		return true
	}
	return now >= w.LastTrade+int64(w.Config.MinDelaySecs)
}

// MaxTradeAmount returns the largest amount a single trade may use:
// floor(availableBalance * TradeSizePct / 100).
func MaxTradeAmount(w *types.Wallet, availableBalance uint64) (uint64, error) {
	scaled, err := utils.CheckedMul64(availableBalance, uint64(w.Config.TradeSizePct))
	if err != nil {
		return 0, err
	}
	return scaled / 100, nil
}

// CalculateMinOutput applies the wallet's slippage tolerance to a
// caller-supplied expected output: floor(expected * (10000 - SlippageBps) / 10000).
func CalculateMinOutput(w *types.Wallet, expectedOutput uint64) (uint64, error) {
	if uint64(w.Config.SlippageBps) > 10000 {
		return 0, types.ErrMathOverflow
	}
	factor := 10000 - uint64(w.Config.SlippageBps)
	scaled, err := utils.CheckedMul64(expectedOutput, factor)
	if err != nil {
		return 0, err
	}
	return scaled / 10000, nil
}

// ValidateConfig rejects malformed strategy configurations. Check order is
// fixed: trade size, then slippage, then delay ordering; the first violation
// wins. Invoked on every write path that sets a config.
func ValidateConfig(cfg types.StrategyConfig) error {
	if cfg.TradeSizePct < 1 || cfg.TradeSizePct > config.MaxTradePct {
		return types.ErrInvalidTradeSize
	}
	if cfg.SlippageBps < config.MinSlippageBps || cfg.SlippageBps > config.MaxSlippageBps {
		return types.ErrInvalidSlippage
	}
	if cfg.MinDelaySecs > cfg.MaxDelaySecs {
		return types.ErrInvalidDelayConfig
	}
	return nil
}
