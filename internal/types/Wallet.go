/*

This file contains the wallet state record: the durable entity holding one
market-making wallet's configuration, custody stats and timers. It is mutated
only by the operation handlers in internal/wallet.

*/

package types

import (
	"github.com/gagliardetto/solana-go"
)

// Strategy is the trading strategy tag. The controller never branches on it;
// it is consumed by the off-chain agent driving the wallet.
type Strategy uint8

const (
	StrategyVolumeBot     Strategy = 0
	StrategyPriceReactive Strategy = 1
	StrategyGridTrading   Strategy = 2
	StrategyTrendFollower Strategy = 3
	StrategySpreadMM      Strategy = 4
	StrategyPumpHunter    Strategy = 5
)

// String returns the strategy name for logging and the web API.
func (s Strategy) String() string {
	switch s {
	case StrategyVolumeBot:
		return "volume_bot"
	case StrategyPriceReactive:
		return "price_reactive"
	case StrategyGridTrading:
		return "grid_trading"
	case StrategyTrendFollower:
		return "trend_follower"
	case StrategySpreadMM:
		return "spread_mm"
	case StrategyPumpHunter:
		return "pump_hunter"
	default:
		return "unknown"
	}
}

// Valid reports whether the tag is one of the known strategies.
func (s Strategy) Valid() bool {
	return s <= StrategyPumpHunter
}

// StrategyConfig holds the per-wallet trading parameters. The three Param
// slots are opaque to the controller.
type StrategyConfig struct {
	// Trade size as percentage of balance (1-50)
	TradeSizePct uint8 `json:"trade_size_pct"`

	// Minimum delay between trades in seconds (enforced by the rate limiter)
	MinDelaySecs uint16 `json:"min_delay_secs"`

	// Maximum delay between trades in seconds. Stored and validated
	// (min <= max) but advisory only: the off-chain scheduler reads it, no
	// guard does. See the rate-limit note in DESIGN.md before "fixing" this.
	MaxDelaySecs uint16 `json:"max_delay_secs"`

	// Slippage tolerance in basis points (10-5000, where 100 = 1%)
	SlippageBps uint16 `json:"slippage_bps"`

	// Strategy-specific parameters, opaque to the controller
	Param1 uint16 `json:"param1"`
	Param2 uint16 `json:"param2"`
	Param3 uint16 `json:"param3"`
}

// Wallet is the state record for one owner+nonce pair.
type Wallet struct {
	// Record version for migrations
	Version uint8 `json:"version"`

	// Vault derivation bump seed
	Bump uint8 `json:"bump"`

	// Owner controls custody and configuration (user's connected wallet)
	Owner solana.PublicKey `json:"owner"`

	// Operator is authorized for trade and fee actions only
	Operator solana.PublicKey `json:"operator"`

	// TokenMint is the traded asset. Zero until create-token/set-mint; set once.
	TokenMint solana.PublicKey `json:"token_mint"`

	// Nonce distinguishes multiple wallets per owner
	Nonce uint64 `json:"nonce"`

	// Strategy tag (opaque)
	Strategy Strategy `json:"strategy"`

	// Strategy configuration
	Config StrategyConfig `json:"config"`

	// Unix timestamp when the lock expires (0 = no lock). Extend-only.
	LockUntil int64 `json:"lock_until"`

	// Whether trading is currently paused
	Paused bool `json:"paused"`

	// Whether this wallet created the token (receives creator fees)
	IsCreator bool `json:"is_creator"`

	// Total lamport volume traded (saturating)
	TotalVolume uint64 `json:"total_volume"`

	// Total trades executed (saturating)
	TotalTrades uint64 `json:"total_trades"`

	// Total creator fees claimed (saturating)
	TotalFeesClaimed uint64 `json:"total_fees_claimed"`

	// Last trade timestamp (0 = never traded)
	LastTrade int64 `json:"last_trade"`

	// Creation timestamp
	CreatedAt int64 `json:"created_at"`
}

// MintSet reports whether the token mint has been recorded.
func (w *Wallet) MintSet() bool {
	return !w.TokenMint.IsZero()
}
