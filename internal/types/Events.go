package types

import (
	"github.com/gagliardetto/solana-go"
)

// Observability events, one per state-changing operation. They are advisory:
// nothing in the controller reads them back.

// TradeSide distinguishes the two trade directions in TradeExecuted.
type TradeSide uint8

const (
	TradeSideBuy  TradeSide = 0
	TradeSideSell TradeSide = 1
)

// WalletInitializedEvent is emitted once when a wallet record is created.
type WalletInitializedEvent struct {
	Owner     solana.PublicKey `json:"owner"`
	Vault     solana.PublicKey `json:"vault"`
	Nonce     uint64           `json:"nonce"`
	LockUntil int64            `json:"lock_until"`
	Strategy  Strategy         `json:"strategy"`
}

// DepositedEvent is emitted when value moves into the vault.
type DepositedEvent struct {
	Vault     solana.PublicKey `json:"vault"`
	Depositor solana.PublicKey `json:"depositor"`
	Amount    uint64           `json:"amount"`
}

// WithdrawnEvent is emitted when the owner withdraws from the vault.
type WithdrawnEvent struct {
	Vault  solana.PublicKey `json:"vault"`
	Owner  solana.PublicKey `json:"owner"`
	Amount uint64           `json:"amount"`
}

// TradeExecutedEvent is emitted for buys, sells and swaps.
type TradeExecutedEvent struct {
	Vault        solana.PublicKey `json:"vault"`
	Side         TradeSide        `json:"side"`
	AmountIn     uint64           `json:"amount_in"`
	MinAmountOut uint64           `json:"min_amount_out"`
	Timestamp    int64            `json:"timestamp"`
}

// FeesClaimedEvent is emitted when creator fees land in the vault.
type FeesClaimedEvent struct {
	Vault     solana.PublicKey `json:"vault"`
	Amount    uint64           `json:"amount"`
	Timestamp int64            `json:"timestamp"`
}

// StrategyUpdatedEvent is emitted when the owner replaces strategy+config.
type StrategyUpdatedEvent struct {
	Vault       solana.PublicKey `json:"vault"`
	OldStrategy Strategy         `json:"old_strategy"`
	NewStrategy Strategy         `json:"new_strategy"`
}

// OperatorChangedEvent is emitted when the owner replaces the operator.
type OperatorChangedEvent struct {
	Vault       solana.PublicKey `json:"vault"`
	OldOperator solana.PublicKey `json:"old_operator"`
	NewOperator solana.PublicKey `json:"new_operator"`
}
