package wallet

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/ledger"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/vault"
)

func tradeAccounts() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: solana.NewWallet().PublicKey(), IsWritable: true},
	}
}

func TestExecuteBuy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000) // 100M available over the rent reserve

	var invoked []solana.Instruction
	f.ledger.SetInvokeHook(func(auth vault.Authority, ix solana.Instruction) error {
		require.Equal(t, f.vault, auth.Address())
		invoked = append(invoked, ix)
		return nil
	})

	// 25% of the 100M available.
	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 25_000_000, 1_000_000)
	require.NoError(t, err)

	require.Len(t, invoked, 1)
	require.Equal(t, config.PumpFunProgram, invoked[0].ProgramID())

	w := f.wallet(t)
	require.Equal(t, uint64(25_000_000), w.TotalVolume)
	require.Equal(t, uint64(1), w.TotalTrades)
	require.Equal(t, testStartTime, w.LastTrade)

	require.Equal(t, types.TradeExecutedEvent{
		Vault:        f.vault,
		Side:         types.TradeSideBuy,
		AmountIn:     25_000_000,
		MinAmountOut: 900_000, // 10% slippage off the expected 1M
		Timestamp:    testStartTime,
	}, f.sink.Events[len(f.sink.Events)-1])
}

func TestExecuteBuyOwnerMayTrade(t *testing.T) {
	f := newFixture(t)
	f.fund(110_000_000)

	err := f.ctrl.ExecuteBuy(context.Background(), f.owner, f.nonce, f.owner, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.NoError(t, err)
}

func TestExecuteBuyGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	stranger := solana.NewWallet().PublicKey()
	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, stranger, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrUnauthorizedOperator)

	// 25% of 100M available is the cap.
	err = f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 25_000_001, 100)
	require.ErrorIs(t, err, types.ErrTradeExceedsMax)

	err = f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrInvalidProgram)
}

func TestExecuteBuyWhilePaused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	require.NoError(t, f.ctrl.Pause(ctx, f.owner, f.nonce, f.owner))

	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrTradingPaused)

	require.NoError(t, f.ctrl.Resume(ctx, f.owner, f.nonce, f.owner))
	require.NoError(t, f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100))
}

func TestExecuteBuyRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	require.NoError(t, f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100))

	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrTradeTooSoon)

	f.ledger.Advance(59)
	err = f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrTradeTooSoon)

	f.ledger.Advance(1)
	require.NoError(t, f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100))
}

func TestExecuteBuyGuardFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, types.ErrInvalidProgram)

	w := f.wallet(t)
	require.Zero(t, w.TotalTrades)
	require.Zero(t, w.TotalVolume)
	require.Zero(t, w.LastTrade)
}

func TestExecuteBuyVenueFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	f.ledger.SetInvokeHook(func(auth vault.Authority, ix solana.Instruction) error {
		return ledger.ErrInsufficientLamports
	})

	err := f.ctrl.ExecuteBuy(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1_000, 100)
	require.ErrorIs(t, err, ledger.ErrInsufficientLamports)

	w := f.wallet(t)
	require.Zero(t, w.TotalTrades)
}

func TestExecuteSell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A sell needs no lamport balance checks at all.
	err := f.ctrl.ExecuteSell(ctx, f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 40_000, 2_000_000)
	require.NoError(t, err)

	w := f.wallet(t)
	// Sell volume accrues in expected lamport proceeds, not token units.
	require.Equal(t, uint64(2_000_000), w.TotalVolume)
	require.Equal(t, uint64(1), w.TotalTrades)

	require.Equal(t, types.TradeExecutedEvent{
		Vault:        f.vault,
		Side:         types.TradeSideSell,
		AmountIn:     40_000,
		MinAmountOut: 1_800_000,
		Timestamp:    testStartTime,
	}, f.sink.Events[len(f.sink.Events)-1])
}

func TestExecuteSellWrongProgram(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.ExecuteSell(context.Background(), f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 1, 1)
	require.ErrorIs(t, err, types.ErrInvalidProgram)
}

func TestExecuteSwapBuyDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(110_000_000)

	err := f.ctrl.ExecuteSwap(ctx, f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 25_000_001, 100, true)
	require.ErrorIs(t, err, types.ErrTradeExceedsMax)

	require.NoError(t, f.ctrl.ExecuteSwap(ctx, f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 25_000_000, 100, true))

	w := f.wallet(t)
	require.Equal(t, uint64(25_000_000), w.TotalVolume)
}

func TestExecuteSwapSellSkipsBalanceChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// No funding at all; a sell-direction swap is still allowed.

	err := f.ctrl.ExecuteSwap(ctx, f.owner, f.nonce, f.operator, config.PumpSwapProgram, tradeAccounts(), 1_000_000_000, 100, false)
	require.NoError(t, err)
}

func TestExecuteSwapWrongProgram(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.ExecuteSwap(context.Background(), f.owner, f.nonce, f.operator, config.PumpFunProgram, tradeAccounts(), 1, 1, false)
	require.ErrorIs(t, err, types.ErrInvalidProgram)
}

func TestClaimFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(20_000_000)

	require.NoError(t, f.ctrl.CreateToken(ctx, f.owner, f.nonce, f.owner, tradeAccounts(), "Tok", "TOK", "https://example.com/t.json"))

	// The venue credits the vault during the withdraw instruction.
	f.ledger.SetInvokeHook(func(auth vault.Authority, ix solana.Instruction) error {
		f.ledger.Credit(auth.Address(), 3_000_000)
		return nil
	})

	claimed, err := f.ctrl.ClaimFees(ctx, f.owner, f.nonce, f.operator, tradeAccounts())
	require.NoError(t, err)
	require.Equal(t, uint64(3_000_000), claimed)

	w := f.wallet(t)
	require.Equal(t, uint64(3_000_000), w.TotalFeesClaimed)

	require.Equal(t, types.FeesClaimedEvent{
		Vault:     f.vault,
		Amount:    3_000_000,
		Timestamp: testStartTime,
	}, f.sink.Events[len(f.sink.Events)-1])
}

func TestClaimFeesRequiresCreator(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.ClaimFees(context.Background(), f.owner, f.nonce, f.operator, tradeAccounts())
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestClaimFeesGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.CreateToken(ctx, f.owner, f.nonce, f.owner, tradeAccounts(), "Tok", "TOK", ""))

	stranger := solana.NewWallet().PublicKey()
	_, err := f.ctrl.ClaimFees(ctx, f.owner, f.nonce, stranger, tradeAccounts())
	require.ErrorIs(t, err, types.ErrUnauthorizedOperator)

	require.NoError(t, f.ctrl.Pause(ctx, f.owner, f.nonce, f.owner))
	_, err = f.ctrl.ClaimFees(ctx, f.owner, f.nonce, f.operator, tradeAccounts())
	require.ErrorIs(t, err, types.ErrTradingPaused)
}
