package wallet

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/types"
)

func TestInitializeRecordFields(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t)

	require.Equal(t, config.ProgramVersion, w.Version)
	require.Equal(t, f.owner, w.Owner)
	require.Equal(t, f.operator, w.Operator)
	require.True(t, w.TokenMint.IsZero())
	require.Equal(t, uint64(1), w.Nonce)
	require.Equal(t, types.StrategyVolumeBot, w.Strategy)
	require.Zero(t, w.LockUntil)
	require.False(t, w.Paused)
	require.False(t, w.IsCreator)
	require.Zero(t, w.TotalVolume)
	require.Zero(t, w.TotalTrades)
	require.Zero(t, w.LastTrade)
	require.Equal(t, testStartTime, w.CreatedAt)
}

func TestInitializeWithLock(t *testing.T) {
	f := newFixture(t)

	w, err := f.ctrl.Initialize(context.Background(), f.owner, 2, 3600, types.StrategyVolumeBot, defaultStrategyConfig(), f.operator)
	require.NoError(t, err)
	require.Equal(t, testStartTime+3600, w.LockUntil)
}

func TestInitializeDuplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Initialize(context.Background(), f.owner, f.nonce, 0, types.StrategyVolumeBot, defaultStrategyConfig(), f.operator)
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)
}

func TestInitializeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.Initialize(ctx, f.owner, 2, -1, types.StrategyVolumeBot, defaultStrategyConfig(), f.operator)
	require.ErrorIs(t, err, types.ErrInvalidLockDuration)

	_, err = f.ctrl.Initialize(ctx, f.owner, 2, config.MaxLockSeconds+1, types.StrategyVolumeBot, defaultStrategyConfig(), f.operator)
	require.ErrorIs(t, err, types.ErrInvalidLockDuration)

	_, err = f.ctrl.Initialize(ctx, f.owner, 2, 0, types.StrategyVolumeBot, defaultStrategyConfig(), solana.PublicKey{})
	require.ErrorIs(t, err, types.ErrInvalidOperator)

	_, err = f.ctrl.Initialize(ctx, f.owner, 2, 0, types.Strategy(6), defaultStrategyConfig(), f.operator)
	require.ErrorIs(t, err, types.ErrInvalidStrategy)

	bad := defaultStrategyConfig()
	bad.TradeSizePct = 0
	_, err = f.ctrl.Initialize(ctx, f.owner, 2, 0, types.StrategyVolumeBot, bad, f.operator)
	require.ErrorIs(t, err, types.ErrInvalidTradeSize)
}

func TestInitializeOperatorMayEqualOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Initialize(context.Background(), f.owner, 2, 0, types.StrategyVolumeBot, defaultStrategyConfig(), f.owner)
	require.NoError(t, err)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	depositor := solana.NewWallet().PublicKey()
	f.ledger.Credit(depositor, 50_000_000)

	require.NoError(t, f.ctrl.Deposit(ctx, f.owner, f.nonce, depositor, 30_000_000))

	balance, err := f.ledger.Lamports(ctx, f.vault)
	require.NoError(t, err)
	require.Equal(t, uint64(30_000_000), balance)

	require.Equal(t, types.DepositedEvent{
		Vault:     f.vault,
		Depositor: depositor,
		Amount:    30_000_000,
	}, f.sink.Events[len(f.sink.Events)-1])
}

func TestDepositZeroAmount(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.Deposit(context.Background(), f.owner, f.nonce, solana.NewWallet().PublicKey(), 0)
	require.ErrorIs(t, err, types.ErrZeroDeposit)
}

func TestDepositAnyoneCanFund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stranger := solana.NewWallet().PublicKey()
	f.ledger.Credit(stranger, 1_000)

	require.NoError(t, f.ctrl.Deposit(ctx, f.owner, f.nonce, stranger, 1_000))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(100_000_000)

	require.NoError(t, f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, f.owner, 40_000_000))

	balance, err := f.ledger.Lamports(ctx, f.vault)
	require.NoError(t, err)
	require.Equal(t, uint64(60_000_000), balance)

	ownerBalance, err := f.ledger.Lamports(ctx, f.owner)
	require.NoError(t, err)
	require.Equal(t, uint64(40_000_000), ownerBalance)
}

func TestWithdrawGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(100_000_000)

	stranger := solana.NewWallet().PublicKey()

	err := f.ctrl.Withdraw(ctx, f.owner, f.nonce, stranger, f.owner, 1)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// The operator has trade rights, not custody rights.
	err = f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.operator, f.owner, 1)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, stranger, 1)
	require.ErrorIs(t, err, types.ErrInvalidWithdrawDestination)
}

func TestWithdrawKeepsRentReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(100_000_000)

	available := uint64(100_000_000) - config.MinRentReserve

	err := f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, f.owner, available+1)
	require.ErrorIs(t, err, types.ErrBelowRentReserve)

	require.NoError(t, f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, f.owner, available))

	balance, err := f.ledger.Lamports(ctx, f.vault)
	require.NoError(t, err)
	require.Equal(t, config.MinRentReserve, balance)
}

func TestWithdrawWhileLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(100_000_000)

	require.NoError(t, f.ctrl.ExtendLock(ctx, f.owner, f.nonce, f.owner, 3600))

	err := f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, f.owner, 1)
	require.ErrorIs(t, err, types.ErrWalletLocked)

	// Lock expiry is inclusive of its boundary.
	f.ledger.Advance(3600)
	require.NoError(t, f.ctrl.Withdraw(ctx, f.owner, f.nonce, f.owner, f.owner, 1))
}

func TestWithdrawTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	require.NoError(t, f.ctrl.SetTokenMint(ctx, f.owner, f.nonce, f.owner, mint))

	vaultTokenAccount := solana.NewWallet().PublicKey()
	ownerTokenAccount := solana.NewWallet().PublicKey()
	f.ledger.CreditTokens(vaultTokenAccount, 5_000)

	require.NoError(t, f.ctrl.WithdrawTokens(ctx, f.owner, f.nonce, f.owner, mint, vaultTokenAccount, ownerTokenAccount))

	got, err := f.ledger.TokenBalance(ctx, ownerTokenAccount)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000), got)

	remaining, err := f.ledger.TokenBalance(ctx, vaultTokenAccount)
	require.NoError(t, err)
	require.Zero(t, remaining)
}

func TestWithdrawTokensMintMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	require.NoError(t, f.ctrl.SetTokenMint(ctx, f.owner, f.nonce, f.owner, mint))

	other := solana.NewWallet().PublicKey()
	err := f.ctrl.WithdrawTokens(ctx, f.owner, f.nonce, f.owner, other, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, types.ErrTokenMintMismatch)
}

func TestWithdrawTokensZeroBalanceIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	require.NoError(t, f.ctrl.SetTokenMint(ctx, f.owner, f.nonce, f.owner, mint))

	err := f.ctrl.WithdrawTokens(ctx, f.owner, f.nonce, f.owner, mint, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
}
