package state

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/types"
)

func storeWallet(owner solana.PublicKey, nonce uint64) *types.Wallet {
	return &types.Wallet{
		Version:  2,
		Owner:    owner,
		Operator: solana.NewWallet().PublicKey(),
		Nonce:    nonce,
		Strategy: types.StrategyVolumeBot,
		Config: types.StrategyConfig{
			TradeSizePct: 25,
			MinDelaySecs: 60,
			MaxDelaySecs: 300,
			SlippageBps:  1000,
		},
		CreatedAt: 1_700_000_000,
	}
}

func TestMemoryStoreCreateAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	w := storeWallet(owner, 1)
	require.NoError(t, s.Create(ctx, w))

	loaded, err := s.Load(ctx, owner, 1)
	require.NoError(t, err)
	require.Equal(t, w, loaded)

	require.ErrorIs(t, s.Create(ctx, storeWallet(owner, 1)), types.ErrAlreadyInitialized)

	// Same owner, different nonce is a different wallet.
	require.NoError(t, s.Create(ctx, storeWallet(owner, 2)))
}

func TestMemoryStoreLoadUnknown(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load(context.Background(), solana.NewWallet().PublicKey(), 1)
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestMemoryStoreSave(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	w := storeWallet(owner, 1)
	require.NoError(t, s.Create(ctx, w))

	w.TotalTrades = 7
	w.Paused = true
	require.NoError(t, s.Save(ctx, w))

	loaded, err := s.Load(ctx, owner, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(7), loaded.TotalTrades)
	require.True(t, loaded.Paused)

	require.ErrorIs(t, s.Save(ctx, storeWallet(owner, 99)), ErrWalletNotFound)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	for nonce := uint64(1); nonce <= 3; nonce++ {
		require.NoError(t, s.Create(ctx, storeWallet(owner, nonce)))
	}

	wallets, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	require.Equal(t, uint64(3), wallets[0].Nonce)
	require.Equal(t, uint64(1), wallets[2].Nonce)
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	require.NoError(t, s.Create(ctx, storeWallet(owner, 1)))

	first, err := s.Load(ctx, owner, 1)
	require.NoError(t, err)
	first.TotalVolume = 123

	second, err := s.Load(ctx, owner, 1)
	require.NoError(t, err)
	require.Zero(t, second.TotalVolume, "mutating a loaded wallet must not leak into the store")
}
