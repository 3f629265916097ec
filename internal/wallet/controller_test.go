package wallet

import (
	"context"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/events"
	"github.com/solmm/mmw/internal/ledger"
	"github.com/solmm/mmw/internal/state"
	"github.com/solmm/mmw/internal/types"
)

func TestMain(m *testing.M) {
	os.Setenv("NODE_RPC", "http://localhost:8899")
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const testStartTime int64 = 1_700_000_000

// fixture wires a controller over the in-memory store and ledger with one
// initialized wallet.
type fixture struct {
	ctrl     *Controller
	store    *state.MemoryStore
	ledger   *ledger.MemoryLedger
	sink     *events.CaptureSink
	owner    solana.PublicKey
	operator solana.PublicKey
	nonce    uint64
	vault    solana.PublicKey
}

func defaultStrategyConfig() types.StrategyConfig {
	return types.StrategyConfig{
		TradeSizePct: 25,
		MinDelaySecs: 60,
		MaxDelaySecs: 300,
		SlippageBps:  1000,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := state.NewMemoryStore()
	ldg := ledger.NewMemoryLedger()
	ldg.SetNow(testStartTime)
	sink := &events.CaptureSink{}

	ctrl, err := NewController(store, ldg, sink)
	require.NoError(t, err)

	f := &fixture{
		ctrl:     ctrl,
		store:    store,
		ledger:   ldg,
		sink:     sink,
		owner:    solana.NewWallet().PublicKey(),
		operator: solana.NewWallet().PublicKey(),
		nonce:    1,
	}

	w, err := ctrl.Initialize(context.Background(), f.owner, f.nonce, 0, types.StrategyVolumeBot, defaultStrategyConfig(), f.operator)
	require.NoError(t, err)

	f.vault, err = ctrl.VaultAddress(w)
	require.NoError(t, err)

	return f
}

// fund puts lamports in the vault directly, bypassing the deposit path.
func (f *fixture) fund(amount uint64) {
	f.ledger.Credit(f.vault, amount)
}

func (f *fixture) wallet(t *testing.T) *types.Wallet {
	t.Helper()
	w, err := f.ctrl.Get(context.Background(), f.owner, f.nonce)
	require.NoError(t, err)
	return w
}

func TestNewControllerValidation(t *testing.T) {
	store := state.NewMemoryStore()
	ldg := ledger.NewMemoryLedger()

	_, err := NewController(nil, ldg, nil)
	require.ErrorIs(t, err, ErrInvalidStore)

	_, err = NewController(store, nil, nil)
	require.ErrorIs(t, err, ErrInvalidLedger)

	ctrl, err := NewController(store, ldg, nil)
	require.NoError(t, err)
	require.NotNil(t, ctrl)
}

func TestGetUnknownWallet(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Get(context.Background(), f.owner, 999)
	require.ErrorIs(t, err, state.ErrWalletNotFound)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Initialize(context.Background(), f.owner, 2, 0, types.StrategySpreadMM, defaultStrategyConfig(), f.operator)
	require.NoError(t, err)

	wallets, err := f.ctrl.List(context.Background())
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	require.Equal(t, uint64(2), wallets[0].Nonce)
	require.Equal(t, uint64(1), wallets[1].Nonce)
}
