package wallet

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/events"
	"github.com/solmm/mmw/internal/ledger"
	"github.com/solmm/mmw/internal/logger"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/vault"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidStore  = errors.New("wallet store is invalid")
	ErrInvalidLedger = errors.New("ledger client is invalid")
	ErrInvalidMint   = errors.New("mint address is not a valid mint account")
	ErrWalletLookup  = errors.New("wallet lookup failed")
	ErrVaultDerive   = errors.New("vault derivation failed")
)

var walletLogger = logger.GetForComponent("wallet_controller")

// Store is the persistence surface the controller needs. Implemented by
// state.WalletStore.
type Store interface {
	// Create persists a new wallet record. Returns types.ErrAlreadyInitialized
	// when a record for the same owner+nonce already exists.
	Create(ctx context.Context, w *types.Wallet) error

	// Load fetches the record for one owner+nonce pair.
	Load(ctx context.Context, owner solana.PublicKey, nonce uint64) (*types.Wallet, error)

	// Save persists the mutated record.
	Save(ctx context.Context, w *types.Wallet) error

	// List returns every wallet record.
	List(ctx context.Context) ([]*types.Wallet, error)
}

// Controller executes the wallet operations: each handler runs its guards
// first, then any value movement, then mutates and persists the record. A
// guard failure leaves both the record and the vault untouched.
//
// The controller assumes the host serializes operations per wallet; it holds
// no locks of its own.
type Controller struct {
	store  Store
	ledger ledger.Ledger
	sink   events.Sink
}

// NewController validates its collaborators and builds a controller. The sink
// may be nil, in which case events are dropped.
func NewController(store Store, ldg ledger.Ledger, sink events.Sink) (*Controller, error) {
	if store == nil {
		return nil, ErrInvalidStore
	}
	if ldg == nil {
		return nil, ErrInvalidLedger
	}

	walletLogger.Info().Msg("Wallet controller initialized successfully.")

	return &Controller{
		store:  store,
		ledger: ldg,
		sink:   sink,
	}, nil
}

// Get returns the record for one owner+nonce pair. Read-only surface for the
// web API.
func (c *Controller) Get(ctx context.Context, owner solana.PublicKey, nonce uint64) (*types.Wallet, error) {
	return c.store.Load(ctx, owner, nonce)
}

// List returns every wallet record. Read-only surface for the web API.
func (c *Controller) List(ctx context.Context) ([]*types.Wallet, error) {
	return c.store.List(ctx)
}

// VaultAddress returns the vault address for a wallet record.
func (c *Controller) VaultAddress(w *types.Wallet) (solana.PublicKey, error) {
	auth, err := vault.AuthorityAt(w.Owner, w.Nonce, w.Bump)
	if err != nil {
		return solana.PublicKey{}, errors.Join(ErrVaultDerive, err)
	}
	return auth.Address(), nil
}

// load fetches a wallet record and rebuilds its vault authority.
func (c *Controller) load(ctx context.Context, owner solana.PublicKey, nonce uint64) (*types.Wallet, vault.Authority, error) {
	w, err := c.store.Load(ctx, owner, nonce)
	if err != nil {
		return nil, vault.Authority{}, errors.Join(ErrWalletLookup, err)
	}

	auth, err := vault.AuthorityAt(w.Owner, w.Nonce, w.Bump)
	if err != nil {
		return nil, vault.Authority{}, errors.Join(ErrVaultDerive, err)
	}

	return w, auth, nil
}

func (c *Controller) emit(event any) {
	if c.sink != nil {
		c.sink.Emit(event)
	}
}
