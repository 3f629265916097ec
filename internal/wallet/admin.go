package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/policy"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/utils"
	"github.com/solmm/mmw/internal/venue"
)

// CreateToken launches a new token on the bonding curve with the vault as
// creator. Marks the wallet as creator; the mint itself is recorded later via
// SetTokenMint once the launch confirms.
func (c *Controller) CreateToken(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	venueAccounts []*solana.AccountMeta,
	name string,
	symbol string,
	uri string,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if w.MintSet() {
		return types.ErrAlreadyInitialized
	}

	ix := venue.PumpFunCreate(venueAccounts, name, symbol, uri)
	if err := c.ledger.Invoke(ctx, auth, ix); err != nil {
		return err
	}

	w.IsCreator = true

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("name", name).
		Str("symbol", symbol).
		Msg("Token created with vault as creator.")

	return nil
}

// SetTokenMint records the traded token's mint on the wallet. One-time: the
// mint can never be changed afterwards.
func (c *Controller) SetTokenMint(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	mint solana.PublicKey,
) error {
	w, _, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if w.MintSet() {
		return types.ErrTokenMintAlreadySet
	}
	if mint.IsZero() {
		return ErrInvalidMint
	}

	w.TokenMint = mint

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	walletLogger.Info().
		Str("owner", w.Owner.String()).
		Uint64("nonce", w.Nonce).
		Str("tokenMint", mint.String()).
		Msg("Token mint set.")

	return nil
}

// UpdateStrategy replaces the strategy tag and configuration together.
func (c *Controller) UpdateStrategy(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	strategy types.Strategy,
	cfg types.StrategyConfig,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if !strategy.Valid() {
		return types.ErrInvalidStrategy
	}
	if err := policy.ValidateConfig(cfg); err != nil {
		return err
	}

	oldStrategy := w.Strategy
	w.Strategy = strategy
	w.Config = cfg

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	c.emit(types.StrategyUpdatedEvent{
		Vault:       auth.Address(),
		OldStrategy: oldStrategy,
		NewStrategy: strategy,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("oldStrategy", oldStrategy.String()).
		Str("newStrategy", strategy.String()).
		Msg("Strategy updated.")

	return nil
}

// SetOperator replaces the authorized operator.
func (c *Controller) SetOperator(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	newOperator solana.PublicKey,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if newOperator.IsZero() {
		return types.ErrInvalidOperator
	}

	oldOperator := w.Operator
	w.Operator = newOperator

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	c.emit(types.OperatorChangedEvent{
		Vault:       auth.Address(),
		OldOperator: oldOperator,
		NewOperator: newOperator,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("oldOperator", oldOperator.String()).
		Str("newOperator", newOperator.String()).
		Msg("Operator changed.")

	return nil
}

// Pause stops trade and fee operations. Custody operations are unaffected.
func (c *Controller) Pause(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
) error {
	return c.setPaused(ctx, owner, nonce, caller, true)
}

// Resume re-enables trade and fee operations.
func (c *Controller) Resume(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
) error {
	return c.setPaused(ctx, owner, nonce, caller, false)
}

func (c *Controller) setPaused(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	paused bool,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}

	w.Paused = paused

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Bool("paused", paused).
		Msg("Trading pause state changed.")

	return nil
}

// ExtendLock pushes the unlock time further out. The lock can never shrink,
// and can never end up more than five years past the current time.
func (c *Controller) ExtendLock(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	additionalSeconds int64,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}
	now := c.ledger.Now()

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if additionalSeconds <= 0 || additionalSeconds > config.MaxLockSeconds {
		return types.ErrInvalidLockDuration
	}

	// Extend from the current lock if still active, otherwise from now.
	base := now
	if w.LockUntil > now {
		base = w.LockUntil
	}
	newLock, err := utils.CheckedAddInt64(base, additionalSeconds)
	if err != nil {
		return err
	}

	maxAllowed, err := utils.CheckedAddInt64(now, config.MaxTotalLockSeconds)
	if err != nil {
		return err
	}
	if newLock > maxAllowed {
		return types.ErrLockTooLong
	}

	w.LockUntil = newLock

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Int64("lockUntil", newLock).
		Msg("Lock extended.")

	return nil
}
