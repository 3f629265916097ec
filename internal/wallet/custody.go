package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/policy"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/utils"
	"github.com/solmm/mmw/internal/vault"
)

// Initialize creates a new wallet record for the owner+nonce pair. lockSeconds
// of zero means no lock. The operator may equal the owner.
func (c *Controller) Initialize(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	lockSeconds int64,
	strategy types.Strategy,
	cfg types.StrategyConfig,
	operator solana.PublicKey,
) (*types.Wallet, error) {
	if lockSeconds < config.MinLockSeconds || lockSeconds > config.MaxLockSeconds {
		return nil, types.ErrInvalidLockDuration
	}
	if operator.IsZero() {
		return nil, types.ErrInvalidOperator
	}
	if !strategy.Valid() {
		return nil, types.ErrInvalidStrategy
	}
	if err := policy.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	auth, err := vault.Derive(owner, nonce)
	if err != nil {
		return nil, err
	}

	now := c.ledger.Now()

	var lockUntil int64
	if lockSeconds > 0 {
		lockUntil, err = utils.CheckedAddInt64(now, lockSeconds)
		if err != nil {
			return nil, err
		}
	}

	w := &types.Wallet{
		Version:   config.ProgramVersion,
		Bump:      auth.Bump(),
		Owner:     owner,
		Operator:  operator,
		Nonce:     nonce,
		Strategy:  strategy,
		Config:    cfg,
		LockUntil: lockUntil,
		CreatedAt: now,
	}

	if err := c.store.Create(ctx, w); err != nil {
		return nil, err
	}

	c.emit(types.WalletInitializedEvent{
		Owner:     owner,
		Vault:     auth.Address(),
		Nonce:     nonce,
		LockUntil: lockUntil,
		Strategy:  strategy,
	})

	walletLogger.Info().
		Uint8("version", w.Version).
		Str("owner", owner.String()).
		Str("operator", operator.String()).
		Str("vault", auth.Address().String()).
		Uint64("nonce", nonce).
		Int64("lockUntil", lockUntil).
		Str("strategy", strategy.String()).
		Msg("Wallet initialized.")

	return w, nil
}

// Deposit moves lamports from the depositor into the vault. Anyone may
// deposit; only the owner can withdraw.
func (c *Controller) Deposit(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	depositor solana.PublicKey,
	amount uint64,
) error {
	if amount == 0 {
		return types.ErrZeroDeposit
	}

	_, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if err := c.ledger.TransferLamports(ctx, depositor, auth.Address(), amount); err != nil {
		return err
	}

	c.emit(types.DepositedEvent{
		Vault:     auth.Address(),
		Depositor: depositor,
		Amount:    amount,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("depositor", depositor.String()).
		Uint64("amount", amount).
		Msg("Deposited lamports into vault.")

	return nil
}

// Withdraw moves lamports from the vault back to the owner. The destination
// must be the owner address so a typo cannot send funds elsewhere, and the
// rent reserve always stays behind.
func (c *Controller) Withdraw(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	destination solana.PublicKey,
	amount uint64,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if policy.IsLocked(w, c.ledger.Now()) {
		return types.ErrWalletLocked
	}
	if destination != w.Owner {
		return types.ErrInvalidWithdrawDestination
	}

	balance, err := c.ledger.Lamports(ctx, auth.Address())
	if err != nil {
		return err
	}

	maxWithdraw := utils.SaturatingSub64(balance, config.MinRentReserve)
	if amount > maxWithdraw {
		return types.ErrBelowRentReserve
	}

	if err := c.ledger.WithdrawLamports(ctx, auth, destination, amount); err != nil {
		return err
	}

	c.emit(types.WithdrawnEvent{
		Vault:  auth.Address(),
		Owner:  w.Owner,
		Amount: amount,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("owner", w.Owner.String()).
		Uint64("amount", amount).
		Msg("Withdrawn lamports to owner.")

	return nil
}

// WithdrawTokens moves the vault's entire balance of the recorded token to the
// owner's token account. A zero balance is a no-op, not an error.
func (c *Controller) WithdrawTokens(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	tokenMint solana.PublicKey,
	vaultTokenAccount solana.PublicKey,
	ownerTokenAccount solana.PublicKey,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}

	if caller != w.Owner {
		return types.ErrUnauthorized
	}
	if policy.IsLocked(w, c.ledger.Now()) {
		return types.ErrWalletLocked
	}
	if tokenMint != w.TokenMint {
		return types.ErrTokenMintMismatch
	}

	amount, err := c.ledger.TokenBalance(ctx, vaultTokenAccount)
	if err != nil {
		return err
	}

	if amount == 0 {
		walletLogger.Info().
			Str("vault", auth.Address().String()).
			Msg("No tokens to withdraw.")
		return nil
	}

	if err := c.ledger.TransferTokens(ctx, auth, vaultTokenAccount, ownerTokenAccount, amount); err != nil {
		return err
	}

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Str("owner", w.Owner.String()).
		Uint64("amount", amount).
		Msg("Withdrawn tokens to owner.")

	return nil
}
