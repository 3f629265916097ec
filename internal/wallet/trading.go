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

// ExecuteBuy spends vault lamports on the bonding curve. expectedTokens comes
// from the caller's off-chain quote; the minimum acceptable output is derived
// from it here, using the wallet's own slippage setting, so a compromised
// operator cannot trade at an arbitrarily bad price.
func (c *Controller) ExecuteBuy(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	targetProgram solana.PublicKey,
	venueAccounts []*solana.AccountMeta,
	amountLamports uint64,
	expectedTokens uint64,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}
	now := c.ledger.Now()

	if !policy.IsAuthorized(w, caller) {
		return types.ErrUnauthorizedOperator
	}
	if w.Paused {
		return types.ErrTradingPaused
	}
	if !policy.CanTrade(w, now) {
		return types.ErrTradeTooSoon
	}

	balance, err := c.ledger.Lamports(ctx, auth.Address())
	if err != nil {
		return err
	}
	available := utils.SaturatingSub64(balance, config.MinRentReserve)

	maxTrade, err := policy.MaxTradeAmount(w, available)
	if err != nil {
		return err
	}
	if amountLamports > maxTrade {
		return types.ErrTradeExceedsMax
	}
	if amountLamports > available {
		return types.ErrInsufficientBalance
	}

	if targetProgram != config.PumpFunProgram {
		return types.ErrInvalidProgram
	}

	minTokensOut, err := policy.CalculateMinOutput(w, expectedTokens)
	if err != nil {
		return err
	}

	ix := venue.PumpFunBuy(venueAccounts, amountLamports, minTokensOut)
	if err := c.ledger.Invoke(ctx, auth, ix); err != nil {
		return err
	}

	w.TotalVolume = utils.SaturatingAdd64(w.TotalVolume, amountLamports)
	w.TotalTrades = utils.SaturatingAdd64(w.TotalTrades, 1)
	w.LastTrade = now

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	c.emit(types.TradeExecutedEvent{
		Vault:        auth.Address(),
		Side:         types.TradeSideBuy,
		AmountIn:     amountLamports,
		MinAmountOut: minTokensOut,
		Timestamp:    now,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Uint64("amountLamports", amountLamports).
		Uint64("minTokensOut", minTokensOut).
		Msg("Executed buy.")

	return nil
}

// ExecuteSell sells vault tokens on the bonding curve. Volume accrues in the
// expected lamport proceeds so buy and sell volumes stay in the same unit.
func (c *Controller) ExecuteSell(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	targetProgram solana.PublicKey,
	venueAccounts []*solana.AccountMeta,
	tokenAmount uint64,
	expectedSol uint64,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}
	now := c.ledger.Now()

	if !policy.IsAuthorized(w, caller) {
		return types.ErrUnauthorizedOperator
	}
	if w.Paused {
		return types.ErrTradingPaused
	}
	if !policy.CanTrade(w, now) {
		return types.ErrTradeTooSoon
	}

	if targetProgram != config.PumpFunProgram {
		return types.ErrInvalidProgram
	}

	minSolOut, err := policy.CalculateMinOutput(w, expectedSol)
	if err != nil {
		return err
	}

	ix := venue.PumpFunSell(venueAccounts, tokenAmount, minSolOut)
	if err := c.ledger.Invoke(ctx, auth, ix); err != nil {
		return err
	}

	w.TotalVolume = utils.SaturatingAdd64(w.TotalVolume, expectedSol)
	w.TotalTrades = utils.SaturatingAdd64(w.TotalTrades, 1)
	w.LastTrade = now

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	c.emit(types.TradeExecutedEvent{
		Vault:        auth.Address(),
		Side:         types.TradeSideSell,
		AmountIn:     tokenAmount,
		MinAmountOut: minSolOut,
		Timestamp:    now,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Uint64("tokenAmount", tokenAmount).
		Uint64("minSolOut", minSolOut).
		Msg("Executed sell.")

	return nil
}

// ExecuteSwap trades on the AMM venue after the token migrates off the
// bonding curve. Balance and size limits apply only to the buy direction;
// a sell is bounded by the token balance the venue itself enforces.
func (c *Controller) ExecuteSwap(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	targetProgram solana.PublicKey,
	venueAccounts []*solana.AccountMeta,
	amountIn uint64,
	expectedOut uint64,
	isBuy bool,
) error {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return err
	}
	now := c.ledger.Now()

	if !policy.IsAuthorized(w, caller) {
		return types.ErrUnauthorizedOperator
	}
	if w.Paused {
		return types.ErrTradingPaused
	}
	if !policy.CanTrade(w, now) {
		return types.ErrTradeTooSoon
	}

	if targetProgram != config.PumpSwapProgram {
		return types.ErrInvalidProgram
	}

	if isBuy {
		balance, err := c.ledger.Lamports(ctx, auth.Address())
		if err != nil {
			return err
		}
		available := utils.SaturatingSub64(balance, config.MinRentReserve)

		maxTrade, err := policy.MaxTradeAmount(w, available)
		if err != nil {
			return err
		}
		if amountIn > maxTrade {
			return types.ErrTradeExceedsMax
		}
		if amountIn > available {
			return types.ErrInsufficientBalance
		}
	}

	minAmountOut, err := policy.CalculateMinOutput(w, expectedOut)
	if err != nil {
		return err
	}

	var ix solana.Instruction
	if isBuy {
		ix = venue.PumpSwapBuy(venueAccounts, amountIn, minAmountOut)
	} else {
		ix = venue.PumpSwapSell(venueAccounts, amountIn, minAmountOut)
	}
	if err := c.ledger.Invoke(ctx, auth, ix); err != nil {
		return err
	}

	w.TotalVolume = utils.SaturatingAdd64(w.TotalVolume, amountIn)
	w.TotalTrades = utils.SaturatingAdd64(w.TotalTrades, 1)
	w.LastTrade = now

	if err := c.store.Save(ctx, w); err != nil {
		return err
	}

	side := types.TradeSideSell
	if isBuy {
		side = types.TradeSideBuy
	}
	c.emit(types.TradeExecutedEvent{
		Vault:        auth.Address(),
		Side:         side,
		AmountIn:     amountIn,
		MinAmountOut: minAmountOut,
		Timestamp:    now,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Uint64("amountIn", amountIn).
		Bool("isBuy", isBuy).
		Msg("Executed swap.")

	return nil
}

// ClaimFees pulls accrued creator fees from the bonding-curve venue into the
// vault. The amount claimed is whatever the vault balance grew by.
func (c *Controller) ClaimFees(
	ctx context.Context,
	owner solana.PublicKey,
	nonce uint64,
	caller solana.PublicKey,
	venueAccounts []*solana.AccountMeta,
) (uint64, error) {
	w, auth, err := c.load(ctx, owner, nonce)
	if err != nil {
		return 0, err
	}
	now := c.ledger.Now()

	if !policy.IsAuthorized(w, caller) {
		return 0, types.ErrUnauthorizedOperator
	}
	if w.Paused {
		return 0, types.ErrTradingPaused
	}
	if !w.IsCreator {
		return 0, types.ErrUnauthorized
	}

	balanceBefore, err := c.ledger.Lamports(ctx, auth.Address())
	if err != nil {
		return 0, err
	}

	ix := venue.PumpFunWithdraw(venueAccounts)
	if err := c.ledger.Invoke(ctx, auth, ix); err != nil {
		return 0, err
	}

	balanceAfter, err := c.ledger.Lamports(ctx, auth.Address())
	if err != nil {
		return 0, err
	}
	feesClaimed := utils.SaturatingSub64(balanceAfter, balanceBefore)

	w.TotalFeesClaimed = utils.SaturatingAdd64(w.TotalFeesClaimed, feesClaimed)

	if err := c.store.Save(ctx, w); err != nil {
		return 0, err
	}

	c.emit(types.FeesClaimedEvent{
		Vault:     auth.Address(),
		Amount:    feesClaimed,
		Timestamp: now,
	})

	walletLogger.Info().
		Str("vault", auth.Address().String()).
		Uint64("feesClaimed", feesClaimed).
		Msg("Claimed creator fees.")

	return feesClaimed, nil
}
