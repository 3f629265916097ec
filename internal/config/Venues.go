package config

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
)

// Venue identities loaded once at startup. Defaults are the mainnet deployments;
// env overrides exist for devnet and local validators. After LoadConfig returns
// these are never written again.
var (
	// ProgramID is this controller's own program identity, the derivation root
	// for every vault address.
	ProgramID solana.PublicKey

	// PumpFunProgram is the bonding-curve venue (Pump.fun mainnet).
	PumpFunProgram solana.PublicKey

	// PumpSwapProgram is the AMM-swap venue (PumpSwap mainnet).
	PumpSwapProgram solana.PublicKey
)

// Anchor instruction discriminators for the venue programs (documented).
var (
	PumpBuyDiscriminator      = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	PumpSellDiscriminator     = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
	PumpCreateDiscriminator   = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}
	PumpWithdrawDiscriminator = [8]byte{183, 18, 70, 156, 148, 109, 161, 34}

	PumpSwapBuyDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}
	// PumpSwap reuses Pump.fun's sell discriminator. This is protocol
	// compatibility on the venue side, not a copy-paste mistake.
	PumpSwapSellDiscriminator = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

const (
	defaultProgramID       = "8M6v875sN8xt5EZcwKGS5nd7pcFtMnQPhRvPyssTYzEu"
	defaultPumpFunProgram  = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	defaultPumpSwapProgram = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
)

// loadVenueConfig resolves the venue program identities from the environment.
// This function is called by LoadConfig() in General.go.
func loadVenueConfig() error {
	var err error

	ProgramID, err = solana.PublicKeyFromBase58(getEnvOrDefault("MMW_PROGRAM_ID", defaultProgramID))
	if err != nil {
		return err
	}

	PumpFunProgram, err = solana.PublicKeyFromBase58(getEnvOrDefault("PUMP_FUN_PROGRAM", defaultPumpFunProgram))
	if err != nil {
		return err
	}

	PumpSwapProgram, err = solana.PublicKeyFromBase58(getEnvOrDefault("PUMPSWAP_PROGRAM", defaultPumpSwapProgram))
	if err != nil {
		return err
	}

	log.Debug().
		Str("ProgramID", ProgramID.String()).
		Str("PumpFunProgram", PumpFunProgram.String()).
		Str("PumpSwapProgram", PumpSwapProgram.String()).
		Msg("Venue configuration loaded successfully.")

	return nil
}
