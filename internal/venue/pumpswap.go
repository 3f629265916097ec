package venue

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
)

// PumpSwapBuy encodes an AMM buy: spend amountIn lamports for at least minOut
// tokens.
func PumpSwapBuy(accounts []*solana.AccountMeta, amountIn, minOut uint64) solana.Instruction {
	data := make([]byte, 24)
	copy(data, config.PumpSwapBuyDiscriminator[:])
	binary.LittleEndian.PutUint64(data[8:], amountIn)
	binary.LittleEndian.PutUint64(data[16:], minOut)
	return solana.NewInstruction(config.PumpSwapProgram, accounts, data)
}

// PumpSwapSell encodes an AMM sell: spend amountIn tokens for at least minOut
// lamports. The discriminator matches the bonding-curve sell on purpose, see
// config.PumpSwapSellDiscriminator.
func PumpSwapSell(accounts []*solana.AccountMeta, amountIn, minOut uint64) solana.Instruction {
	data := make([]byte, 24)
	copy(data, config.PumpSwapSellDiscriminator[:])
	binary.LittleEndian.PutUint64(data[8:], amountIn)
	binary.LittleEndian.PutUint64(data[16:], minOut)
	return solana.NewInstruction(config.PumpSwapProgram, accounts, data)
}
