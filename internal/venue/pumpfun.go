// Package venue builds the raw instructions this controller issues against the
// external trading programs. The account lists come in from the caller and are
// forwarded untouched; only the instruction data is assembled here.
package venue

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
)

// PumpFunBuy encodes a bonding-curve buy: spend amountLamports, receive at
// least minTokensOut tokens.
func PumpFunBuy(accounts []*solana.AccountMeta, amountLamports, minTokensOut uint64) solana.Instruction {
	data := make([]byte, 24)
	copy(data, config.PumpBuyDiscriminator[:])
	binary.LittleEndian.PutUint64(data[8:], minTokensOut)
	binary.LittleEndian.PutUint64(data[16:], amountLamports)
	return solana.NewInstruction(config.PumpFunProgram, accounts, data)
}

// PumpFunSell encodes a bonding-curve sell: sell tokenAmount tokens, receive
// at least minSolOut lamports.
func PumpFunSell(accounts []*solana.AccountMeta, tokenAmount, minSolOut uint64) solana.Instruction {
	data := make([]byte, 24)
	copy(data, config.PumpSellDiscriminator[:])
	binary.LittleEndian.PutUint64(data[8:], tokenAmount)
	binary.LittleEndian.PutUint64(data[16:], minSolOut)
	return solana.NewInstruction(config.PumpFunProgram, accounts, data)
}

// PumpFunCreate encodes a token launch on the bonding curve. The three strings
// are length-prefixed with a little-endian uint32, Borsh style.
func PumpFunCreate(accounts []*solana.AccountMeta, name, symbol, uri string) solana.Instruction {
	data := make([]byte, 0, 8+4+len(name)+4+len(symbol)+4+len(uri))
	data = append(data, config.PumpCreateDiscriminator[:]...)
	data = appendString(data, name)
	data = appendString(data, symbol)
	data = appendString(data, uri)
	return solana.NewInstruction(config.PumpFunProgram, accounts, data)
}

// PumpFunWithdraw encodes the creator fee withdrawal. No arguments beyond the
// discriminator; the venue resolves everything from the accounts.
func PumpFunWithdraw(accounts []*solana.AccountMeta) solana.Instruction {
	data := make([]byte, 8)
	copy(data, config.PumpWithdrawDiscriminator[:])
	return solana.NewInstruction(config.PumpFunProgram, accounts, data)
}

func appendString(data []byte, s string) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	data = append(data, n[:]...)
	return append(data, s...)
}
