/*

This file contains the fixed-layout binary codec for the wallet record.

The layout is versioned and forward-padded: a record tag, the fields in a fixed
order with little-endian integers, a 3-byte pad closing the config block at 48
bytes, and a 64-byte reserved tail so fields can be added without reallocating
stored records.

*/

package types

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// walletRecordTag identifies a serialized wallet record ("mmwallt2").
var walletRecordTag = [8]byte{0x6d, 0x6d, 0x77, 0x61, 0x6c, 0x6c, 0x74, 0x32}

// configBlockSize is the serialized StrategyConfig including padding.
const configBlockSize = 1 + // trade_size_pct
	2 + // min_delay_secs
	2 + // max_delay_secs
	2 + // slippage_bps
	2 + 2 + 2 + // param1..3
	32 + // reserved parameter space
	3 // pad to 48

// RecordSize is the exact byte size of a serialized wallet record.
const RecordSize = 8 + // record tag
	1 + // version
	1 + // bump
	32 + // owner
	32 + // operator
	32 + // token_mint
	8 + // nonce
	1 + // strategy
	configBlockSize + // config (48)
	8 + // lock_until
	1 + // paused
	1 + // is_creator
	8 + // total_volume
	8 + // total_trades
	8 + // total_fees_claimed
	8 + // last_trade
	8 + // created_at
	64 // reserved

var (
	ErrRecordSize = errors.New("wallet record has wrong size")
	ErrRecordTag  = errors.New("wallet record tag mismatch")
)

// MarshalRecord serializes the wallet into its fixed-size record form.
func (w *Wallet) MarshalRecord() []byte {
	buf := make([]byte, RecordSize)
	pos := 0

	copy(buf[pos:], walletRecordTag[:])
	pos += 8

	buf[pos] = w.Version
	pos++
	buf[pos] = w.Bump
	pos++

	copy(buf[pos:], w.Owner[:])
	pos += 32
	copy(buf[pos:], w.Operator[:])
	pos += 32
	copy(buf[pos:], w.TokenMint[:])
	pos += 32

	binary.LittleEndian.PutUint64(buf[pos:], w.Nonce)
	pos += 8

	buf[pos] = uint8(w.Strategy)
	pos++

	buf[pos] = w.Config.TradeSizePct
	pos++
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.MinDelaySecs)
	pos += 2
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.MaxDelaySecs)
	pos += 2
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.SlippageBps)
	pos += 2
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.Param1)
	pos += 2
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.Param2)
	pos += 2
	binary.LittleEndian.PutUint16(buf[pos:], w.Config.Param3)
	pos += 2
	pos += 32 + 3 // reserved parameter space + pad

	binary.LittleEndian.PutUint64(buf[pos:], uint64(w.LockUntil))
	pos += 8

	buf[pos] = boolByte(w.Paused)
	pos++
	buf[pos] = boolByte(w.IsCreator)
	pos++

	binary.LittleEndian.PutUint64(buf[pos:], w.TotalVolume)
	pos += 8
	binary.LittleEndian.PutUint64(buf[pos:], w.TotalTrades)
	pos += 8
	binary.LittleEndian.PutUint64(buf[pos:], w.TotalFeesClaimed)
	pos += 8
	binary.LittleEndian.PutUint64(buf[pos:], uint64(w.LastTrade))
	pos += 8
	binary.LittleEndian.PutUint64(buf[pos:], uint64(w.CreatedAt))
	pos += 8

	// remaining 64 bytes stay zero (reserved)
	return buf
}

// UnmarshalRecord parses a fixed-size record produced by MarshalRecord.
func UnmarshalRecord(data []byte) (*Wallet, error) {
	if len(data) != RecordSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRecordSize, len(data), RecordSize)
	}
	pos := 0

	var tag [8]byte
	copy(tag[:], data[pos:pos+8])
	if tag != walletRecordTag {
		return nil, ErrRecordTag
	}
	pos += 8

	w := &Wallet{}
	w.Version = data[pos]
	pos++
	w.Bump = data[pos]
	pos++

	w.Owner = solana.PublicKeyFromBytes(data[pos : pos+32])
	pos += 32
	w.Operator = solana.PublicKeyFromBytes(data[pos : pos+32])
	pos += 32
	w.TokenMint = solana.PublicKeyFromBytes(data[pos : pos+32])
	pos += 32

	w.Nonce = binary.LittleEndian.Uint64(data[pos:])
	pos += 8

	w.Strategy = Strategy(data[pos])
	pos++

	w.Config.TradeSizePct = data[pos]
	pos++
	w.Config.MinDelaySecs = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	w.Config.MaxDelaySecs = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	w.Config.SlippageBps = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	w.Config.Param1 = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	w.Config.Param2 = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	w.Config.Param3 = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos += 32 + 3

	w.LockUntil = int64(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8

	w.Paused = data[pos] != 0
	pos++
	w.IsCreator = data[pos] != 0
	pos++

	w.TotalVolume = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	w.TotalTrades = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	w.TotalFeesClaimed = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	w.LastTrade = int64(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8
	w.CreatedAt = int64(binary.LittleEndian.Uint64(data[pos:]))

	return w, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
