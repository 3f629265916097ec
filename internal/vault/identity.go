/*

This file contains the custodial vault identity: a deterministic address
derived from (owner, nonce) under the controller's program id, with no private
key anywhere. Authority over the vault is the ability to reproduce the seed
tuple, which only this package can mint as an Authority value.

*/

package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/config"
)

// seedTag is the derivation namespace shared by every vault address.
const seedTag = "mm_wallet"

// Authority is the capability to act as one vault. The fields are unexported
// on purpose: the only way to obtain a valid Authority is through Derive or
// AuthorityAt, so holding one proves the seed tuple was reproduced by this
// program. The host ledger accepts the seed tuple in place of a signature.
type Authority struct {
	address solana.PublicKey
	owner   solana.PublicKey
	nonce   uint64
	bump    uint8
}

// Derive finds the canonical vault address for (owner, nonce) and returns the
// authority over it. Used at initialization, where the bump is not yet known.
func Derive(owner solana.PublicKey, nonce uint64) (Authority, error) {
	address, bump, err := solana.FindProgramAddress(seeds(owner, nonce), config.ProgramID)
	if err != nil {
		return Authority{}, fmt.Errorf("vault derivation failed for owner %s nonce %d: %w", owner, nonce, err)
	}
	return Authority{address: address, owner: owner, nonce: nonce, bump: bump}, nil
}

// AuthorityAt reconstructs the authority from a stored record's derivation
// inputs. It fails if the bump does not reproduce a valid off-curve address,
// so a tampered record cannot yield a usable authority.
func AuthorityAt(owner solana.PublicKey, nonce uint64, bump uint8) (Authority, error) {
	address, err := solana.CreateProgramAddress(append(seeds(owner, nonce), []byte{bump}), config.ProgramID)
	if err != nil {
		return Authority{}, fmt.Errorf("vault reconstruction failed for owner %s nonce %d bump %d: %w", owner, nonce, bump, err)
	}
	return Authority{address: address, owner: owner, nonce: nonce, bump: bump}, nil
}

// Address returns the derived custodial address.
func (a Authority) Address() solana.PublicKey {
	return a.address
}

// Bump returns the disambiguation byte chosen at derivation time.
func (a Authority) Bump() uint8 {
	return a.bump
}

// SignerSeeds returns the full seed tuple including the bump, presented to the
// host ledger as proof-of-authority in place of a signature.
func (a Authority) SignerSeeds() [][]byte {
	return append(seeds(a.owner, a.nonce), []byte{a.bump})
}

func seeds(owner solana.PublicKey, nonce uint64) [][]byte {
	nonceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonceBytes, nonce)
	return [][]byte{[]byte(seedTag), owner.Bytes(), nonceBytes}
}
