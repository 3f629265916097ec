package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/vault"
)

// Ledger defines the interface the operation handlers need from the host
// execution environment. The host guarantees atomic, serialized execution of
// each operation and has already verified the caller's signature before an
// operation reaches the controller; this interface only moves value and
// issues venue calls.
//
// Methods taking a vault.Authority act as the vault: the implementation
// presents the authority's seed tuple in place of a signature.
type Ledger interface {
	// Now returns the current ledger time as a unix timestamp.
	Now() int64

	// Lamports returns the native-currency balance of an address.
	Lamports(ctx context.Context, addr solana.PublicKey) (uint64, error)

	// TransferLamports moves native currency between two caller-controlled
	// addresses. The host has verified the sender's signature.
	TransferLamports(ctx context.Context, from, to solana.PublicKey, amount uint64) error

	// WithdrawLamports moves native currency out of a vault, signed by the
	// vault authority.
	WithdrawLamports(ctx context.Context, auth vault.Authority, to solana.PublicKey, amount uint64) error

	// TokenBalance returns the asset-token balance of a token account.
	TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error)

	// TransferTokens moves asset tokens between token accounts, signed by the
	// vault authority.
	TransferTokens(ctx context.Context, auth vault.Authority, fromTokenAccount, toTokenAccount solana.PublicKey, amount uint64) error

	// Invoke issues a signed sub-invocation of a venue instruction as the
	// vault. The instruction's accounts are passed through verbatim.
	Invoke(ctx context.Context, auth vault.Authority, ix solana.Instruction) error

	// Close cleans up any resources used by the ledger client.
	Close() error
}
