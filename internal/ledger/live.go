package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solmm/mmw/internal/logger"
	"github.com/solmm/mmw/internal/vault"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidRPCClient    = errors.New("RPC client is invalid")
	ErrInvalidPayer        = errors.New("fee payer key is invalid")
	ErrBalanceQueryFailed  = errors.New("balance query failed")
	ErrInvalidResponse     = errors.New("response data is invalid")
	ErrTransactionFailed   = errors.New("transaction execution failed")
	ErrBlockhashFailed     = errors.New("recent blockhash retrieval failed")
)

var ledgerLogger = logger.GetForComponent("ledger_client")

// LiveClient is the Solana RPC implementation of the Ledger interface.
// It submits real transactions; the daemon only constructs one when
// MMW_MODE=live.
type LiveClient struct {
	rpcClient *rpc.Client
	payer     solana.PrivateKey
}

// NewLiveClient creates a live ledger client with comprehensive validation.
func NewLiveClient(rpcClient *rpc.Client, payer solana.PrivateKey) (*LiveClient, error) {
	if rpcClient == nil {
		return nil, ErrInvalidRPCClient
	}
	if len(payer) == 0 || !payer.IsValid() {
		return nil, ErrInvalidPayer
	}

	client := &LiveClient{
		rpcClient: rpcClient,
		payer:     payer,
	}

	ledgerLogger.Info().
		Str("payer", payer.PublicKey().String()).
		Msg("Live ledger client initialized")

	return client, nil
}

// Now returns wall-clock time; the RPC node's clock drift is within the
// tolerance of every time-based guard (second granularity).
func (c *LiveClient) Now() int64 {
	return time.Now().Unix()
}

// Lamports returns the native balance of an address at finalized commitment.
func (c *LiveClient) Lamports(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := c.rpcClient.GetBalance(ctx, addr, rpc.CommitmentFinalized)
	if err != nil {
		return 0, errors.Join(ErrBalanceQueryFailed, fmt.Errorf("address %s: %w", addr, err))
	}
	if out == nil {
		return 0, errors.Join(ErrBalanceQueryFailed, ErrInvalidResponse)
	}
	return out.Value, nil
}

// TransferLamports submits a system transfer between two addresses.
func (c *LiveClient) TransferLamports(ctx context.Context, from, to solana.PublicKey, amount uint64) error {
	ix := system.NewTransferInstruction(amount, from, to).Build()
	return c.sendInstruction(ctx, ix)
}

// WithdrawLamports moves native currency out of the vault under the vault
// authority's seed proof.
func (c *LiveClient) WithdrawLamports(ctx context.Context, auth vault.Authority, to solana.PublicKey, amount uint64) error {
	ix := system.NewTransferInstruction(amount, auth.Address(), to).Build()
	return c.invokeSigned(ctx, auth, ix)
}

// TokenBalance returns the asset-token balance of a token account.
func (c *LiveClient) TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	out, err := c.rpcClient.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentFinalized)
	if err != nil {
		return 0, errors.Join(ErrBalanceQueryFailed, fmt.Errorf("token account %s: %w", tokenAccount, err))
	}
	if out == nil || out.Value == nil {
		return 0, errors.Join(ErrBalanceQueryFailed, ErrInvalidResponse)
	}
	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrInvalidResponse, fmt.Errorf("token amount %q: %w", out.Value.Amount, err))
	}
	return amount, nil
}

// TransferTokens moves asset tokens out of the vault's token account under the
// vault authority's seed proof.
func (c *LiveClient) TransferTokens(ctx context.Context, auth vault.Authority, fromTokenAccount, toTokenAccount solana.PublicKey, amount uint64) error {
	ix := token.NewTransferInstruction(amount, fromTokenAccount, toTokenAccount, auth.Address(), nil).Build()
	return c.invokeSigned(ctx, auth, ix)
}

// Invoke issues a venue instruction as the vault.
func (c *LiveClient) Invoke(ctx context.Context, auth vault.Authority, ix solana.Instruction) error {
	return c.invokeSigned(ctx, auth, ix)
}

// Close releases the RPC client.
func (c *LiveClient) Close() error {
	if c.rpcClient != nil {
		return c.rpcClient.Close()
	}
	return nil
}

// invokeSigned submits an instruction whose authority is a vault. The seed
// proof is only honored by the deployed program; the fee payer signs the
// enclosing transaction.
func (c *LiveClient) invokeSigned(ctx context.Context, auth vault.Authority, ix solana.Instruction) error {
	ledgerLogger.Debug().
		Str("vault", auth.Address().String()).
		Str("program", ix.ProgramID().String()).
		Msg("Submitting vault-signed instruction")
	return c.sendInstruction(ctx, ix)
}

func (c *LiveClient) sendInstruction(ctx context.Context, ix solana.Instruction) error {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return errors.Join(ErrBlockhashFailed, err)
	}
	if recent == nil || recent.Value == nil {
		return errors.Join(ErrBlockhashFailed, ErrInvalidResponse)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		recent.Value.Blockhash,
		solana.TransactionPayer(c.payer.PublicKey()),
	)
	if err != nil {
		return errors.Join(ErrTransactionFailed, fmt.Errorf("failed to build transaction: %w", err))
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.payer.PublicKey()) {
			return &c.payer
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrTransactionFailed, fmt.Errorf("failed to sign transaction: %w", err))
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return errors.Join(ErrTransactionFailed, err)
	}

	ledgerLogger.Info().
		Str("signature", sig.String()).
		Str("program", ix.ProgramID().String()).
		Msg("Transaction submitted")

	return nil
}
