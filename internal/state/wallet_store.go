// ./internal/state/wallet_store.go
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/vault"
)

// ErrWalletNotFound is returned when no record exists for an owner+nonce pair.
var ErrWalletNotFound = errors.New("wallet not found")

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// WalletStore persists wallet records in the mm_wallets table. The canonical
// representation is the serialized record column; the projected columns exist
// for querying only and are rewritten on every save.
type WalletStore struct{}

// NewWalletStore validates that the database pool is up and returns a store.
func NewWalletStore() (*WalletStore, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return &WalletStore{}, nil
}

// Create inserts a new wallet record. A duplicate owner+nonce pair maps to
// types.ErrAlreadyInitialized.
func (s *WalletStore) Create(ctx context.Context, w *types.Wallet) error {
	vaultAddr, err := vaultAddress(w)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO mm_wallets (
			owner, nonce, vault, record,
			operator, token_mint, strategy, paused, is_creator,
			lock_until, total_volume, total_trades, last_trade
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	_, err = DB.ExecContext(ctx, stmt,
		w.Owner.String(), int64(w.Nonce), vaultAddr.String(), w.MarshalRecord(),
		w.Operator.String(), w.TokenMint.String(), int16(w.Strategy), w.Paused, w.IsCreator,
		w.LockUntil, int64(w.TotalVolume), int64(w.TotalTrades), w.LastTrade,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.ErrAlreadyInitialized
		}
		return fmt.Errorf("failed to insert wallet record: %w", err)
	}

	log.Info().
		Str("owner", w.Owner.String()).
		Uint64("nonce", w.Nonce).
		Str("vault", vaultAddr.String()).
		Msg("Created wallet record")
	return nil
}

// Load fetches the record for one owner+nonce pair.
func (s *WalletStore) Load(ctx context.Context, owner solana.PublicKey, nonce uint64) (*types.Wallet, error) {
	stmt := `SELECT record FROM mm_wallets WHERE owner = $1 AND nonce = $2;`

	var record []byte
	err := DB.QueryRowContext(ctx, stmt, owner.String(), int64(nonce)).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet record: %w", err)
	}

	w, err := types.UnmarshalRecord(record)
	if err != nil {
		return nil, fmt.Errorf("stored wallet record is corrupt: %w", err)
	}
	return w, nil
}

// Save rewrites an existing wallet record and its projected columns.
func (s *WalletStore) Save(ctx context.Context, w *types.Wallet) error {
	stmt := `
		UPDATE mm_wallets SET
			record = $3,
			operator = $4, token_mint = $5, strategy = $6, paused = $7, is_creator = $8,
			lock_until = $9, total_volume = $10, total_trades = $11, last_trade = $12,
			updated_at = CURRENT_TIMESTAMP
		WHERE owner = $1 AND nonce = $2;`

	res, err := DB.ExecContext(ctx, stmt,
		w.Owner.String(), int64(w.Nonce), w.MarshalRecord(),
		w.Operator.String(), w.TokenMint.String(), int16(w.Strategy), w.Paused, w.IsCreator,
		w.LockUntil, int64(w.TotalVolume), int64(w.TotalTrades), w.LastTrade,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet record: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// List returns every wallet record, newest first.
func (s *WalletStore) List(ctx context.Context) ([]*types.Wallet, error) {
	stmt := `SELECT record FROM mm_wallets ORDER BY created_at DESC;`

	rows, err := DB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet records: %w", err)
	}
	defer rows.Close()

	var wallets []*types.Wallet
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan wallet record: %w", err)
		}
		w, err := types.UnmarshalRecord(record)
		if err != nil {
			return nil, fmt.Errorf("stored wallet record is corrupt: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet records: %w", err)
	}
	return wallets, nil
}

func vaultAddress(w *types.Wallet) (solana.PublicKey, error) {
	auth, err := vault.AuthorityAt(w.Owner, w.Nonce, w.Bump)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault address: %w", err)
	}
	return auth.Address(), nil
}
