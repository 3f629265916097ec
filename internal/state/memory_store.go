// ./internal/state/memory_store.go
package state

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/types"
)

type walletKey struct {
	owner solana.PublicKey
	nonce uint64
}

// MemoryStore holds wallet records in a map. Used by tests and by runs
// without a database. Records round-trip through the canonical encoding so
// the two stores stay behaviorally identical.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[walletKey][]byte
	order   []walletKey
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[walletKey][]byte)}
}

func (s *MemoryStore) Create(_ context.Context, w *types.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := walletKey{owner: w.Owner, nonce: w.Nonce}
	if _, exists := s.records[key]; exists {
		return types.ErrAlreadyInitialized
	}
	s.records[key] = w.MarshalRecord()
	s.order = append(s.order, key)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, owner solana.PublicKey, nonce uint64) (*types.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[walletKey{owner: owner, nonce: nonce}]
	if !exists {
		return nil, ErrWalletNotFound
	}
	return types.UnmarshalRecord(record)
}

func (s *MemoryStore) Save(_ context.Context, w *types.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := walletKey{owner: w.Owner, nonce: w.Nonce}
	if _, exists := s.records[key]; !exists {
		return ErrWalletNotFound
	}
	s.records[key] = w.MarshalRecord()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*types.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, matching the database store.
	wallets := make([]*types.Wallet, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		w, err := types.UnmarshalRecord(s.records[s.order[i]])
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}
