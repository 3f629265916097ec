package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solmm/mmw/internal/vault"
)

var (
	ErrInsufficientLamports = errors.New("insufficient lamports for transfer")
	ErrInsufficientTokens   = errors.New("insufficient tokens for transfer")
)

// InvokeHook lets a test or simulation observe and react to venue
// instructions issued against the in-memory ledger.
type InvokeHook func(auth vault.Authority, ix solana.Instruction) error

// MemoryLedger is the in-memory implementation of the Ledger interface, used
// by tests and by any run where MMW_MODE is not "live". Balances are plain
// maps; venue instructions succeed as no-ops unless a hook is installed.
type MemoryLedger struct {
	mu            sync.Mutex
	now           int64
	balances      map[solana.PublicKey]uint64
	tokenBalances map[solana.PublicKey]uint64
	invokeHook    InvokeHook
}

// NewMemoryLedger creates an empty in-memory ledger starting at wall-clock time.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		now:           time.Now().Unix(),
		balances:      make(map[solana.PublicKey]uint64),
		tokenBalances: make(map[solana.PublicKey]uint64),
	}
}

// SetNow pins the ledger clock. Used by tests to exercise time-based guards.
func (m *MemoryLedger) SetNow(now int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Advance moves the ledger clock forward by the given number of seconds.
func (m *MemoryLedger) Advance(secs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += secs
}

// Credit sets up a native balance, e.g. to fund a depositor.
func (m *MemoryLedger) Credit(addr solana.PublicKey, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[addr] += amount
}

// CreditTokens sets up an asset-token balance on a token account.
func (m *MemoryLedger) CreditTokens(tokenAccount solana.PublicKey, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenBalances[tokenAccount] += amount
}

// SetInvokeHook installs a hook that runs for every venue instruction.
func (m *MemoryLedger) SetInvokeHook(hook InvokeHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invokeHook = hook
}

func (m *MemoryLedger) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MemoryLedger) Lamports(_ context.Context, addr solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr], nil
}

func (m *MemoryLedger) TransferLamports(_ context.Context, from, to solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moveLamports(from, to, amount)
}

func (m *MemoryLedger) WithdrawLamports(_ context.Context, auth vault.Authority, to solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moveLamports(auth.Address(), to, amount)
}

func (m *MemoryLedger) TokenBalance(_ context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokenBalances[tokenAccount], nil
}

func (m *MemoryLedger) TransferTokens(_ context.Context, auth vault.Authority, fromTokenAccount, toTokenAccount solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenBalances[fromTokenAccount] < amount {
		return ErrInsufficientTokens
	}
	m.tokenBalances[fromTokenAccount] -= amount
	m.tokenBalances[toTokenAccount] += amount
	return nil
}

func (m *MemoryLedger) Invoke(_ context.Context, auth vault.Authority, ix solana.Instruction) error {
	m.mu.Lock()
	hook := m.invokeHook
	m.mu.Unlock()
	if hook != nil {
		return hook(auth, ix)
	}
	return nil
}

func (m *MemoryLedger) Close() error {
	return nil
}

// moveLamports assumes m.mu is held.
func (m *MemoryLedger) moveLamports(from, to solana.PublicKey, amount uint64) error {
	if m.balances[from] < amount {
		return ErrInsufficientLamports
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}
