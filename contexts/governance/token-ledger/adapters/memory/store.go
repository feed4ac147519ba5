package memory

import (
	"context"
	"sync"
	"time"

	"psephos/contexts/governance/token-ledger/domain/entities"
	"psephos/contexts/governance/token-ledger/ports"
)

// Store is the in-memory AccountRepository. One mutex serializes transfers;
// WithinTx holds it across the callback.
type Store struct {
	mu       sync.Mutex
	accounts map[string]entities.Account
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]entities.Account),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.AccountRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&session{store: s})
}

func (s *Store) GetAccount(ctx context.Context, address string) (entities.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).GetAccount(ctx, address)
}

func (s *Store) SaveAccount(ctx context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).SaveAccount(ctx, account)
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{store: s}).TotalSupply(ctx)
}

type session struct {
	store *Store
}

func (t *session) WithinTx(ctx context.Context, fn func(tx ports.AccountRepository) error) error {
	return fn(t)
}

func (t *session) GetAccount(_ context.Context, address string) (entities.Account, bool, error) {
	account, ok := t.store.accounts[entities.NormalizeAddress(address)]
	return account, ok, nil
}

func (t *session) SaveAccount(_ context.Context, account entities.Account) error {
	account.Address = entities.NormalizeAddress(account.Address)
	t.store.accounts[account.Address] = account
	return nil
}

func (t *session) TotalSupply(_ context.Context) (int64, error) {
	var total int64
	for _, account := range t.store.accounts {
		total += account.Balance
	}
	return total, nil
}

// SystemClock is the production time source.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
