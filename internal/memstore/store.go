// Package memstore keeps accounts and their ledgers in process memory.
//
// Every account has its own mutex. Post holds only that mutex while the
// posting is validated and applied, so postings to different accounts never
// wait on each other.
package memstore

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// firstAccountNumber is the number allocated to the first opened account.
const firstAccountNumber = 1_000_000_001

type entry struct {
	mu           sync.Mutex
	account      domain.Account
	transactions []domain.Transaction
}

// Store is an in-memory ledger store safe for concurrent use.
type Store struct {
	nextTxID int64 // accessed atomically; must stay the first field

	mu       sync.RWMutex
	accounts map[int32]*entry
	nextID   int32

	types *TypeStore
	now   func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[int32]*entry),
		types:    newTypeStore(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Types returns the account type store.
func (s *Store) Types() *TypeStore {
	return s.types
}

// Create opens an account with zero balance and then returns it.
func (s *Store) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	t, err := s.types.get(arg.AccountTypeID)
	if err != nil {
		return domain.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++

	a := domain.Account{
		ID:            s.nextID,
		Number:        firstAccountNumber + int64(s.nextID) - 1,
		Owner:         arg.Owner,
		AccountTypeID: t.ID,
		Type:          t,
		CreatedAt:     s.now(),
	}

	s.accounts[a.ID] = &entry{account: a}

	return a, nil
}

func (s *Store) entry(id int32) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return e, nil
}

// Get returns a snapshot of the account with the given id.
func (s *Store) Get(ctx context.Context, id int32) (domain.Account, error) {
	e, err := s.entry(id)
	if err != nil {
		return domain.Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.account, nil
}

// Post applies a balance change to the account.
//
// The account stays locked from the moment apply sees it until the balance
// and the appended transaction are both stored.
func (s *Store) Post(ctx context.Context, accountID int32, apply domain.ApplyFunc) (domain.PostingResult, error) {
	e, err := s.entry(accountID)
	if err != nil {
		return domain.PostingResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.PostingResult{}, err
	}

	posting, err := apply(e.account)
	if err != nil {
		return domain.PostingResult{}, err
	}

	if posting.Balance.IsNegative() {
		return domain.PostingResult{}, domain.ErrInsufficientFunds
	}

	if posting.Amount.IsNegative() || (posting.Amount.IsZero() && posting.Type != domain.Interest) {
		return domain.PostingResult{}, domain.ErrInvalidAmount
	}

	a := e.account
	a.Balance = posting.Balance

	if a.InitialDepositDate == nil && posting.InitialDepositDate != nil {
		a.InitialDepositDate = posting.InitialDepositDate
	}

	if a.InterestStartDate == nil && posting.InterestStartDate != nil {
		a.InterestStartDate = posting.InterestStartDate
	}

	if posting.InterestPeriod > a.LastInterestPeriod {
		a.LastInterestPeriod = posting.InterestPeriod
	}

	t := domain.Transaction{
		ID:                      atomic.AddInt64(&s.nextTxID, 1),
		AccountID:               accountID,
		Type:                    posting.Type,
		Amount:                  posting.Amount,
		BalanceAfterTransaction: a.Balance,
		CreatedAt:               s.now(),
	}

	e.account = a
	e.transactions = append(e.transactions, t)

	return domain.PostingResult{Account: a, Transaction: t}, nil
}

// ListTransactions returns the account transactions within rng in
// chronological order.
func (s *Store) ListTransactions(ctx context.Context, accountID int32, rng domain.DateRange) ([]domain.Transaction, error) {
	e, err := s.entry(accountID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := []domain.Transaction{}

	for _, t := range e.transactions {
		if rng.Contains(t.CreatedAt) {
			items = append(items, t)
		}
	}

	return items, nil
}

// Snapshot returns the account together with a copy of its whole ledger.
func (s *Store) Snapshot(ctx context.Context, accountID int32) (domain.Account, []domain.Transaction, error) {
	e, err := s.entry(accountID)
	if err != nil {
		return domain.Account{}, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]domain.Transaction, len(e.transactions))
	copy(items, e.transactions)

	return e.account, items, nil
}

// List returns the specified number of accounts for the given owner ordered by id.
func (s *Store) List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	items := []domain.Account{}

	for _, a := range s.accountsByID() {
		if a.Owner == owner {
			items = append(items, a)
		}
	}

	if offset < 0 || limit <= 0 || int(offset) >= len(items) {
		return []domain.Account{}, nil
	}

	items = items[offset:]
	if int(limit) < len(items) {
		items = items[:limit]
	}

	return items, nil
}

// accountsByID returns a snapshot of every account ordered by id.
func (s *Store) accountsByID() []domain.Account {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.accounts))
	for _, e := range s.accounts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	items := make([]domain.Account, 0, len(entries))

	for _, e := range entries {
		e.mu.Lock()
		items = append(items, e.account)
		e.mu.Unlock()
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items
}

// ListInterestCandidates returns accounts that may accrue interest for the period.
func (s *Store) ListInterestCandidates(ctx context.Context, now time.Time, period domain.Period) ([]domain.Account, error) {
	items := []domain.Account{}

	for _, a := range s.accountsByID() {
		if !a.Balance.IsPositive() || a.InitialDepositDate == nil {
			continue
		}

		if a.InterestStartDate == nil || a.InterestStartDate.After(now) {
			continue
		}

		if a.LastInterestPeriod >= period {
			continue
		}

		items = append(items, a)
	}

	return items, nil
}
