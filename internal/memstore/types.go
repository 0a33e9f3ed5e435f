package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// TypeStore keeps account types in memory.
type TypeStore struct {
	mu     sync.RWMutex
	byID   map[int32]domain.AccountType
	nextID int32
}

func newTypeStore() *TypeStore {
	return &TypeStore{byID: make(map[int32]domain.AccountType)}
}

// Create creates the account type and then returns it.
func (s *TypeStore) Create(ctx context.Context, arg domain.CreateAccountTypeParams) (domain.AccountType, error) {
	if err := arg.Validate(); err != nil {
		return domain.AccountType{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.byID {
		if t.Name == arg.Name {
			return domain.AccountType{}, domain.ErrAccountTypeAlreadyExists
		}
	}

	s.nextID++

	t := domain.AccountType{
		ID:                         s.nextID,
		Name:                       arg.Name,
		MaximumWithdrawalAmount:    arg.MaximumWithdrawalAmount,
		AnnualInterestRate:         arg.AnnualInterestRate,
		InterestCalculationPerYear: arg.InterestCalculationPerYear,
		CreatedAt:                  time.Now().UTC(),
	}

	s.byID[t.ID] = t

	return t, nil
}

// GetByName returns the account type with the given name.
func (s *TypeStore) GetByName(ctx context.Context, name string) (domain.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.byID {
		if t.Name == name {
			return t, nil
		}
	}

	return domain.AccountType{}, domain.ErrAccountTypeNotFound
}

// List returns all account types ordered by id.
func (s *TypeStore) List(ctx context.Context) ([]domain.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.AccountType, 0, len(s.byID))
	for id := int32(1); id <= s.nextID; id++ {
		if t, ok := s.byID[id]; ok {
			items = append(items, t)
		}
	}

	return items, nil
}

func (s *TypeStore) get(id int32) (domain.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return domain.AccountType{}, domain.ErrAccountTypeNotFound
	}

	return t, nil
}
