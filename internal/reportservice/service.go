// Package reportservice manages business logic layer of account reports.
package reportservice

import (
	"context"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by report service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reportservice
type Repo interface {
	ListTransactions(ctx context.Context, accountID int32, rng domain.DateRange) ([]domain.Transaction, error)
	Snapshot(ctx context.Context, accountID int32) (domain.Account, []domain.Transaction, error)
}

// Service facilitates report service layer logic.
type Service struct {
	repo Repo
}

// New returns report service struct to read account ledgers.
func New(repo Repo) *Service {
	return &Service{repo: repo}
}

// ListTransactions returns the account transactions within rng in
// chronological order.
func (s *Service) ListTransactions(ctx context.Context, accountID int32, rng domain.DateRange) ([]domain.Transaction, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, accountID, rng)
}

// ComputedBalance returns the sum of signed amounts of all account transactions.
func (s *Service) ComputedBalance(ctx context.Context, accountID int32) (moneypkg.Money, error) {
	_, items, err := s.repo.Snapshot(ctx, accountID)
	if err != nil {
		return moneypkg.Zero, err
	}

	return Sum(items), nil
}

// Reconcile returns the account and its computed balance. It fails with
// domain.ErrBalanceMismatch when the stored balance differs from the ledger.
func (s *Service) Reconcile(ctx context.Context, accountID int32) (domain.Account, moneypkg.Money, error) {
	account, items, err := s.repo.Snapshot(ctx, accountID)
	if err != nil {
		return domain.Account{}, moneypkg.Zero, err
	}

	computed := Sum(items)

	if !computed.Equal(account.Balance) {
		zerolog.Ctx(ctx).Error().
			Int32("account_id", accountID).
			Stringer("balance", account.Balance).
			Stringer("computed_balance", computed).
			Msg("ledger doesn't reconcile")

		return account, computed, domain.ErrBalanceMismatch
	}

	return account, computed, nil
}

// Statement returns the account, its transactions within rng and the
// balance computed from the whole ledger.
func (s *Service) Statement(ctx context.Context, accountID int32, rng domain.DateRange) (domain.Statement, error) {
	if err := rng.Validate(); err != nil {
		return domain.Statement{}, err
	}

	account, items, err := s.repo.Snapshot(ctx, accountID)
	if err != nil {
		return domain.Statement{}, err
	}

	filtered := []domain.Transaction{}

	for _, t := range items {
		if rng.Contains(t.CreatedAt) {
			filtered = append(filtered, t)
		}
	}

	return domain.Statement{
		Account:         account,
		Transactions:    filtered,
		ComputedBalance: Sum(items),
	}, nil
}

// Sum returns the balance the transactions add up to.
func Sum(items []domain.Transaction) moneypkg.Money {
	total := moneypkg.Zero

	for _, t := range items {
		total = total.Add(t.SignedAmount())
	}

	return total
}
