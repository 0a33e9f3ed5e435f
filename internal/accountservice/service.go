// Package accountservice manages business logic layer of accounts and account types.
package accountservice

import (
	"context"
	"errors"
	"math"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultTypes are the account types every new deployment starts with.
// The postgres schema migration inserts the same rows.
var DefaultTypes = []domain.CreateAccountTypeParams{
	{
		Name:                       "Saving",
		MaximumWithdrawalAmount:    moneypkg.NewFromInt(5000),
		AnnualInterestRate:         decimal.RequireFromString("5.00"),
		InterestCalculationPerYear: 12,
	},
	{
		Name:                       "Current",
		MaximumWithdrawalAmount:    moneypkg.NewFromInt(10000),
		AnnualInterestRate:         decimal.RequireFromString("1.50"),
		InterestCalculationPerYear: 4,
	},
}

// Repo provides data access layer interface of accounts needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)
}

// TypeRepo provides data access layer interface of account types needed by account service layer.
type TypeRepo interface {
	Create(ctx context.Context, arg domain.CreateAccountTypeParams) (domain.AccountType, error)
	GetByName(ctx context.Context, name string) (domain.AccountType, error)
	List(ctx context.Context) ([]domain.AccountType, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo     Repo
	typeRepo TypeRepo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, tr TypeRepo) *Service {
	return &Service{repo: ar, typeRepo: tr}
}

// Open opens an account of the named type with zero balance for the given owner.
func (s *Service) Open(ctx context.Context, owner, typeName string) (domain.Account, error) {
	t, err := s.typeRepo.GetByName(ctx, typeName)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.repo.Create(ctx, domain.CreateAccountParams{Owner: owner, AccountTypeID: t.ID})
	if err != nil {
		return domain.Account{}, err
	}

	zerolog.Ctx(ctx).Info().
		Int32("account_id", account.ID).
		Int64("number", account.Number).
		Str("account_type", t.Name).
		Msg("account opened")

	return account, nil
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// List returns accounts that are owned by the given user.
//
// Pages that start beyond the int32 offset range are empty.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	offset := (int64(pageID) - 1) * int64(pageSize)
	if pageSize <= 0 || offset < 0 || offset > math.MaxInt32 {
		return []domain.Account{}, nil
	}

	return s.repo.List(ctx, owner, pageSize, int32(offset))
}

// CreateType validates and creates an account type.
func (s *Service) CreateType(ctx context.Context, arg domain.CreateAccountTypeParams) (domain.AccountType, error) {
	if err := arg.Validate(); err != nil {
		return domain.AccountType{}, err
	}

	return s.typeRepo.Create(ctx, arg)
}

// ListTypes returns all account types.
func (s *Service) ListTypes(ctx context.Context) ([]domain.AccountType, error) {
	return s.typeRepo.List(ctx)
}

// SeedTypes creates the given account types, skipping the ones that already exist.
func (s *Service) SeedTypes(ctx context.Context, types []domain.CreateAccountTypeParams) error {
	for _, arg := range types {
		_, err := s.CreateType(ctx, arg)
		if err != nil && !errors.Is(err, domain.ErrAccountTypeAlreadyExists) {
			return err
		}
	}

	return nil
}
