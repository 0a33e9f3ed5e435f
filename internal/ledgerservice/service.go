// Package ledgerservice manages business logic layer of balance postings.
package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by ledger service layer.
//
// Post must give apply exclusive access to the account and persist the
// returned posting together with its transaction, or nothing at all.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	Post(ctx context.Context, accountID int32, apply domain.ApplyFunc) (domain.PostingResult, error)
}

// Config holds posting thresholds.
type Config struct {
	MinimumDeposit    moneypkg.Money
	MinimumWithdrawal moneypkg.Money
}

// NewConfig reads posting thresholds from the application config.
func NewConfig(c configpkg.Config) (Config, error) {
	minDeposit, err := moneypkg.New(c.MinimumDepositAmount)
	if err != nil {
		return Config{}, fmt.Errorf("minimum deposit amount %q: %w", c.MinimumDepositAmount, err)
	}

	minWithdrawal, err := moneypkg.New(c.MinimumWithdrawalAmount)
	if err != nil {
		return Config{}, fmt.Errorf("minimum withdrawal amount %q: %w", c.MinimumWithdrawalAmount, err)
	}

	if minDeposit.IsNegative() || minWithdrawal.IsNegative() {
		return Config{}, domain.ErrInvalidAmount
	}

	return Config{MinimumDeposit: minDeposit, MinimumWithdrawal: minWithdrawal}, nil
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo   Repo
	config Config
	now    func() time.Time
}

// New returns ledger service struct to manage posting bussines logic.
func New(repo Repo, config Config) *Service {
	return &Service{
		repo:   repo,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// Deposit adds amount to the account balance and records a deposit.
//
// The first deposit also starts the account interest schedule.
func (s *Service) Deposit(ctx context.Context, accountID int32, amount moneypkg.Money) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if amount.LessThan(s.config.MinimumDeposit) {
		return domain.Transaction{}, domain.ErrAmountBelowMinimum
	}

	now := s.now()

	return s.post(ctx, accountID, domain.Deposit, amount, func(a domain.Account) (domain.Posting, error) {
		p := domain.Posting{
			Type:    domain.Deposit,
			Amount:  amount,
			Balance: a.Balance.Add(amount),
		}

		if a.InitialDepositDate == nil {
			start := now.AddDate(0, a.Type.InterestInterval(), 0)
			p.InitialDepositDate = &now
			p.InterestStartDate = &start
		}

		return p, nil
	})
}

// Withdraw subtracts amount from the account balance and records a withdrawal.
func (s *Service) Withdraw(ctx context.Context, accountID int32, amount moneypkg.Money) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if amount.LessThan(s.config.MinimumWithdrawal) {
		return domain.Transaction{}, domain.ErrAmountBelowMinimum
	}

	return s.post(ctx, accountID, domain.Withdrawal, amount, func(a domain.Account) (domain.Posting, error) {
		if amount.GreaterThan(a.Type.MaximumWithdrawalAmount) {
			return domain.Posting{}, domain.ErrExceedsMaximumLimit
		}

		if amount.GreaterThan(a.Balance) {
			return domain.Posting{}, domain.ErrInsufficientFunds
		}

		return domain.Posting{
			Type:    domain.Withdrawal,
			Amount:  amount,
			Balance: a.Balance.Sub(amount),
		}, nil
	})
}

// PostInterest adds already computed interest to the account balance.
func (s *Service) PostInterest(ctx context.Context, accountID int32, interest moneypkg.Money) (domain.Transaction, error) {
	if interest.IsNegative() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	return s.post(ctx, accountID, domain.Interest, interest, func(a domain.Account) (domain.Posting, error) {
		return domain.Posting{
			Type:    domain.Interest,
			Amount:  interest,
			Balance: a.Balance.Add(interest),
		}, nil
	})
}

// PostPeriodInterest computes and posts the account interest for the period
// now falls into.
//
// Eligibility is checked against the locked account. Interest is computed
// from the locked balance and the account interest cursor advances in the
// same posting, so each period is posted at most once.
func (s *Service) PostPeriodInterest(ctx context.Context, accountID int32, now time.Time) (domain.Transaction, error) {
	period := domain.PeriodOf(now)

	return s.post(ctx, accountID, domain.Interest, moneypkg.Zero, func(a domain.Account) (domain.Posting, error) {
		if a.LastInterestPeriod >= period {
			return domain.Posting{}, domain.ErrInterestAlreadyPosted
		}

		if !a.InterestDue(now) || !a.Balance.IsPositive() {
			return domain.Posting{}, domain.ErrNoInterestDue
		}

		interest := a.Type.InterestOn(a.Balance)
		if !interest.IsPositive() {
			return domain.Posting{}, domain.ErrNoInterestDue
		}

		return domain.Posting{
			Type:           domain.Interest,
			Amount:         interest,
			Balance:        a.Balance.Add(interest),
			InterestPeriod: period,
		}, nil
	})
}

func (s *Service) post(
	ctx context.Context,
	accountID int32,
	kind domain.TransactionType,
	amount moneypkg.Money,
	apply domain.ApplyFunc,
) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	result, err := s.repo.Post(ctx, accountID, apply)
	if err != nil {
		l.Info().Err(err).
			Int32("account_id", accountID).
			Str("type", string(kind)).
			Stringer("amount", amount).
			Msg("posting rejected")

		return domain.Transaction{}, err
	}

	l.Info().
		Int32("account_id", accountID).
		Int64("transaction_id", result.Transaction.ID).
		Str("type", string(result.Transaction.Type)).
		Stringer("amount", result.Transaction.Amount).
		Stringer("balance", result.Transaction.BalanceAfterTransaction).
		Msg("posted")

	return result.Transaction, nil
}
