// Package interestservice manages business logic layer of periodic interest postings.
package interestservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Repo provides data access layer interface needed by interest service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package interestservice
type Repo interface {
	ListInterestCandidates(ctx context.Context, now time.Time, period domain.Period) ([]domain.Account, error)
}

// Poster posts interest for a single account.
type Poster interface {
	PostPeriodInterest(ctx context.Context, accountID int32, now time.Time) (domain.Transaction, error)
}

// Config holds scheduler settings.
type Config struct {
	// Workers bounds the number of accounts posted concurrently.
	Workers int
}

// NewConfig reads scheduler settings from the application config.
func NewConfig(c configpkg.Config) Config {
	return Config{Workers: c.InterestWorkers}
}

// Service facilitates interest service layer logic.
type Service struct {
	repo   Repo
	poster Poster
	config Config
}

// New returns interest service struct to manage interest postings.
func New(repo Repo, poster Poster, config Config) *Service {
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &Service{
		repo:   repo,
		poster: poster,
		config: config,
	}
}

// Run posts interest for every account due in the period now falls into.
//
// A failure to post one account is logged and counted, the remaining
// accounts are still processed. Running again for the same period posts
// nothing new.
func (s *Service) Run(ctx context.Context, now time.Time) (domain.InterestRun, error) {
	l := zerolog.Ctx(ctx)

	period := domain.PeriodOf(now)
	run := domain.InterestRun{Period: period, RunAt: now, TotalInterest: moneypkg.Zero}

	candidates, err := s.repo.ListInterestCandidates(ctx, now, period)
	if err != nil {
		l.Error().Err(err).Int32("period", int32(period)).Msg("listing interest candidates")
		return run, err
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	g.SetLimit(s.config.Workers)

	for _, a := range candidates {
		if !a.IsPostingMonth(now.Month()) {
			continue
		}

		run.Candidates++

		account := a

		g.Go(func() error {
			t, err := s.poster.PostPeriodInterest(ctx, account.ID, now)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				run.Posted++
				run.TotalInterest = run.TotalInterest.Add(t.Amount)
			case errors.Is(err, domain.ErrInterestAlreadyPosted), errors.Is(err, domain.ErrNoInterestDue):
				run.Skipped++
			default:
				run.Failed++
				l.Error().Err(err).
					Int32("account_id", account.ID).
					Int32("period", int32(period)).
					Msg("interest posting failed")
			}

			return nil
		})
	}

	_ = g.Wait()

	l.Info().
		Int32("period", int32(period)).
		Int("candidates", run.Candidates).
		Int("posted", run.Posted).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Stringer("total_interest", run.TotalInterest).
		Msg("interest run finished")

	return run, nil
}

// Calculate returns the interest accrued on balance for one posting period.
func Calculate(balance moneypkg.Money, annualRate decimal.Decimal, perYear int32) moneypkg.Money {
	return domain.AccountType{
		AnnualInterestRate:         annualRate,
		InterestCalculationPerYear: perYear,
	}.InterestOn(balance)
}
