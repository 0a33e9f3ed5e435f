package interestservice_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/interestservice"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memstore.Store
	ledger   *ledgerservice.Service
	interest *interestservice.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	store := memstore.New()
	ledger := ledgerservice.New(store, ledgerservice.Config{
		MinimumDeposit:    moneypkg.NewFromInt(10),
		MinimumWithdrawal: moneypkg.NewFromInt(10),
	})

	return fixture{
		store:    store,
		ledger:   ledger,
		interest: interestservice.New(store, ledger, interestservice.Config{Workers: 4}),
	}
}

func (f fixture) openAccount(t *testing.T, deposit string) domain.Account {
	t.Helper()

	ctx := context.Background()

	accountType, err := f.store.Types().GetByName(ctx, "Saving")
	if err != nil {
		accountType, err = f.store.Types().Create(ctx, domain.CreateAccountTypeParams{
			Name:                       "Saving",
			MaximumWithdrawalAmount:    moneypkg.NewFromInt(5000),
			AnnualInterestRate:         decimal.NewFromInt(5),
			InterestCalculationPerYear: 12,
		})
		require.NoError(t, err)
	}

	account, err := f.store.Create(ctx, domain.CreateAccountParams{Owner: "owner", AccountTypeID: accountType.ID})
	require.NoError(t, err)

	if deposit != "" {
		_, err = f.ledger.Deposit(ctx, account.ID, moneypkg.MustNew(deposit))
		require.NoError(t, err)
	}

	return account
}

func TestRunTwicePostsOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	funded := f.openAccount(t, "1000")
	empty := f.openAccount(t, "")

	now := time.Now().UTC().AddDate(0, 2, 0)

	first, err := f.interest.Run(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Posted)
	assert.Equal(t, "4.17", first.TotalInterest.String())

	second, err := f.interest.Run(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Posted)
	assert.True(t, second.TotalInterest.IsZero())

	got, err := f.ledger.Get(ctx, funded.ID)
	require.NoError(t, err)
	assert.Equal(t, "1004.17", got.Balance.String())
	assert.Equal(t, domain.PeriodOf(now), got.LastInterestPeriod)

	got, err = f.ledger.Get(ctx, empty.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestConcurrentRunsPostOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	accounts := make([]domain.Account, 10)
	for i := range accounts {
		accounts[i] = f.openAccount(t, "1000")
	}

	now := time.Now().UTC().AddDate(0, 2, 0)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		posted int
	)

	for i := 0; i < 3; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			run, err := f.interest.Run(ctx, now)
			assert.NoError(t, err)

			mu.Lock()
			posted += run.Posted
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, len(accounts), posted)

	for _, a := range accounts {
		got, err := f.ledger.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "1004.17", got.Balance.String())
	}
}

func TestRunBeforeInterestStart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	account := f.openAccount(t, "1000")

	run, err := f.interest.Run(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, run.Candidates)

	got, err := f.ledger.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", got.Balance.String())
}
