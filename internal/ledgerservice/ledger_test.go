package ledgerservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(t *testing.T, opening string) (*ledgerservice.Service, domain.Account) {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()

	accountType, err := store.Types().Create(ctx, domain.CreateAccountTypeParams{
		Name:                       "Saving",
		MaximumWithdrawalAmount:    moneypkg.NewFromInt(5000),
		AnnualInterestRate:         decimal.NewFromInt(5),
		InterestCalculationPerYear: 12,
	})
	require.NoError(t, err)

	account, err := store.Create(ctx, domain.CreateAccountParams{Owner: "owner", AccountTypeID: accountType.ID})
	require.NoError(t, err)

	service := ledgerservice.New(store, ledgerservice.Config{
		MinimumDeposit:    moneypkg.NewFromInt(10),
		MinimumWithdrawal: moneypkg.NewFromInt(10),
	})

	if opening != "" {
		_, err = service.Deposit(ctx, account.ID, moneypkg.MustNew(opening))
		require.NoError(t, err)
	}

	return service, account
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	service, account := setupLedger(t, "1000")
	ctx := context.Background()

	var wg sync.WaitGroup

	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := service.Withdraw(ctx, account.ID, moneypkg.NewFromInt(700))
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var succeeded, rejected int

	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", got.Balance.String())
}

func TestConcurrentDepositsSumUp(t *testing.T) {
	service, account := setupLedger(t, "")
	ctx := context.Background()

	const n = 50

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := service.Deposit(ctx, account.ID, moneypkg.MustNew("10.01"))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.50", got.Balance.String())
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	service, account := setupLedger(t, "1000")
	ctx := context.Background()

	deposit, err := service.Deposit(ctx, account.ID, moneypkg.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, "1200.00", deposit.BalanceAfterTransaction.String())

	withdrawal, err := service.Withdraw(ctx, account.ID, moneypkg.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, "1000.00", withdrawal.BalanceAfterTransaction.String())
	assert.Greater(t, withdrawal.ID, deposit.ID)

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", got.Balance.String())
}

func TestRejectedPostingLeavesAccountUntouched(t *testing.T) {
	service, account := setupLedger(t, "1000")
	ctx := context.Background()

	before, err := service.Get(ctx, account.ID)
	require.NoError(t, err)

	_, err = service.Withdraw(ctx, account.ID, moneypkg.NewFromInt(1200))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = service.Deposit(ctx, account.ID, moneypkg.NewFromInt(5))
	require.ErrorIs(t, err, domain.ErrAmountBelowMinimum)

	after, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, before.Balance.Equal(after.Balance))
	assert.Equal(t, before.LastInterestPeriod, after.LastInterestPeriod)
}

func TestPeriodInterestPostedOnce(t *testing.T) {
	service, account := setupLedger(t, "1000")
	ctx := context.Background()

	// The first deposit schedules interest one month out.
	due := time.Now().UTC().AddDate(0, 1, 0)
	period := domain.PeriodOf(due)

	var wg sync.WaitGroup

	errs := make(chan error, 4)

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := service.PostPeriodInterest(ctx, account.ID, due)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var posted int

	for err := range errs {
		if err == nil {
			posted++
			continue
		}

		require.ErrorIs(t, err, domain.ErrInterestAlreadyPosted)
	}

	assert.Equal(t, 1, posted)

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1004.17", got.Balance.String())
	assert.Equal(t, period, got.LastInterestPeriod)
}

func TestPeriodInterestWaitsForSchedule(t *testing.T) {
	service, account := setupLedger(t, "1000")
	ctx := context.Background()

	_, err := service.PostPeriodInterest(ctx, account.ID, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrNoInterestDue)

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", got.Balance.String())
	assert.Zero(t, got.LastInterestPeriod)
}

func TestUnknownAccount(t *testing.T) {
	service, _ := setupLedger(t, "")

	_, err := service.Deposit(context.Background(), 404, moneypkg.NewFromInt(100))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
