// Package helpers provides random fixtures and db seeders shared by tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accounttyperepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// SeedAccountType creates random AccountType inside a test transaction.
func SeedAccountType(t *testing.T, tx dbpkg.SQLInterface) domain.AccountType {
	t.Helper()

	arg := domain.CreateAccountTypeParams{
		Name:                       randompkg.AccountTypeName(),
		MaximumWithdrawalAmount:    randompkg.Money(1000, 10_000),
		AnnualInterestRate:         randompkg.InterestRate(),
		InterestCalculationPerYear: randompkg.InterestCalculationPerYear(),
	}

	accountType, err := accounttyperepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountTypeRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return accountType
}

// SeedAccount opens an empty Account of the given type inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, owner string, accountTypeID int32) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{Owner: owner, AccountTypeID: accountTypeID}

	account, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedDeposit deposits amount to the account and records the transaction
// inside a test transaction. The first deposit starts the interest schedule.
func SeedDeposit(t *testing.T, tx dbpkg.SQLInterface, account domain.Account, amount string) domain.Transaction {
	t.Helper()

	ctx := context.Background()
	m := moneypkg.MustNew(amount)

	posting := domain.Posting{
		Type:    domain.Deposit,
		Amount:  m,
		Balance: account.Balance.Add(m),
	}

	if account.InitialDepositDate == nil {
		deposited := time.Now().UTC()
		start := deposited.AddDate(0, account.Type.InterestInterval(), 0)
		posting.InitialDepositDate = &deposited
		posting.InterestStartDate = &start
	}

	updated, err := accountrepo.NewRepoPGS(tx).ApplyPosting(ctx, account.ID, posting)
	if err != nil {
		t.Fatalf("accountRepo.ApplyPosting(ctx, %v, %+v) returned error: %v", account.ID, posting, err)
	}

	arg := domain.CreateTransactionParams{
		AccountID:               account.ID,
		Type:                    domain.Deposit,
		Amount:                  m,
		BalanceAfterTransaction: updated.Balance,
	}

	transaction, err := transactionrepo.NewRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		t.Fatalf("transactionRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return transaction
}

// SeedAccountWith1000Balance opens an Account with 1000 on balance inside a test transaction.
func SeedAccountWith1000Balance(t *testing.T, tx dbpkg.SQLInterface, owner string) domain.Account {
	t.Helper()

	accountType := SeedAccountType(t, tx)
	account := SeedAccount(t, tx, owner, accountType.ID)

	SeedDeposit(t, tx, account, "1000")

	account, err := accountrepo.NewRepoPGS(tx).Get(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(context.Background(), %v) returned error: %v", account.ID, err)
	}

	return account
}
