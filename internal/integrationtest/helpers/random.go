package helpers

import (
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// RandomAccountType returns random account type.
func RandomAccountType() domain.AccountType {
	return domain.AccountType{
		ID:                         int32(randompkg.IntBetween(1, 100)),
		Name:                       randompkg.AccountTypeName(),
		MaximumWithdrawalAmount:    randompkg.Money(1000, 10_000),
		AnnualInterestRate:         randompkg.InterestRate(),
		InterestCalculationPerYear: randompkg.InterestCalculationPerYear(),
		CreatedAt:                  time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomAccount returns random account owned by the given owner.
func RandomAccount(owner string) domain.Account {
	t := RandomAccountType()
	deposited := time.Now().Truncate(time.Second).UTC()
	start := deposited.AddDate(0, t.InterestInterval(), 0)

	return domain.Account{
		ID:                 int32(randompkg.IntBetween(1, 100)),
		Number:             1_000_000_000 + randompkg.IntBetween(1, 1000),
		Owner:              owner,
		AccountTypeID:      t.ID,
		Type:               t,
		Balance:            randompkg.Money(1000, 10_000),
		InitialDepositDate: &deposited,
		InterestStartDate:  &start,
		CreatedAt:          time.Now().Truncate(time.Second).UTC(),
	}
}
