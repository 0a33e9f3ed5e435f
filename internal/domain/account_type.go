package domain

import (
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountTypeNotFound indicates that the account type is not found.
	ErrAccountTypeNotFound = errors.New("account type not found")
	// ErrAccountTypeAlreadyExists indicates that the account type with the given name already exists.
	ErrAccountTypeAlreadyExists = errors.New("account type already exists")
	// ErrInvalidInterestFrequency indicates that interest postings can't be spread evenly over a year.
	ErrInvalidInterestFrequency = errors.New("interest calculation per year must divide 12")
	// ErrInvalidInterestRate indicates negative interest rate.
	ErrInvalidInterestRate = errors.New("invalid interest rate")
)

// MonthsPerYear is the number of posting slots interest calculations are spread over.
const MonthsPerYear = 12

// AccountType holds withdrawal and interest rules shared by accounts.
type AccountType struct {
	ID                         int32           `json:"id"`
	Name                       string          `json:"name"`
	MaximumWithdrawalAmount    moneypkg.Money  `json:"maximum_withdrawal_amount"`
	AnnualInterestRate         decimal.Decimal `json:"annual_interest_rate"`
	InterestCalculationPerYear int32           `json:"interest_calculation_per_year"`
	CreatedAt                  time.Time       `json:"created_at"`
}

// InterestInterval returns the number of months between two interest postings.
func (t AccountType) InterestInterval() int {
	if t.InterestCalculationPerYear <= 0 {
		return MonthsPerYear
	}

	return MonthsPerYear / int(t.InterestCalculationPerYear)
}

// PostingMonths returns the months interest is posted in, evenly spaced
// through the year starting at the start month.
func PostingMonths(start time.Month, perYear int32) []time.Month {
	if perYear <= 0 || perYear > MonthsPerYear || MonthsPerYear%perYear != 0 {
		return nil
	}

	interval := MonthsPerYear / int(perYear)
	months := make([]time.Month, 0, perYear)

	for i := 0; i < int(perYear); i++ {
		m := (int(start)-1+i*interval)%MonthsPerYear + 1
		months = append(months, time.Month(m))
	}

	return months
}

// CreateAccountTypeParams is the input data to create an account type.
type CreateAccountTypeParams struct {
	Name                       string          `json:"name"`
	MaximumWithdrawalAmount    moneypkg.Money  `json:"maximum_withdrawal_amount"`
	AnnualInterestRate         decimal.Decimal `json:"annual_interest_rate"`
	InterestCalculationPerYear int32           `json:"interest_calculation_per_year"`
}

// Validate checks the account type rules.
func (p CreateAccountTypeParams) Validate() error {
	n := p.InterestCalculationPerYear
	if n <= 0 || n > MonthsPerYear || MonthsPerYear%n != 0 {
		return ErrInvalidInterestFrequency
	}

	if p.AnnualInterestRate.IsNegative() {
		return ErrInvalidInterestRate
	}

	if !p.MaximumWithdrawalAmount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

// InterestOn returns the interest accrued on balance for one posting period.
//
// interest = balance * annual rate / (postings per year * 100), rounded once to the cent.
func (t AccountType) InterestOn(balance moneypkg.Money) moneypkg.Money {
	n := int64(t.InterestCalculationPerYear)
	if n <= 0 {
		n = 1
	}

	return balance.MulRate(t.AnnualInterestRate, n*100)
}
