// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountOwnerMismatch indicates that the account doesn't belong to the user.
	ErrAccountOwnerMismatch = errors.New("account doesn't belong to the user")
)

// Account holds user balance and interest schedule data.
type Account struct {
	ID                 int32          `json:"id"`
	Number             int64          `json:"number"`
	Owner              string         `json:"owner"`
	AccountTypeID      int32          `json:"account_type_id"`
	Type               AccountType    `json:"account_type"`
	Balance            moneypkg.Money `json:"balance"`
	InitialDepositDate *time.Time     `json:"initial_deposit_date,omitempty"`
	InterestStartDate  *time.Time     `json:"interest_start_date,omitempty"`
	LastInterestPeriod Period         `json:"last_interest_period"`
	CreatedAt          time.Time      `json:"created_at"`
}

// IsPostingMonth reports whether the account schedule posts interest in month.
func (a Account) IsPostingMonth(month time.Month) bool {
	if a.InterestStartDate == nil {
		return false
	}

	for _, m := range PostingMonths(a.InterestStartDate.Month(), a.Type.InterestCalculationPerYear) {
		if m == month {
			return true
		}
	}

	return false
}

// InterestDue reports whether the interest schedule has started by now
// and posts in the month now falls into.
func (a Account) InterestDue(now time.Time) bool {
	if a.InterestStartDate == nil || a.InterestStartDate.After(now) {
		return false
	}

	return a.IsPostingMonth(now.Month())
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Owner         string
	AccountTypeID int32
}
