package domain

import (
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

var (
	// ErrInterestAlreadyPosted indicates that interest for the period was already posted.
	ErrInterestAlreadyPosted = errors.New("interest already posted for period")
	// ErrNoInterestDue indicates that the account accrued no interest.
	ErrNoInterestDue = errors.New("no interest due")
)

// Period is a calendar month encoded as YYYYMM.
type Period int32

// PeriodOf returns the period t falls into.
func PeriodOf(t time.Time) Period {
	return Period(t.Year()*100 + int(t.Month()))
}

// Month returns the calendar month of the period.
func (p Period) Month() time.Month {
	return time.Month(p % 100)
}

// Posting is a balance change decided against a locked account snapshot.
type Posting struct {
	Type    TransactionType
	Amount  moneypkg.Money
	Balance moneypkg.Money // balance after the posting

	// Set only by interest postings; advances the account interest cursor.
	InterestPeriod Period

	// Set only by the first deposit.
	InitialDepositDate *time.Time
	InterestStartDate  *time.Time
}

// ApplyFunc validates the locked account and returns the posting to persist.
//
// Returning an error aborts the posting without any write.
type ApplyFunc func(account Account) (Posting, error)

// PostingResult is the result of an atomic posting.
type PostingResult struct {
	Account     Account     `json:"account"`
	Transaction Transaction `json:"transaction"`
}

// InterestRun summarises one interest scheduler run.
type InterestRun struct {
	Period        Period         `json:"period"`
	RunAt         time.Time      `json:"run_at"`
	Candidates    int            `json:"candidates"`
	Posted        int            `json:"posted"`
	Skipped       int            `json:"skipped"`
	Failed        int            `json:"failed"`
	TotalInterest moneypkg.Money `json:"total_interest"`
}
