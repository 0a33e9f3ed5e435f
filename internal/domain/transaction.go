package domain

import (
	"errors"
	"time"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountBelowMinimum indicates that the amount is less than the configured minimum.
	ErrAmountBelowMinimum = errors.New("amount is below minimum")
	// ErrExceedsMaximumLimit indicates that the amount exceeds account type withdrawal limit.
	ErrExceedsMaximumLimit = errors.New("amount exceeds maximum withdrawal limit")
	// ErrInsufficientFunds indicates that the account does not have sufficient balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidDateRange indicates that the report range starts after it ends.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrBalanceMismatch indicates that stored balance differs from the ledger sum.
	ErrBalanceMismatch = errors.New("balance doesn't match transactions")
)

// TransactionType is the kind of balance change.
type TransactionType string

// Supported transaction types.
const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Interest   TransactionType = "interest"
)

// Transaction is an immutable ledger record of a balance change.
type Transaction struct {
	ID                      int64           `json:"id"`
	AccountID               int32           `json:"account_id"`
	Type                    TransactionType `json:"transaction_type"`
	Amount                  moneypkg.Money  `json:"amount"` // always positive, sign follows Type
	BalanceAfterTransaction moneypkg.Money  `json:"balance_after_transaction"`
	CreatedAt               time.Time       `json:"timestamp"`
}

// SignedAmount returns the amount with the sign of its effect on the balance.
func (t Transaction) SignedAmount() moneypkg.Money {
	if t.Type == Withdrawal {
		return t.Amount.Neg()
	}

	return t.Amount
}

// CreateTransactionParams is the input data to append a transaction.
type CreateTransactionParams struct {
	AccountID               int32
	Type                    TransactionType
	Amount                  moneypkg.Money
	BalanceAfterTransaction moneypkg.Money
}

// DateRange bounds a report by day. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls on a day within the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(startOfDay(*r.From)) {
		return false
	}

	if r.To != nil && !t.Before(startOfDay(*r.To).AddDate(0, 0, 1)) {
		return false
	}

	return true
}

// Validate checks that the range doesn't end before it starts.
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && startOfDay(*r.From).After(startOfDay(*r.To)) {
		return ErrInvalidDateRange
	}

	return nil
}

// Bounds returns the half-open [from, to) instants of the range.
func (r DateRange) Bounds() (from, to *time.Time) {
	if r.From != nil {
		f := startOfDay(*r.From)
		from = &f
	}

	if r.To != nil {
		t := startOfDay(*r.To).AddDate(0, 0, 1)
		to = &t
	}

	return from, to
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Statement is the account report: account snapshot and its filtered ledger.
type Statement struct {
	Account         Account        `json:"account"`
	Transactions    []Transaction  `json:"transactions"`
	ComputedBalance moneypkg.Money `json:"computed_balance"`
}
