// Package ledgerrepo manages the atomic posting boundary of the ledger.
package ledgerrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates posting repository layer logic.
type RepoPGS struct {
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
	conn         *sql.DB
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		accounts:     accountrepo.NewRepoPGS(db),
		transactions: transactionrepo.NewRepoPGS(db),
		conn:         db,
	}
}

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	return r.accounts.Get(ctx, id)
}

// ListInterestCandidates returns accounts that may accrue interest for the period.
func (r *RepoPGS) ListInterestCandidates(ctx context.Context, now time.Time, period domain.Period) ([]domain.Account, error) {
	return r.accounts.ListInterestCandidates(ctx, now, period)
}

// ListTransactions returns the account transactions within rng in
// chronological order.
func (r *RepoPGS) ListTransactions(ctx context.Context, accountID int32, rng domain.DateRange) ([]domain.Transaction, error) {
	var items []domain.Transaction

	err := r.read(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		if _, err := accounts.Get(ctx, accountID); err != nil {
			return err
		}

		from, to := rng.Bounds()

		var err error
		items, err = transactions.List(ctx, accountID, from, to)

		return err
	})

	return items, err
}

// Snapshot returns the account together with its whole ledger as of a single
// point in time.
func (r *RepoPGS) Snapshot(ctx context.Context, accountID int32) (domain.Account, []domain.Transaction, error) {
	var (
		account domain.Account
		items   []domain.Transaction
	)

	err := r.read(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		var err error

		account, err = accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}

		items, err = transactions.List(ctx, accountID, nil, nil)

		return err
	})
	if err != nil {
		return domain.Account{}, nil, err
	}

	return account, items, nil
}

// read runs fn within a read only repeatable read transaction so every
// statement sees the same committed state.
func (r *RepoPGS) read(ctx context.Context, fn func(*accountrepo.RepoPGS, *transactionrepo.RepoPGS) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := dbpkg.Rollback(tx); err != nil {
			l.Error().Err(err).Send()
		}
	}()

	if err := fn(accountrepo.NewRepoPGS(tx), transactionrepo.NewRepoPGS(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Post applies a balance change to the account.
//
// It locks the account row, lets apply validate the locked snapshot, updates
// the balance and appends the transaction within a single db transaction.
// Nothing is written when apply or any statement fails.
func (r *RepoPGS) Post(ctx context.Context, accountID int32, apply domain.ApplyFunc) (domain.PostingResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PostingResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := dbpkg.Rollback(tx); err != nil {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	transactionRepo := transactionrepo.NewRepoPGS(tx)

	account, err := accountRepo.GetForUpdate(ctx, accountID)
	if err != nil {
		return result, err
	}

	posting, err := apply(account)
	if err != nil {
		return result, err
	}

	result.Account, err = accountRepo.ApplyPosting(ctx, accountID, posting)
	if err != nil {
		return domain.PostingResult{}, err
	}

	result.Transaction, err = transactionRepo.Create(ctx, domain.CreateTransactionParams{
		AccountID:               accountID,
		Type:                    posting.Type,
		Amount:                  posting.Amount,
		BalanceAfterTransaction: result.Account.Balance,
	})
	if err != nil {
		return domain.PostingResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.PostingResult{}, errorspkg.ErrInternal
	}

	return result, nil
}
