// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `
	a.id, a.number, a.owner, a.account_type_id, a.balance,
	a.initial_deposit_date, a.interest_start_date, a.last_interest_period, a.created_at,
	t.id, t.name, t.maximum_withdrawal_amount, t.annual_interest_rate,
	t.interest_calculation_per_year, t.created_at
`

const createQuery = `
WITH a AS (
	INSERT INTO accounts (owner, account_type_id)
	VALUES ($1, $2)
	RETURNING *
)
SELECT ` + accountColumns + `
FROM a
JOIN account_types t ON t.id = a.account_type_id
`

// Create opens an account with zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scan(r.db.QueryRowContext(ctx, createQuery, arg.Owner, arg.AccountTypeID))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_account_type_id_fkey" {
				return a, domain.ErrAccountTypeNotFound
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE a.id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	return r.get(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `
FOR UPDATE OF a
`

// GetForUpdate returns the account with the given id and locks its row
// until the surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int32) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const applyPostingQuery = `
WITH a AS (
	UPDATE accounts
	SET
		balance = $2,
		initial_deposit_date = COALESCE(initial_deposit_date, $3),
		interest_start_date = COALESCE(interest_start_date, $4),
		last_interest_period = GREATEST(last_interest_period, $5)
	WHERE id = $1
	RETURNING *
)
SELECT ` + accountColumns + `
FROM a
JOIN account_types t ON t.id = a.account_type_id
`

// ApplyPosting writes the posting's balance and schedule changes and returns
// the changed account.
func (r *RepoPGS) ApplyPosting(ctx context.Context, id int32, p domain.Posting) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, applyPostingQuery,
		id,
		p.Balance,
		nullTime(p.InitialDepositDate),
		nullTime(p.InterestStartDate),
		int32(p.InterestPeriod),
	)

	a, err := scan(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT ` + accountColumns + `
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE a.owner = $1
ORDER BY a.id
LIMIT $2
OFFSET $3
`

// List returns the specified number of accounts for the given owner.
func (r *RepoPGS) List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return collect(ctx, rows)
}

const listInterestCandidatesQuery = `
SELECT ` + accountColumns + `
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE
	a.balance > 0
	AND a.initial_deposit_date IS NOT NULL
	AND a.interest_start_date <= $1
	AND a.last_interest_period < $2
ORDER BY a.id
`

// ListInterestCandidates returns accounts that may accrue interest for the period.
func (r *RepoPGS) ListInterestCandidates(ctx context.Context, now time.Time, period domain.Period) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listInterestCandidatesQuery, now, int32(period))
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return collect(ctx, rows)
}

func collect(ctx context.Context, rows *sql.Rows) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (domain.Account, error) {
	var (
		a                                 domain.Account
		initialDeposit, interestStartDate sql.NullTime
		lastPeriod                        int32
	)

	err := row.Scan(
		&a.ID,
		&a.Number,
		&a.Owner,
		&a.AccountTypeID,
		&a.Balance,
		&initialDeposit,
		&interestStartDate,
		&lastPeriod,
		&a.CreatedAt,
		&a.Type.ID,
		&a.Type.Name,
		&a.Type.MaximumWithdrawalAmount,
		&a.Type.AnnualInterestRate,
		&a.Type.InterestCalculationPerYear,
		&a.Type.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}

	if initialDeposit.Valid {
		a.InitialDepositDate = &initialDeposit.Time
	}

	if interestStartDate.Valid {
		a.InterestStartDate = &interestStartDate.Time
	}

	a.LastInterestPeriod = domain.Period(lastPeriod)

	return a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
