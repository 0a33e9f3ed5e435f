// Package accounttyperepo manages repository layer of account types.
package accounttyperepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account type repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account type RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    account_types (name, maximum_withdrawal_amount, annual_interest_rate, interest_calculation_per_year)
VALUES
    ($1, $2, $3, $4)
RETURNING id, name, maximum_withdrawal_amount, annual_interest_rate, interest_calculation_per_year, created_at
`

// Create creates the account type and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountTypeParams) (domain.AccountType, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Name,
		arg.MaximumWithdrawalAmount,
		arg.AnnualInterestRate,
		arg.InterestCalculationPerYear,
	)

	t, err := scan(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "account_types_name_key":
				return t, domain.ErrAccountTypeAlreadyExists
			case "account_types_interest_calculation_per_year_check":
				return t, domain.ErrInvalidInterestFrequency
			case "account_types_maximum_withdrawal_amount_check":
				return t, domain.ErrInvalidAmount
			case "account_types_annual_interest_rate_check":
				return t, domain.ErrInvalidInterestRate
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getByNameQuery = `
SELECT
	id, name, maximum_withdrawal_amount, annual_interest_rate, interest_calculation_per_year, created_at
FROM account_types
WHERE name = $1
`

// GetByName returns the account type with the given name.
func (r *RepoPGS) GetByName(ctx context.Context, name string) (domain.AccountType, error) {
	l := zerolog.Ctx(ctx)

	t, err := scan(r.db.QueryRowContext(ctx, getByNameQuery, name))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrAccountTypeNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	id, name, maximum_withdrawal_amount, annual_interest_rate, interest_calculation_per_year, created_at
FROM account_types
ORDER BY id
`

// List returns all account types.
func (r *RepoPGS) List(ctx context.Context) ([]domain.AccountType, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.AccountType{}

	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
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

func scan(row scanner) (domain.AccountType, error) {
	var t domain.AccountType

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.MaximumWithdrawalAmount,
		&t.AnnualInterestRate,
		&t.InterestCalculationPerYear,
		&t.CreatedAt,
	)

	return t, err
}
