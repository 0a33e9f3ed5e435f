//go:build integration

package accounttyperepo_test

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accounttyperepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	valid := func() domain.CreateAccountTypeParams {
		return domain.CreateAccountTypeParams{
			Name:                       randompkg.AccountTypeName(),
			MaximumWithdrawalAmount:    moneypkg.MustNew("2500.00"),
			AnnualInterestRate:         decimal.RequireFromString("3.25"),
			InterestCalculationPerYear: 4,
		}
	}

	testCases := []struct {
		name    string
		arg     func(tx *sql.Tx) domain.CreateAccountTypeParams
		wantErr error
	}{
		{
			name: "OK",
			arg: func(tx *sql.Tx) domain.CreateAccountTypeParams {
				return valid()
			},
		},
		{
			name: "ErrAccountTypeAlreadyExists",
			arg: func(tx *sql.Tx) domain.CreateAccountTypeParams {
				arg := valid()
				arg.Name = helpers.SeedAccountType(t, tx).Name
				return arg
			},
			wantErr: domain.ErrAccountTypeAlreadyExists,
		},
		{
			name: "ErrInvalidInterestFrequency",
			arg: func(tx *sql.Tx) domain.CreateAccountTypeParams {
				arg := valid()
				arg.InterestCalculationPerYear = 5
				return arg
			},
			wantErr: domain.ErrInvalidInterestFrequency,
		},
		{
			name: "ErrInvalidAmount",
			arg: func(tx *sql.Tx) domain.CreateAccountTypeParams {
				arg := valid()
				arg.MaximumWithdrawalAmount = moneypkg.Zero
				return arg
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "ErrInvalidInterestRate",
			arg: func(tx *sql.Tx) domain.CreateAccountTypeParams {
				arg := valid()
				arg.AnnualInterestRate = decimal.RequireFromString("-1")
				return arg
			},
			wantErr: domain.ErrInvalidInterestRate,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			arg := tc.arg(tx)

			got, err := accounttyperepo.NewRepoPGS(tx).Create(context.Background(), arg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("repo.Create(ctx, %+v) returned error %v, want %v", arg, err, tc.wantErr)
			}

			if tc.wantErr != nil {
				return
			}

			want := domain.AccountType{
				Name:                       arg.Name,
				MaximumWithdrawalAmount:    arg.MaximumWithdrawalAmount,
				AnnualInterestRate:         arg.AnnualInterestRate,
				InterestCalculationPerYear: arg.InterestCalculationPerYear,
				CreatedAt:                  time.Now().UTC(),
			}

			ignoreID := cmpopts.IgnoreFields(domain.AccountType{}, "ID")
			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)

			if diff := cmp.Diff(want, got, ignoreID, compareCreatedAt); diff != "" {
				t.Errorf("repo.Create(ctx, %+v) returned unexpected difference (-want +got):\n%s", arg, diff)
			}
		})
	}
}

func TestGetByName(t *testing.T) {
	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accounttyperepo.NewRepoPGS(tx)
	want := helpers.SeedAccountType(t, tx)

	got, err := repo.GetByName(context.Background(), want.Name)
	if err != nil {
		t.Fatalf("repo.GetByName(ctx, %v) returned error: %v", want.Name, err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("repo.GetByName(ctx, %v) returned unexpected difference (-want +got):\n%s", want.Name, diff)
	}

	if _, err := repo.GetByName(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountTypeNotFound) {
		t.Errorf(`repo.GetByName(ctx, "missing") returned error %v, want %v`, err, domain.ErrAccountTypeNotFound)
	}
}

func TestList(t *testing.T) {
	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	seeded := helpers.SeedAccountType(t, tx)

	got, err := accounttyperepo.NewRepoPGS(tx).List(context.Background())
	if err != nil {
		t.Fatalf("repo.List(ctx) returned error: %v", err)
	}

	names := make(map[string]bool, len(got))
	for _, accountType := range got {
		names[accountType.Name] = true
	}

	for _, name := range []string{"Saving", "Current", seeded.Name} {
		if !names[name] {
			t.Errorf("repo.List(ctx) is missing account type %q", name)
		}
	}
}
