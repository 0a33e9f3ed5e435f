package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestDateRange(t *testing.T) {
	from := day(2023, time.March, 1, 15)
	to := day(2023, time.March, 3, 1)

	testCases := []struct {
		name string
		rng  DateRange
		at   time.Time
		want bool
	}{
		{name: "Open", rng: DateRange{}, at: day(1999, time.January, 1, 0), want: true},
		{name: "FromDayStart", rng: DateRange{From: &from}, at: day(2023, time.March, 1, 0), want: true},
		{name: "BeforeFrom", rng: DateRange{From: &from}, at: day(2023, time.February, 28, 23), want: false},
		{name: "ToDayEnd", rng: DateRange{To: &to}, at: time.Date(2023, time.March, 3, 23, 59, 59, 0, time.UTC), want: true},
		{name: "AfterTo", rng: DateRange{To: &to}, at: day(2023, time.March, 4, 0), want: false},
		{name: "Within", rng: DateRange{From: &from, To: &to}, at: day(2023, time.March, 2, 12), want: true},
	}

	for _, tc := range testCases {
		if got := tc.rng.Contains(tc.at); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestDateRangeValidate(t *testing.T) {
	earlier := day(2023, time.March, 1, 23)
	later := day(2023, time.March, 2, 0)
	sameDay := day(2023, time.March, 1, 1)

	if err := (DateRange{From: &earlier, To: &later}).Validate(); err != nil {
		t.Errorf("Validate(ordered) returned error: %v", err)
	}

	if err := (DateRange{From: &earlier, To: &sameDay}).Validate(); err != nil {
		t.Errorf("Validate(same day) returned error: %v", err)
	}

	if err := (DateRange{From: &later, To: &earlier}).Validate(); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("Validate(reversed) returned error %v, want %v", err, ErrInvalidDateRange)
	}
}

func TestDateRangeBounds(t *testing.T) {
	at := day(2023, time.March, 1, 15)

	from, to := DateRange{From: &at, To: &at}.Bounds()

	if want := day(2023, time.March, 1, 0); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}

	if want := day(2023, time.March, 2, 0); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}

	from, to = DateRange{}.Bounds()
	if from != nil || to != nil {
		t.Errorf("Bounds() of an open range = %v, %v, want nil, nil", from, to)
	}
}

func TestPeriod(t *testing.T) {
	p := PeriodOf(day(2023, time.November, 30, 23))

	if p != 202311 {
		t.Errorf("PeriodOf = %v, want 202311", p)
	}

	if p.Month() != time.November {
		t.Errorf("Month() = %v, want November", p.Month())
	}

	if PeriodOf(day(2024, time.January, 1, 0)) <= p {
		t.Error("periods of later months must compare greater")
	}
}

func TestInterestOn(t *testing.T) {
	testCases := []struct {
		name    string
		balance string
		rate    string
		perYear int32
		want    string
	}{
		{name: "Monthly", balance: "1000.00", rate: "5", perYear: 12, want: "4.17"},
		{name: "Quarterly", balance: "1000.00", rate: "5", perYear: 4, want: "12.50"},
		{name: "Yearly", balance: "99.99", rate: "1.5", perYear: 1, want: "1.50"},
		{name: "RoundsToZero", balance: "0.50", rate: "5", perYear: 12, want: "0.00"},
		{name: "ZeroRate", balance: "1000.00", rate: "0", perYear: 12, want: "0.00"},
	}

	for _, tc := range testCases {
		accountType := AccountType{
			AnnualInterestRate:         decimal.RequireFromString(tc.rate),
			InterestCalculationPerYear: tc.perYear,
		}

		got := accountType.InterestOn(moneypkg.MustNew(tc.balance))
		if got.String() != tc.want {
			t.Errorf("%s: InterestOn(%v) = %v, want %v", tc.name, tc.balance, got, tc.want)
		}
	}
}

func TestInterestInterval(t *testing.T) {
	for perYear, want := range map[int32]int{1: 12, 2: 6, 3: 4, 4: 3, 6: 2, 12: 1, 0: 12} {
		if got := (AccountType{InterestCalculationPerYear: perYear}).InterestInterval(); got != want {
			t.Errorf("InterestInterval() with %v per year = %v, want %v", perYear, got, want)
		}
	}
}

func TestCreateAccountTypeParamsValidate(t *testing.T) {
	valid := CreateAccountTypeParams{
		Name:                       "Saving",
		MaximumWithdrawalAmount:    moneypkg.NewFromInt(5000),
		AnnualInterestRate:         decimal.RequireFromString("5"),
		InterestCalculationPerYear: 12,
	}

	testCases := []struct {
		name    string
		modify  func(p *CreateAccountTypeParams)
		wantErr error
	}{
		{name: "OK", modify: func(p *CreateAccountTypeParams) {}},
		{name: "ZeroFrequency", modify: func(p *CreateAccountTypeParams) { p.InterestCalculationPerYear = 0 }, wantErr: ErrInvalidInterestFrequency},
		{name: "UnevenFrequency", modify: func(p *CreateAccountTypeParams) { p.InterestCalculationPerYear = 5 }, wantErr: ErrInvalidInterestFrequency},
		{name: "TooFrequent", modify: func(p *CreateAccountTypeParams) { p.InterestCalculationPerYear = 24 }, wantErr: ErrInvalidInterestFrequency},
		{name: "NegativeRate", modify: func(p *CreateAccountTypeParams) { p.AnnualInterestRate = decimal.NewFromInt(-1) }, wantErr: ErrInvalidInterestRate},
		{name: "ZeroLimit", modify: func(p *CreateAccountTypeParams) { p.MaximumWithdrawalAmount = moneypkg.Zero }, wantErr: ErrInvalidAmount},
	}

	for _, tc := range testCases {
		p := valid
		tc.modify(&p)

		if err := p.Validate(); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: Validate() returned error %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	amount := moneypkg.MustNew("12.34")

	for kind, want := range map[TransactionType]string{Deposit: "12.34", Interest: "12.34", Withdrawal: "-12.34"} {
		got := Transaction{Type: kind, Amount: amount}.SignedAmount()
		if got.String() != want {
			t.Errorf("SignedAmount() of %v = %v, want %v", kind, got, want)
		}
	}
}

func TestPostingMonths(t *testing.T) {
	testCases := []struct {
		name    string
		start   time.Month
		perYear int32
		want    []time.Month
	}{
		{
			name:    "Monthly",
			start:   time.January,
			perYear: 12,
			want: []time.Month{
				time.January, time.February, time.March, time.April, time.May, time.June,
				time.July, time.August, time.September, time.October, time.November, time.December,
			},
		},
		{
			name:    "QuarterlyFromMarch",
			start:   time.March,
			perYear: 4,
			want:    []time.Month{time.March, time.June, time.September, time.December},
		},
		{
			name:    "QuarterlyWrapsYear",
			start:   time.November,
			perYear: 4,
			want:    []time.Month{time.November, time.February, time.May, time.August},
		},
		{
			name:    "HalfYearly",
			start:   time.August,
			perYear: 2,
			want:    []time.Month{time.August, time.February},
		},
		{
			name:    "Yearly",
			start:   time.July,
			perYear: 1,
			want:    []time.Month{time.July},
		},
		{
			name:    "DoesNotDivideYear",
			start:   time.January,
			perYear: 5,
		},
		{
			name:    "Zero",
			start:   time.January,
			perYear: 0,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := PostingMonths(tc.start, tc.perYear)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("PostingMonths(%v, %v) returned unexpected difference (-want +got):\n%s",
					tc.start, tc.perYear, diff)
			}
		})
	}
}

func TestAccountIsPostingMonth(t *testing.T) {
	start := time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC)

	quarterly := Account{
		InterestStartDate: &start,
		Type:              AccountType{InterestCalculationPerYear: 4},
	}

	testCases := []struct {
		name    string
		account Account
		month   time.Month
		want    bool
	}{
		{name: "StartMonth", account: quarterly, month: time.November, want: true},
		{name: "AfterWrap", account: quarterly, month: time.February, want: true},
		{name: "OffSchedule", account: quarterly, month: time.December, want: false},
		{name: "NoStartDate", account: Account{Type: quarterly.Type}, month: time.November, want: false},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.account.IsPostingMonth(tc.month); got != tc.want {
				t.Errorf("account.IsPostingMonth(%v) = %v, want %v", tc.month, got, tc.want)
			}
		})
	}
}

func TestAccountInterestDue(t *testing.T) {
	start := day(2026, time.March, 20, 0)

	monthly := Account{
		InterestStartDate: &start,
		Type:              AccountType{InterestCalculationPerYear: 12},
	}
	yearly := Account{
		InterestStartDate: &start,
		Type:              AccountType{InterestCalculationPerYear: 1},
	}

	testCases := []struct {
		name    string
		account Account
		now     time.Time
		want    bool
	}{
		{name: "OnStartDate", account: monthly, now: start, want: true},
		{name: "LaterMonth", account: monthly, now: day(2026, time.May, 1, 2), want: true},
		{name: "StartMonthBeforeStartDate", account: monthly, now: day(2026, time.March, 1, 2), want: false},
		{name: "BeforeStart", account: monthly, now: day(2026, time.February, 1, 2), want: false},
		{name: "OffSchedule", account: yearly, now: day(2026, time.April, 1, 2), want: false},
		{name: "NextYear", account: yearly, now: day(2027, time.March, 1, 2), want: true},
		{name: "NoStartDate", account: Account{Type: monthly.Type}, now: start, want: false},
	}

	for _, tc := range testCases {
		if got := tc.account.InterestDue(tc.now); got != tc.want {
			t.Errorf("%s: InterestDue(%v) = %v, want %v", tc.name, tc.now, got, tc.want)
		}
	}
}
