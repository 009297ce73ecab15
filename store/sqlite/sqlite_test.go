package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compensation-engine/eligibility"
	"github.com/warp/compensation-engine/generic"
	"github.com/warp/compensation-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmployee_NullableFieldsRoundTrip(t *testing.T) {
	// GIVEN: an employee with salary and hire date but no credit data
	s := newStore(t)
	ctx := context.Background()
	salary := decimal.NewFromInt(45000)
	hire := generic.NewTimePoint(2022, time.March, 1)

	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{
		ID:           "emp-1",
		Name:         "Amara Perera",
		Department:   "Engineering",
		AnnualSalary: &salary,
		HireDate:     &hire,
	}))

	// WHEN: the profile record is loaded
	rec, err := s.GetFinancialProfile(ctx, "emp-1")
	require.NoError(t, err)

	// THEN: present fields survive and missing fields are nil
	require.NotNil(t, rec.AnnualSalary)
	assert.True(t, rec.AnnualSalary.Equal(salary))
	require.NotNil(t, rec.HireDate)
	assert.True(t, rec.HireDate.Equal(hire))
	assert.Nil(t, rec.CreditScore)
	assert.Nil(t, rec.ExistingLoanBalance)
	assert.Nil(t, rec.BirthDate)
	assert.Equal(t, "Engineering", rec.Department)
}

func TestEmployee_Upsert(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	score := 640

	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "Old Name"}))
	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "New Name", CreditScore: &score}))

	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "New Name", emps[0].Name)
	require.NotNil(t, emps[0].CreditScore)
	assert.Equal(t, 640, *emps[0].CreditScore)
}

func TestEmployee_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetFinancialProfile(context.Background(), "ghost")

	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

func TestContributions_AppendOnlyLedger(t *testing.T) {
	// GIVEN: an employee with two recorded months
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "A"}))

	entry := func(id string, month time.Month) generic.ContributionEntry {
		return generic.ContributionEntry{
			ID:          id,
			EmployeeID:  "emp-1",
			Period:      generic.StartOfMonth(2025, month),
			EPFEmployee: decimal.NewFromInt(100),
			EPFEmployer: decimal.NewFromInt(100),
			ETF:         decimal.NewFromInt(25),
		}
	}
	require.NoError(t, s.AppendContribution(ctx, entry("c-2", time.February)))
	require.NoError(t, s.AppendContribution(ctx, entry("c-1", time.January)))

	// WHEN: the same month is recorded again
	err := s.AppendContribution(ctx, entry("c-3", time.January))

	// THEN: it is rejected and the ledger is ordered by period
	assert.ErrorIs(t, err, generic.ErrDuplicateContribution)

	ledger, err := s.GetLedger(ctx, "emp-1")
	require.NoError(t, err)
	require.Equal(t, 2, ledger.Len())
	assert.Equal(t, time.January, ledger.Entries[0].Period.Month())
	assert.True(t, ledger.Entries[1].EPFTotal().Equal(decimal.NewFromInt(200)))
}

func TestContributions_EmptyLedger(t *testing.T) {
	s := newStore(t)

	ledger, err := s.GetLedger(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestLoanTypes_Seeded(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	types, err := s.ListLoanTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(sqlite.DefaultLoanTypes()))

	lt, err := s.GetLoanType(ctx, "housing")
	require.NoError(t, err)
	assert.Equal(t, "Housing Loan", lt.Name)

	_, err = s.GetLoanType(ctx, "yacht")
	assert.ErrorIs(t, err, generic.ErrLoanTypeNotFound)
}

func TestEvaluations_SaveAndList(t *testing.T) {
	// GIVEN: two stored evaluations for one employee
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "A"}))

	ratio := decimal.RequireFromString("1.2")
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	older := eligibility.Record{
		ID:            "ev-1",
		PolicyVersion: "default",
		CreatedAt:     base,
		Result: eligibility.Result{
			EmployeeID:           "emp-1",
			LoanType:             "personal",
			Score:                85,
			Level:                generic.LevelHigh,
			Factors:              []eligibility.Factor{{Name: eligibility.FactorSalary, Status: eligibility.StatusGood, Points: 25}},
			DebtToIncomeRatio:    &ratio,
			MaxRecommendedAmount: decimal.NewFromInt(135000),
			RequestedAmount:      decimal.NewFromInt(30000),
			Approved:             true,
		},
	}
	newer := older
	newer.ID = "ev-2"
	newer.CreatedAt = base.Add(time.Hour)
	newer.DebtToIncomeRatio = nil
	newer.Approved = false

	require.NoError(t, s.SaveEvaluation(ctx, older))
	require.NoError(t, s.SaveEvaluation(ctx, newer))

	// WHEN: they are listed
	records, err := s.ListEvaluations(ctx, "emp-1")
	require.NoError(t, err)

	// THEN: newest first, all fields restored
	require.Len(t, records, 2)
	assert.Equal(t, "ev-2", records[0].ID)
	assert.Nil(t, records[0].DebtToIncomeRatio)
	assert.False(t, records[0].Approved)

	got := records[1]
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, generic.LevelHigh, got.Level)
	assert.True(t, got.Approved)
	require.NotNil(t, got.DebtToIncomeRatio)
	assert.True(t, got.DebtToIncomeRatio.Equal(ratio))
	assert.True(t, got.MaxRecommendedAmount.Equal(decimal.NewFromInt(135000)))
	assert.Equal(t, older.Factors, got.Factors)
	assert.True(t, got.CreatedAt.Equal(base))
}

func TestEvaluations_SubSecondOrdering(t *testing.T) {
	// GIVEN: evaluations saved a tenth of a second apart, the first on a whole second
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "A"}))

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	record := func(id string, at time.Time) eligibility.Record {
		return eligibility.Record{
			ID:        id,
			CreatedAt: at,
			Result: eligibility.Result{
				EmployeeID:           "emp-1",
				LoanType:             "personal",
				Level:                generic.LevelLow,
				MaxRecommendedAmount: decimal.Zero,
				RequestedAmount:      decimal.NewFromInt(1000),
			},
		}
	}
	require.NoError(t, s.SaveEvaluation(ctx, record("ev-whole", base)))
	require.NoError(t, s.SaveEvaluation(ctx, record("ev-tenth", base.Add(100*time.Millisecond))))
	require.NoError(t, s.SaveEvaluation(ctx, record("ev-nano", base.Add(100*time.Millisecond+7))))

	// WHEN: they are listed
	records, err := s.ListEvaluations(ctx, "emp-1")
	require.NoError(t, err)

	// THEN: newest first, timestamps intact to the nanosecond
	require.Len(t, records, 3)
	assert.Equal(t, "ev-nano", records[0].ID)
	assert.Equal(t, "ev-tenth", records[1].ID)
	assert.Equal(t, "ev-whole", records[2].ID)
	assert.True(t, records[0].CreatedAt.Equal(base.Add(100*time.Millisecond+7)))
}

func TestReset_ClearsEmployeeData(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "A"}))

	require.NoError(t, s.Reset(ctx))

	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, emps)

	types, err := s.ListLoanTypes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, types)
}
