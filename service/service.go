/*
Package service is the application layer around the decision engine.

PURPOSE:
  Each operation follows the same shape:
    1. Resolve references through repository interfaces (employee, loan type)
    2. Normalize the nullable ProfileRecord once
    3. Call a calculator with typed values
    4. Persist or return the result

  The calculators in eligibility, compensation and contribution never touch
  storage. Everything with a context.Context lives here.

ERRORS:
  Validation failures are *generic.ValidationError (400 at the API).
  Unresolvable employees and loan types are *generic.NotFoundError (404).
  A Low eligibility tier is a normal result.

CLOCK:
  "Today" is injected (WithClock) so tenure, ages and increment progress
  are reproducible in tests.

SEE ALSO:
  - generic/store.go: Repository interfaces
  - api/handlers.go: HTTP adapter over this package
*/
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/compensation"
	"github.com/warp/compensation-engine/contribution"
	"github.com/warp/compensation-engine/eligibility"
	"github.com/warp/compensation-engine/generic"
)

// DefaultRetirementAge is used when a contribution summary names no retirement age.
const DefaultRetirementAge = 55

// DefaultLoanType is used by eligibility previews that name no loan type.
const DefaultLoanType generic.LoanType = "personal"

// EvaluationStore persists loan evaluations alongside the loan request.
type EvaluationStore interface {
	SaveEvaluation(ctx context.Context, r eligibility.Record) error
	ListEvaluations(ctx context.Context, employeeID generic.EmployeeID) ([]eligibility.Record, error)
}

// profileInvalidator is implemented by caching employee repositories.
type profileInvalidator interface {
	Invalidate(ctx context.Context, id generic.EmployeeID)
}

// Deps are the repositories the service reads and writes.
type Deps struct {
	Employees     generic.EmployeeRepository
	Contributions generic.ContributionRepository
	Ledger        generic.ContributionWriter
	LoanTypes     generic.LoanTypeRepository
	Evaluations   EvaluationStore
}

// Service orchestrates repositories and calculators.
type Service struct {
	deps       Deps
	policy     generic.DecisionPolicy
	scorer     *eligibility.Scorer
	calculator *compensation.Calculator
	projector  *contribution.Projector
	today      func() generic.TimePoint
	now        func() time.Time
}

// New creates a service bound to policy.
func New(policy generic.DecisionPolicy, deps Deps) *Service {
	return &Service{
		deps:       deps,
		policy:     policy.Clone(),
		scorer:     eligibility.NewScorer(policy),
		calculator: compensation.NewCalculator(policy),
		projector:  contribution.NewProjector(policy),
		today:      generic.Today,
		now:        time.Now,
	}
}

// WithClock fixes the service clock. Used by tests and demo scenarios.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.today = func() generic.TimePoint { return generic.FromTime(now()) }
	return s
}

// Policy returns a copy of the active decision policy.
func (s *Service) Policy() generic.DecisionPolicy {
	return s.policy.Clone()
}

// Today returns the service's notion of the current date.
func (s *Service) Today() generic.TimePoint {
	return s.today()
}

// EmployeeChanged drops any cached profile for id. Call after writing an employee.
func (s *Service) EmployeeChanged(ctx context.Context, id generic.EmployeeID) {
	if inv, ok := s.deps.Employees.(profileInvalidator); ok {
		inv.Invalidate(ctx, id)
	}
}

// =============================================================================
// LOAN ELIGIBILITY
// =============================================================================

// LoanRequest is a loan application for an employee.
type LoanRequest struct {
	EmployeeID generic.EmployeeID
	LoanType   generic.LoanType
	Amount     decimal.Decimal
}

// EvaluateLoan scores a loan request and persists the evaluation.
func (s *Service) EvaluateLoan(ctx context.Context, req LoanRequest) (eligibility.Record, error) {
	if !req.Amount.IsPositive() {
		return eligibility.Record{}, &generic.ValidationError{Field: "amount", Value: req.Amount.String(), Reason: "must be positive"}
	}

	result, err := s.evaluate(ctx, req.EmployeeID, req.Amount, req.LoanType)
	if err != nil {
		return eligibility.Record{}, err
	}

	record := eligibility.Record{
		ID:            uuid.New().String(),
		PolicyVersion: s.policy.Version,
		CreatedAt:     s.now().UTC(),
		Result:        result,
	}
	if err := s.deps.Evaluations.SaveEvaluation(ctx, record); err != nil {
		log.Printf("service: failed to persist evaluation for %s: %v", req.EmployeeID, err)
		return eligibility.Record{}, fmt.Errorf("failed to persist evaluation: %w", err)
	}

	log.Printf("service: loan evaluation %s employee=%s type=%s score=%d level=%s approved=%t",
		record.ID, record.EmployeeID, record.LoanType, record.Score, record.Level, record.Approved)
	return record, nil
}

// PreviewEligibility scores a hypothetical request without persisting it.
// A zero amount previews the maximum recommended amount.
func (s *Service) PreviewEligibility(ctx context.Context, id generic.EmployeeID, amount decimal.Decimal, loanType generic.LoanType) (eligibility.Result, error) {
	if amount.IsNegative() {
		return eligibility.Result{}, &generic.ValidationError{Field: "amount", Value: amount.String(), Reason: "must not be negative"}
	}
	if loanType == "" {
		loanType = DefaultLoanType
	}
	return s.evaluate(ctx, id, amount, loanType)
}

// ListEvaluations returns an employee's persisted evaluations, newest first.
func (s *Service) ListEvaluations(ctx context.Context, id generic.EmployeeID) ([]eligibility.Record, error) {
	if _, err := s.deps.Employees.GetFinancialProfile(ctx, id); err != nil {
		return nil, err
	}
	return s.deps.Evaluations.ListEvaluations(ctx, id)
}

func (s *Service) evaluate(ctx context.Context, id generic.EmployeeID, amount decimal.Decimal, loanType generic.LoanType) (eligibility.Result, error) {
	if _, err := s.deps.LoanTypes.GetLoanType(ctx, loanType); err != nil {
		return eligibility.Result{}, err
	}
	rec, err := s.deps.Employees.GetFinancialProfile(ctx, id)
	if err != nil {
		return eligibility.Result{}, err
	}
	profile := rec.Normalize(s.today())
	return s.scorer.Evaluate(profile, amount, loanType), nil
}

// =============================================================================
// COMPENSATION
// =============================================================================

// BonusRequest prices a bonus. BaseSalary wins over the employee's stored
// salary when both are given.
type BonusRequest struct {
	EmployeeID generic.EmployeeID
	BaseSalary *decimal.Decimal
	Tier       compensation.PerformanceTier
	Type       compensation.BonusType
}

// BonusResult is a priced bonus.
type BonusResult struct {
	BaseSalary decimal.Decimal
	Tier       compensation.PerformanceTier
	Type       compensation.BonusType
	Amount     decimal.Decimal
}

// Bonus computes a bonus for an explicit salary or an employee's stored salary.
func (s *Service) Bonus(ctx context.Context, req BonusRequest) (BonusResult, error) {
	base, err := s.salaryFor(ctx, req.EmployeeID, req.BaseSalary, "base_salary")
	if err != nil {
		return BonusResult{}, err
	}
	return BonusResult{
		BaseSalary: base,
		Tier:       req.Tier,
		Type:       req.Type,
		Amount:     s.calculator.ComputeBonus(base, req.Tier, req.Type),
	}, nil
}

// OvertimeRequest prices overtime. Without an hourly rate the rate is derived
// from the employee's annual salary.
type OvertimeRequest struct {
	EmployeeID generic.EmployeeID
	Hours      decimal.Decimal
	HourlyRate *decimal.Decimal
	Category   string
}

// Overtime computes an overtime payment.
func (s *Service) Overtime(ctx context.Context, req OvertimeRequest) (compensation.OvertimeResult, error) {
	category := compensation.NormalizeOvertimeCategory(req.Category)
	if req.HourlyRate != nil {
		return s.calculator.ComputeOvertime(req.Hours, *req.HourlyRate, category)
	}
	salary, err := s.salaryFor(ctx, req.EmployeeID, nil, "hourly_rate")
	if err != nil {
		return compensation.OvertimeResult{}, err
	}
	return s.calculator.ComputeOvertimeFromSalary(req.Hours, salary, category)
}

// IncrementRequest describes a salary review cycle. NextReviewDate defaults to
// one cycle after LastIncrementDate. When IncrementPercent is set the new
// salary is projected from CurrentSalary.
type IncrementRequest struct {
	LastIncrementDate generic.TimePoint
	NextReviewDate    generic.TimePoint
	CurrentSalary     decimal.Decimal
	IncrementPercent  *decimal.Decimal
}

// IncrementResult combines review progress with an optional salary projection.
type IncrementResult struct {
	NextReviewDate generic.TimePoint
	compensation.IncrementProgress
	Projection *compensation.IncrementProjection
}

// Increment reports review progress as of today.
func (s *Service) Increment(req IncrementRequest) (IncrementResult, error) {
	if req.LastIncrementDate.IsZero() {
		return IncrementResult{}, &generic.ValidationError{Field: "last_increment_date", Reason: "is required"}
	}

	state := compensation.IncrementCycleState{
		CurrentSalary:     req.CurrentSalary,
		LastIncrementDate: req.LastIncrementDate,
		NextReviewDate:    req.NextReviewDate,
	}
	if state.NextReviewDate.IsZero() {
		state.NextReviewDate = s.calculator.NextReviewDate(state.LastIncrementDate)
	}

	out := IncrementResult{
		NextReviewDate:    state.NextReviewDate,
		IncrementProgress: s.calculator.Progress(state, s.today()),
	}
	if req.IncrementPercent != nil {
		p, err := s.calculator.ProjectIncrement(req.CurrentSalary, *req.IncrementPercent, state.NextReviewDate)
		if err != nil {
			return IncrementResult{}, err
		}
		out.Projection = &p
	}
	return out, nil
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

// SummaryRequest asks for a contribution projection. CurrentAge falls back to
// the employee's birth date; RetirementAge falls back to DefaultRetirementAge.
type SummaryRequest struct {
	EmployeeID    generic.EmployeeID
	CurrentAge    *int
	RetirementAge int
}

// ContributionSummary is a projection plus the inputs it was computed from.
type ContributionSummary struct {
	EmployeeID     generic.EmployeeID
	MonthlySalary  decimal.Decimal // the salary the monthly contributions are projected from
	CurrentAge     int
	RetirementAge  int
	RetirementDate *generic.TimePoint
	Entries        int
	YearToDate     contribution.YearToDate
	contribution.Projection
}

// ContributionSummary aggregates the ledger and projects it to retirement.
func (s *Service) ContributionSummary(ctx context.Context, req SummaryRequest) (ContributionSummary, error) {
	rec, err := s.deps.Employees.GetFinancialProfile(ctx, req.EmployeeID)
	if err != nil {
		return ContributionSummary{}, err
	}

	today := s.today()
	age := 0
	switch {
	case req.CurrentAge != nil:
		age = *req.CurrentAge
	default:
		a, ok := rec.AgeAt(today)
		if !ok {
			return ContributionSummary{}, &generic.ValidationError{Field: "current_age", Reason: "is required when the birth date is unknown"}
		}
		age = a
	}
	if age < 0 {
		return ContributionSummary{}, &generic.ValidationError{Field: "current_age", Value: fmt.Sprint(age), Reason: "must not be negative"}
	}

	retirementAge := req.RetirementAge
	if retirementAge == 0 {
		retirementAge = DefaultRetirementAge
	}

	ledger, err := s.deps.Contributions.GetLedger(ctx, req.EmployeeID)
	if err != nil {
		return ContributionSummary{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	monthly := rec.Normalize(today).MonthlySalary()
	out := ContributionSummary{
		EmployeeID:    req.EmployeeID,
		MonthlySalary: monthly,
		CurrentAge:    age,
		RetirementAge: retirementAge,
		Entries:       ledger.Len(),
		YearToDate:    s.projector.YearToDate(ledger, today),
		Projection:    s.projector.Summarize(ledger, monthly, age, retirementAge),
	}
	if rec.BirthDate != nil {
		d := contribution.RetirementDate(*rec.BirthDate, retirementAge)
		out.RetirementDate = &d
	}
	return out, nil
}

// RecordContribution appends one payroll month to the ledger, derived from
// the employee's current monthly salary. A zero period means the current month.
func (s *Service) RecordContribution(ctx context.Context, id generic.EmployeeID, period generic.TimePoint) (generic.ContributionEntry, error) {
	rec, err := s.deps.Employees.GetFinancialProfile(ctx, id)
	if err != nil {
		return generic.ContributionEntry{}, err
	}
	if period.IsZero() {
		period = s.today()
	}
	period = generic.StartOfMonth(period.Year(), period.Month())

	profile := rec.Normalize(s.today())
	if !profile.AnnualSalary.IsPositive() {
		return generic.ContributionEntry{}, &generic.ValidationError{Field: "annual_salary", Value: profile.AnnualSalary.String(), Reason: "must be positive to record contributions"}
	}

	split := s.projector.MonthlyContribution(profile.MonthlySalary())
	entry := generic.ContributionEntry{
		ID:          uuid.New().String(),
		EmployeeID:  id,
		Period:      period,
		EPFEmployee: split.EPFEmployee,
		EPFEmployer: split.EPFEmployer,
		ETF:         split.ETF,
	}
	if err := s.deps.Ledger.AppendContribution(ctx, entry); err != nil {
		return generic.ContributionEntry{}, err
	}
	return entry, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// salaryFor returns explicit when given, otherwise the employee's stored
// annual salary. field names the missing input when neither is available.
func (s *Service) salaryFor(ctx context.Context, id generic.EmployeeID, explicit *decimal.Decimal, field string) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if id == "" {
		return decimal.Zero, &generic.ValidationError{Field: field, Reason: "is required without an employee"}
	}
	rec, err := s.deps.Employees.GetFinancialProfile(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return rec.Normalize(s.today()).AnnualSalary, nil
}
