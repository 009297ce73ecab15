/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are decimal.Decimal. They are written as JSON strings ("45000.5")
  and accepted as either strings or numbers.

DATES:
  generic.TimePoint fields use YYYY-MM-DD. Missing nullable values are
  omitted, never zero-filled.

TYPES:
  Employee:      EmployeeDTO, SaveEmployeeRequest
  Eligibility:   EligibilityDTO, LoanEvaluationDTO, LoanRequestDTO
  Compensation:  BonusRequestDTO, BonusDTO, OvertimeRequestDTO, OvertimeDTO,
                 IncrementRequestDTO, IncrementDTO
  Contributions: ContributionSummaryDTO, RecordContributionRequest, ContributionEntryDTO
  Misc:          LoanTypeDTO, ScenarioDTO, ErrorResponse

VALIDATION:
  Validation is done in handlers and the service, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON, returned by GET /api/policy
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/compensation"
	"github.com/warp/compensation-engine/eligibility"
	"github.com/warp/compensation-engine/generic"
	"github.com/warp/compensation-engine/service"
	"github.com/warp/compensation-engine/store/sqlite"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email,omitempty"`
	Department          string             `json:"department,omitempty"`
	HireDate            *generic.TimePoint `json:"hire_date,omitempty"`
	BirthDate           *generic.TimePoint `json:"birth_date,omitempty"`
	TenureMonths        int                `json:"tenure_months"`
	AnnualSalary        *decimal.Decimal   `json:"annual_salary,omitempty"`
	CreditScore         *int               `json:"credit_score,omitempty"`
	ExistingLoanBalance *decimal.Decimal   `json:"existing_loan_balance,omitempty"`
	LastIncrementDate   *generic.TimePoint `json:"last_increment_date,omitempty"`
	NextReviewDate      *generic.TimePoint `json:"next_review_date,omitempty"`
	CreatedAt           string             `json:"created_at,omitempty"`
}

// SaveEmployeeRequest creates or updates an employee record.
type SaveEmployeeRequest struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Department          string             `json:"department"`
	HireDate            *generic.TimePoint `json:"hire_date"`
	BirthDate           *generic.TimePoint `json:"birth_date"`
	AnnualSalary        *decimal.Decimal   `json:"annual_salary"`
	CreditScore         *int               `json:"credit_score"`
	ExistingLoanBalance *decimal.Decimal   `json:"existing_loan_balance"`
	LastIncrementDate   *generic.TimePoint `json:"last_increment_date"`
	NextReviewDate      *generic.TimePoint `json:"next_review_date"`
}

func (req SaveEmployeeRequest) toEmployee() sqlite.Employee {
	return sqlite.Employee{
		ID:                  req.ID,
		Name:                req.Name,
		Email:               req.Email,
		Department:          req.Department,
		HireDate:            nonZeroDate(req.HireDate),
		BirthDate:           nonZeroDate(req.BirthDate),
		AnnualSalary:        req.AnnualSalary,
		CreditScore:         req.CreditScore,
		ExistingLoanBalance: req.ExistingLoanBalance,
		LastIncrementDate:   nonZeroDate(req.LastIncrementDate),
		NextReviewDate:      nonZeroDate(req.NextReviewDate),
	}
}

func toEmployeeDTO(e sqlite.Employee, today generic.TimePoint) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                  e.ID,
		Name:                e.Name,
		Email:               e.Email,
		Department:          e.Department,
		HireDate:            e.HireDate,
		BirthDate:           e.BirthDate,
		TenureMonths:        e.ProfileRecord().Normalize(today).TenureMonths,
		AnnualSalary:        e.AnnualSalary,
		CreditScore:         e.CreditScore,
		ExistingLoanBalance: e.ExistingLoanBalance,
		LastIncrementDate:   e.LastIncrementDate,
		NextReviewDate:      e.NextReviewDate,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// EligibilityDTO is one eligibility evaluation.
type EligibilityDTO struct {
	EmployeeID           string               `json:"employee_id"`
	LoanType             string               `json:"loan_type"`
	Score                int                  `json:"score"`
	Level                string               `json:"level"`
	Factors              []eligibility.Factor `json:"factors"`
	DebtToIncomeRatio    *decimal.Decimal     `json:"debt_to_income_ratio"`
	MaxRecommendedAmount decimal.Decimal      `json:"max_recommended_amount"`
	RequestedAmount      decimal.Decimal      `json:"requested_amount"`
	Approved             bool                 `json:"approved"`
}

// LoanEvaluationDTO is a persisted evaluation.
type LoanEvaluationDTO struct {
	ID            string `json:"id"`
	PolicyVersion string `json:"policy_version"`
	CreatedAt     string `json:"created_at"`
	EligibilityDTO
}

// LoanRequestDTO submits a loan request for evaluation.
type LoanRequestDTO struct {
	LoanType string          `json:"loan_type"`
	Amount   decimal.Decimal `json:"amount"`
}

func toEligibilityDTO(r eligibility.Result) EligibilityDTO {
	return EligibilityDTO{
		EmployeeID:           string(r.EmployeeID),
		LoanType:             string(r.LoanType),
		Score:                r.Score,
		Level:                string(r.Level),
		Factors:              r.Factors,
		DebtToIncomeRatio:    r.DebtToIncomeRatio,
		MaxRecommendedAmount: r.MaxRecommendedAmount,
		RequestedAmount:      r.RequestedAmount,
		Approved:             r.Approved,
	}
}

func toLoanEvaluationDTO(r eligibility.Record) LoanEvaluationDTO {
	return LoanEvaluationDTO{
		ID:             r.ID,
		PolicyVersion:  r.PolicyVersion,
		CreatedAt:      r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		EligibilityDTO: toEligibilityDTO(r.Result),
	}
}

// =============================================================================
// COMPENSATION
// =============================================================================

// BonusRequestDTO prices a bonus for an explicit salary or a stored employee.
type BonusRequestDTO struct {
	EmployeeID      string           `json:"employee_id"`
	BaseSalary      *decimal.Decimal `json:"base_salary"`
	PerformanceTier string           `json:"performance_tier"`
	BonusType       string           `json:"bonus_type"`
}

// BonusDTO is a priced bonus.
type BonusDTO struct {
	BaseSalary      decimal.Decimal `json:"base_salary"`
	PerformanceTier string          `json:"performance_tier,omitempty"`
	BonusType       string          `json:"bonus_type"`
	Amount          decimal.Decimal `json:"amount"`
}

// OvertimeRequestDTO prices overtime. Without hourly_rate the rate is derived
// from the employee's annual salary.
type OvertimeRequestDTO struct {
	EmployeeID string           `json:"employee_id"`
	Hours      decimal.Decimal  `json:"hours"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
	Category   string           `json:"category"`
}

// OvertimeDTO is a priced overtime claim.
type OvertimeDTO struct {
	Hours    decimal.Decimal `json:"hours"`
	Category string          `json:"category"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

func toOvertimeDTO(o compensation.OvertimeResult) OvertimeDTO {
	return OvertimeDTO{
		Hours:    o.Hours,
		Category: string(o.Category),
		Rate:     o.Rate,
		Amount:   o.Amount,
	}
}

// IncrementRequestDTO asks for review progress. With employee_id the stored
// increment dates and salary fill any field left out.
type IncrementRequestDTO struct {
	EmployeeID        string             `json:"employee_id"`
	LastIncrementDate *generic.TimePoint `json:"last_increment_date"`
	NextReviewDate    *generic.TimePoint `json:"next_review_date"`
	CurrentSalary     *decimal.Decimal   `json:"current_salary"`
	IncrementPercent  *decimal.Decimal   `json:"increment_percent"`
}

// IncrementDTO is the review progress, with an optional salary projection.
type IncrementDTO struct {
	NextReviewDate        generic.TimePoint       `json:"next_review_date"`
	MonthsToNextReview    int                     `json:"months_to_next_review"`
	ReviewProgressPercent float64                 `json:"review_progress_percent"`
	Projection            *IncrementProjectionDTO `json:"projection,omitempty"`
}

// IncrementProjectionDTO is the salary after an increment.
type IncrementProjectionDTO struct {
	PreviousSalary  decimal.Decimal   `json:"previous_salary"`
	IncrementAmount decimal.Decimal   `json:"increment_amount"`
	NewSalary       decimal.Decimal   `json:"new_salary"`
	NextReviewDate  generic.TimePoint `json:"next_review_date"`
}

func toIncrementDTO(r service.IncrementResult) IncrementDTO {
	dto := IncrementDTO{
		NextReviewDate:        r.NextReviewDate,
		MonthsToNextReview:    r.MonthsToNextReview,
		ReviewProgressPercent: r.ReviewProgressPercent,
	}
	if p := r.Projection; p != nil {
		dto.Projection = &IncrementProjectionDTO{
			PreviousSalary:  p.PreviousSalary,
			IncrementAmount: p.IncrementAmount,
			NewSalary:       p.NewSalary,
			NextReviewDate:  p.NextReviewDate,
		}
	}
	return dto
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

// ContributionSummaryDTO is the EPF/ETF position and its projection.
type ContributionSummaryDTO struct {
	EmployeeID          string             `json:"employee_id"`
	CurrentAge          int                `json:"current_age"`
	RetirementAge       int                `json:"retirement_age"`
	RetirementDate      *generic.TimePoint `json:"retirement_date,omitempty"`
	Entries             int                `json:"entries"`
	MonthlySalary       decimal.Decimal    `json:"monthly_salary"`
	FiscalYearStart     generic.TimePoint  `json:"fiscal_year_start"`
	FiscalYearEnd       generic.TimePoint  `json:"fiscal_year_end"`
	YearToDateEPF       decimal.Decimal    `json:"ytd_epf"`
	YearToDateETF       decimal.Decimal    `json:"ytd_etf"`
	EPFBalance          decimal.Decimal    `json:"epf_balance"`
	ETFBalance          decimal.Decimal    `json:"etf_balance"`
	MonthlyEPFTotal     decimal.Decimal    `json:"monthly_epf_total"`
	MonthlyETFTotal     decimal.Decimal    `json:"monthly_etf_total"`
	MonthsToRetirement  int                `json:"months_to_retirement"`
	ProjectedEPFBalance decimal.Decimal    `json:"projected_epf_balance"`
	ProjectedETFBalance decimal.Decimal    `json:"projected_etf_balance"`
}

func toContributionSummaryDTO(s service.ContributionSummary) ContributionSummaryDTO {
	return ContributionSummaryDTO{
		EmployeeID:          string(s.EmployeeID),
		CurrentAge:          s.CurrentAge,
		RetirementAge:       s.RetirementAge,
		RetirementDate:      s.RetirementDate,
		Entries:             s.Entries,
		MonthlySalary:       s.MonthlySalary,
		FiscalYearStart:     s.YearToDate.Period.Start,
		FiscalYearEnd:       s.YearToDate.Period.End,
		YearToDateEPF:       s.YearToDate.EPF,
		YearToDateETF:       s.YearToDate.ETF,
		EPFBalance:          s.EPFBalance,
		ETFBalance:          s.ETFBalance,
		MonthlyEPFTotal:     s.MonthlyEPFTotal,
		MonthlyETFTotal:     s.MonthlyETFTotal,
		MonthsToRetirement:  s.MonthsToRetirement,
		ProjectedEPFBalance: s.ProjectedEPFBalance,
		ProjectedETFBalance: s.ProjectedETFBalance,
	}
}

// RecordContributionRequest records one payroll month. A missing period means
// the current month.
type RecordContributionRequest struct {
	Period *generic.TimePoint `json:"period"`
}

// ContributionEntryDTO is one ledger month.
type ContributionEntryDTO struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	Period      generic.TimePoint `json:"period"`
	EPFEmployee decimal.Decimal   `json:"epf_employee"`
	EPFEmployer decimal.Decimal   `json:"epf_employer"`
	ETF         decimal.Decimal   `json:"etf"`
}

func toContributionEntryDTO(e generic.ContributionEntry) ContributionEntryDTO {
	return ContributionEntryDTO{
		ID:          e.ID,
		EmployeeID:  string(e.EmployeeID),
		Period:      e.Period,
		EPFEmployee: e.EPFEmployee,
		EPFEmployer: e.EPFEmployer,
		ETF:         e.ETF,
	}
}

// =============================================================================
// MISC
// =============================================================================

// LoanTypeDTO represents a loan category.
type LoanTypeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func nonZeroDate(tp *generic.TimePoint) *generic.TimePoint {
	if tp == nil || tp.IsZero() {
		return nil
	}
	return tp
}
