/*
Package sqlite provides a SQLite-backed implementation of the repository interfaces.

PURPOSE:
  Stores employee financial records, the contribution ledger, loan types
  and persisted loan evaluations. In production, the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.EmployeeRepository:     Financial profile lookup
  generic.ContributionRepository: Ledger lookup
  generic.ContributionWriter:     Ledger append
  generic.LoanTypeRepository:     Loan type lookup
  service.EvaluationStore:        Loan evaluation persistence

NULLABLE FINANCIAL DATA:
  Salary, credit score, loan balance, hire date and birth date are all
  nullable columns. The store returns them as nil pointers in a
  generic.ProfileRecord and never invents defaults; defaulting happens
  once, in ProfileRecord.Normalize.

APPEND-ONLY ENFORCEMENT:
  The contributions table has no UPDATE or DELETE path. A unique index on
  (employee_id, period) rejects a month recorded twice.

KEY TABLES:
  employees:         Employee records + nullable financial attributes
  contributions:     Monthly EPF/ETF ledger
  loan_types:        Loan categories
  loan_evaluations:  Eligibility results stored with the loan request

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/eligibility"
	"github.com/warp/compensation-engine/generic"
)

// Store implements all repository interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema and seeds the default loan types.
func (s *Store) migrate() error {
	schema := `
	-- Employees with nullable financial attributes
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		department TEXT,
		hire_date TEXT,
		birth_date TEXT,
		annual_salary TEXT,
		credit_score INTEGER,
		existing_loan_balance TEXT,
		last_increment_date TEXT,
		next_review_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Contribution ledger (append-only)
	CREATE TABLE IF NOT EXISTS contributions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		period TEXT NOT NULL,
		epf_employee TEXT NOT NULL,
		epf_employer TEXT NOT NULL,
		etf TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_contributions_employee_period
		ON contributions(employee_id, period);

	-- Loan categories
	CREATE TABLE IF NOT EXISTS loan_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT
	);

	-- Eligibility results stored with loan requests
	CREATE TABLE IF NOT EXISTS loan_evaluations (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		loan_type TEXT NOT NULL REFERENCES loan_types(id),
		requested_amount TEXT NOT NULL,
		score INTEGER NOT NULL,
		level TEXT NOT NULL,
		factors_json TEXT NOT NULL,
		dti_ratio TEXT,
		max_recommended_amount TEXT NOT NULL,
		approved INTEGER NOT NULL,
		policy_version TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loan_evaluations_employee
		ON loan_evaluations(employee_id, created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	for _, lt := range DefaultLoanTypes() {
		if _, err := s.db.Exec(
			"INSERT OR IGNORE INTO loan_types (id, name, description) VALUES (?, ?, ?)",
			lt.ID, lt.Name, lt.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

// DefaultLoanTypes are seeded on every migration.
func DefaultLoanTypes() []generic.LoanTypeInfo {
	return []generic.LoanTypeInfo{
		{ID: "personal", Name: "Personal Loan", Description: "General purpose salary advance"},
		{ID: "housing", Name: "Housing Loan", Description: "Home purchase or renovation"},
		{ID: "vehicle", Name: "Vehicle Loan", Description: "Vehicle purchase"},
		{ID: "education", Name: "Education Loan", Description: "Tuition and course fees"},
		{ID: "emergency", Name: "Emergency Loan", Description: "Medical or family emergency"},
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee represents an employee record. Financial fields are nullable.
type Employee struct {
	ID                  string
	Name                string
	Email               string
	Department          string
	HireDate            *generic.TimePoint
	BirthDate           *generic.TimePoint
	AnnualSalary        *decimal.Decimal
	CreditScore         *int
	ExistingLoanBalance *decimal.Decimal
	LastIncrementDate   *generic.TimePoint
	NextReviewDate      *generic.TimePoint
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProfileRecord projects the employee onto the engine's input record.
func (e Employee) ProfileRecord() generic.ProfileRecord {
	return generic.ProfileRecord{
		EmployeeID:          generic.EmployeeID(e.ID),
		Name:                e.Name,
		Department:          e.Department,
		AnnualSalary:        e.AnnualSalary,
		HireDate:            e.HireDate,
		CreditScore:         e.CreditScore,
		ExistingLoanBalance: e.ExistingLoanBalance,
		BirthDate:           e.BirthDate,
	}
}

const employeeColumns = `id, name, email, department, hire_date, birth_date, annual_salary,
	credit_score, existing_loan_balance, last_increment_date, next_review_date, created_at, updated_at`

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			department = excluded.department,
			hire_date = excluded.hire_date,
			birth_date = excluded.birth_date,
			annual_salary = excluded.annual_salary,
			credit_score = excluded.credit_score,
			existing_loan_balance = excluded.existing_loan_balance,
			last_increment_date = excluded.last_increment_date,
			next_review_date = excluded.next_review_date,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, nullString(emp.Email), nullString(emp.Department),
		nullDate(emp.HireDate), nullDate(emp.BirthDate),
		nullDecimal(emp.AnnualSalary), nullInt(emp.CreditScore), nullDecimal(emp.ExistingLoanBalance),
		nullDate(emp.LastIncrementDate), nullDate(emp.NextReviewDate),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.EmployeeNotFound(generic.EmployeeID(id))
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetFinancialProfile implements generic.EmployeeRepository.
func (s *Store) GetFinancialProfile(ctx context.Context, id generic.EmployeeID) (generic.ProfileRecord, error) {
	emp, err := s.GetEmployee(ctx, string(id))
	if err != nil {
		return generic.ProfileRecord{}, err
	}
	return emp.ProfileRecord(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (Employee, error) {
	var emp Employee
	var email, department, hireDate, birthDate, salary, loanBalance, lastIncrement, nextReview sql.NullString
	var creditScore sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&emp.ID, &emp.Name, &email, &department, &hireDate, &birthDate, &salary,
		&creditScore, &loanBalance, &lastIncrement, &nextReview, &createdAt, &updatedAt)
	if err != nil {
		return Employee{}, err
	}

	emp.Email = email.String
	emp.Department = department.String
	emp.HireDate = parseNullDate(hireDate)
	emp.BirthDate = parseNullDate(birthDate)
	emp.AnnualSalary = parseNullDecimal(salary)
	emp.ExistingLoanBalance = parseNullDecimal(loanBalance)
	emp.LastIncrementDate = parseNullDate(lastIncrement)
	emp.NextReviewDate = parseNullDate(nextReview)
	if creditScore.Valid {
		v := int(creditScore.Int64)
		emp.CreditScore = &v
	}
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	emp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return emp, nil
}

// =============================================================================
// CONTRIBUTIONS (generic.ContributionRepository / ContributionWriter)
// =============================================================================

// AppendContribution records one month. Returns generic.ErrDuplicateContribution
// when the month is already recorded for the employee.
func (s *Store) AppendContribution(ctx context.Context, e generic.ContributionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO contributions (id, employee_id, period, epf_employee, epf_employer, etf, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.EmployeeID, e.Period.String(),
		e.EPFEmployee.String(), e.EPFEmployer.String(), e.ETF.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateContribution
		}
		return fmt.Errorf("failed to append contribution: %w", err)
	}
	return nil
}

// GetLedger returns the employee's contributions ordered by period.
func (s *Store) GetLedger(ctx context.Context, id generic.EmployeeID) (generic.ContributionLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, period, epf_employee, epf_employer, etf
		FROM contributions WHERE employee_id = ? ORDER BY period
	`, id)
	if err != nil {
		return generic.ContributionLedger{}, err
	}
	defer rows.Close()

	ledger := generic.ContributionLedger{EmployeeID: id}
	for rows.Next() {
		var e generic.ContributionEntry
		var employeeID, period, epfEmployee, epfEmployer, etf string
		if err := rows.Scan(&e.ID, &employeeID, &period, &epfEmployee, &epfEmployer, &etf); err != nil {
			return generic.ContributionLedger{}, err
		}
		e.EmployeeID = generic.EmployeeID(employeeID)
		e.Period, _ = generic.ParseDate(period)
		e.EPFEmployee = generic.MustParseDecimal(epfEmployee)
		e.EPFEmployer = generic.MustParseDecimal(epfEmployer)
		e.ETF = generic.MustParseDecimal(etf)
		ledger.Entries = append(ledger.Entries, e)
	}
	return ledger, rows.Err()
}

// =============================================================================
// LOAN TYPES (generic.LoanTypeRepository)
// =============================================================================

// GetLoanType resolves a loan type.
func (s *Store) GetLoanType(ctx context.Context, id generic.LoanType) (generic.LoanTypeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lt generic.LoanTypeInfo
	var ltID string
	var desc sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM loan_types WHERE id = ?", id,
	).Scan(&ltID, &lt.Name, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.LoanTypeInfo{}, generic.LoanTypeNotFound(id)
	}
	if err != nil {
		return generic.LoanTypeInfo{}, err
	}
	lt.ID = generic.LoanType(ltID)
	lt.Description = desc.String
	return lt, nil
}

// ListLoanTypes returns all loan types ordered by ID.
func (s *Store) ListLoanTypes(ctx context.Context) ([]generic.LoanTypeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM loan_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []generic.LoanTypeInfo
	for rows.Next() {
		var lt generic.LoanTypeInfo
		var id string
		var desc sql.NullString
		if err := rows.Scan(&id, &lt.Name, &desc); err != nil {
			return nil, err
		}
		lt.ID = generic.LoanType(id)
		lt.Description = desc.String
		out = append(out, lt)
	}
	return out, rows.Err()
}

// =============================================================================
// LOAN EVALUATIONS (service.EvaluationStore)
// =============================================================================

// SaveEvaluation persists an evaluation record.
func (s *Store) SaveEvaluation(ctx context.Context, r eligibility.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	factorsJSON, err := json.Marshal(r.Factors)
	if err != nil {
		return fmt.Errorf("failed to encode factors: %w", err)
	}

	var ratio sql.NullString
	if r.DebtToIncomeRatio != nil {
		ratio = sql.NullString{String: r.DebtToIncomeRatio.String(), Valid: true}
	}

	query := `
		INSERT INTO loan_evaluations
		(id, employee_id, loan_type, requested_amount, score, level, factors_json, dti_ratio,
		 max_recommended_amount, approved, policy_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.LoanType, r.RequestedAmount.String(), r.Score, string(r.Level),
		string(factorsJSON), ratio, r.MaxRecommendedAmount.String(), boolToInt(r.Approved),
		nullString(r.PolicyVersion), r.CreatedAt.UTC().Format(evaluationTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// evaluationTimeLayout keeps every timestamp the same width so that
// created_at sorts chronologically as text.
const evaluationTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ListEvaluations returns an employee's evaluations, newest first.
func (s *Store) ListEvaluations(ctx context.Context, employeeID generic.EmployeeID) ([]eligibility.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, loan_type, requested_amount, score, level, factors_json, dti_ratio,
		       max_recommended_amount, approved, policy_version, created_at
		FROM loan_evaluations WHERE employee_id = ? ORDER BY created_at DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []eligibility.Record
	for rows.Next() {
		var r eligibility.Record
		var empID, loanType, requested, level, factorsJSON, maxAmount, createdAt string
		var ratio, policyVersion sql.NullString
		var approved int
		if err := rows.Scan(&r.ID, &empID, &loanType, &requested, &r.Score, &level, &factorsJSON,
			&ratio, &maxAmount, &approved, &policyVersion, &createdAt); err != nil {
			return nil, err
		}
		r.EmployeeID = generic.EmployeeID(empID)
		r.LoanType = generic.LoanType(loanType)
		r.RequestedAmount = generic.MustParseDecimal(requested)
		r.Level = generic.EligibilityLevel(level)
		r.MaxRecommendedAmount = generic.MustParseDecimal(maxAmount)
		r.DebtToIncomeRatio = parseNullDecimal(ratio)
		r.Approved = approved == 1
		r.PolicyVersion = policyVersion.String
		r.CreatedAt, _ = time.Parse(evaluationTimeLayout, createdAt)
		if err := json.Unmarshal([]byte(factorsJSON), &r.Factors); err != nil {
			return nil, fmt.Errorf("failed to decode factors for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes all employee data. Loan types are re-seeded.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"loan_evaluations", "contributions", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(tp *generic.TimePoint) sql.NullString {
	if tp == nil || tp.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func parseNullDate(ns sql.NullString) *generic.TimePoint {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	tp, err := generic.ParseDate(ns.String)
	if err != nil {
		return nil
	}
	return &tp
}

func parseNullDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
