/*
errors.go - Centralized error types for the decision engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine has exactly two failure kinds:

  1. Validation errors - a calculator that requires strictly positive input
     (overtime hours, hourly rate) was given something else.
  2. Not-found errors - the employee or loan type could not be resolved by
     the repository layer. This happens BEFORE the engine is invoked.

  A "Low" eligibility tier is a successful result, never an error.

USAGE:
  if errors.Is(err, generic.ErrInvalidInput) {
      // 400
  }
  if generic.IsNotFound(err) {
      // 404
  }

SEE ALSO:
  - compensation/overtime.go: Returns ValidationError
  - store/sqlite/sqlite.go: Returns NotFoundError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a calculator rejects structurally invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataNotFound is the parent of every "could not resolve" error.
	ErrDataNotFound = errors.New("data not found")

	// ErrEmployeeNotFound is returned when an employee profile cannot be resolved.
	ErrEmployeeNotFound = fmt.Errorf("employee: %w", ErrDataNotFound)

	// ErrLoanTypeNotFound is returned when a loan type reference cannot be resolved.
	ErrLoanTypeNotFound = fmt.Errorf("loan type: %w", ErrDataNotFound)

	// ErrInvalidPolicy is returned when a decision policy fails validation.
	ErrInvalidPolicy = errors.New("invalid decision policy")

	// ErrDuplicateContribution is returned when a contribution month is
	// recorded twice for the same employee. The ledger is append-only.
	ErrDuplicateContribution = errors.New("contribution month already recorded")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a rejected input value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError identifies which reference could not be resolved.
type NotFoundError struct {
	Kind string // "employee", "loan_type"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	switch e.Kind {
	case "employee":
		return ErrEmployeeNotFound
	case "loan_type":
		return ErrLoanTypeNotFound
	default:
		return ErrDataNotFound
	}
}

// EmployeeNotFound builds the error repositories return for a missing employee.
func EmployeeNotFound(id EmployeeID) error {
	return &NotFoundError{Kind: "employee", ID: string(id)}
}

// LoanTypeNotFound builds the error repositories return for a missing loan type.
func LoanTypeNotFound(id LoanType) error {
	return &NotFoundError{Kind: "loan_type", ID: string(id)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrDuplicateContribution)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDataNotFound)
}
