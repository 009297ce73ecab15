/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	employee records. Each scenario demonstrates a slice of the engine:
	eligibility tiers, missing-data handling, contribution history, and
	overdue salary reviews.

AVAILABLE SCENARIOS:

	loan-applicants:  High, Medium and Low tier applicants (one with no financial data)
	payroll-history:  Twelve months of EPF/ETF contributions and an overdue review
	full-demo:        Both of the above

HOW SCENARIOS WORK:
 1. Reset database (clear employees, contributions, evaluations)
 2. Create employees with dates relative to today
 3. Record contribution months through the service
 4. Invalidate any cached profiles

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "loan-applicants"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Endpoint handlers
  - service/service.go: RecordContribution
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
	"github.com/warp/compensation-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "loan-applicants",
		Name:        "Loan Applicants",
		Description: "Three employees landing in the High, Medium and Low eligibility tiers",
	},
	{
		ID:          "payroll-history",
		Name:        "Payroll History",
		Description: "A year of EPF/ETF contributions and an overdue salary review",
	},
	{
		ID:          "full-demo",
		Name:        "Full Demo",
		Description: "Loan applicants plus payroll history",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var loaders []func(context.Context) ([]string, error)
	switch req.ScenarioID {
	case "loan-applicants":
		loaders = append(loaders, h.loadLoanApplicants)
	case "payroll-history":
		loaders = append(loaders, h.loadPayrollHistory)
	case "full-demo":
		loaders = append(loaders, h.loadLoanApplicants, h.loadPayrollHistory)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	previous, err := h.Store.ListEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	for _, e := range previous {
		h.Service.EmployeeChanged(ctx, generic.EmployeeID(e.ID))
	}

	var created []string
	for _, load := range loaders {
		ids, err := load(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
			return
		}
		created = append(created, ids...)
	}
	for _, id := range created {
		h.Service.EmployeeChanged(ctx, generic.EmployeeID(id))
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"scenario":  req.ScenarioID,
		"employees": created,
	})
}

// ResetDatabase clears all employee data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	for _, e := range employees {
		h.Service.EmployeeChanged(r.Context(), generic.EmployeeID(e.ID))
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadLoanApplicants(ctx context.Context) ([]string, error) {
	today := h.Service.Today()

	employees := []sqlite.Employee{
		{
			// 45k, 30 months, 710 credit, 2k outstanding: score 85, High
			ID:                  "emp-amara",
			Name:                "Amara Perera",
			Email:               "amara@example.com",
			Department:          "Engineering",
			HireDate:            datePtr(today.AddMonths(-30)),
			BirthDate:           datePtr(today.AddYears(-34)),
			AnnualSalary:        money("45000"),
			CreditScore:         intPtr(710),
			ExistingLoanBalance: money("2000"),
		},
		{
			// 38k, 14 months, 660 credit, no debt: score 65, Medium
			ID:           "emp-kasun",
			Name:         "Kasun Silva",
			Email:        "kasun@example.com",
			Department:   "Operations",
			HireDate:     datePtr(today.AddMonths(-14)),
			BirthDate:    datePtr(today.AddYears(-27)),
			AnnualSalary: money("38000"),
			CreditScore:  intPtr(660),
		},
		{
			// No financial data on file: score 40, Low
			ID:         "emp-nimali",
			Name:       "Nimali Fernando",
			Email:      "nimali@example.com",
			Department: "Sales",
		},
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", e.ID, err)
		}
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (h *Handler) loadPayrollHistory(ctx context.Context) ([]string, error) {
	today := h.Service.Today()
	start := generic.StartOfMonth(today.Year(), today.Month()).AddMonths(-12)

	emp := sqlite.Employee{
		ID:                "emp-ruwan",
		Name:              "Ruwan Jayasinghe",
		Email:             "ruwan@example.com",
		Department:        "Finance",
		HireDate:          datePtr(today.AddYears(-6)),
		BirthDate:         datePtr(today.AddYears(-41)),
		AnnualSalary:      money("96000"),
		CreditScore:       intPtr(690),
		LastIncrementDate: datePtr(today.AddMonths(-15)),
		NextReviewDate:    datePtr(today.AddMonths(-3)),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", emp.ID, err)
	}
	h.Service.EmployeeChanged(ctx, generic.EmployeeID(emp.ID))

	for i := 0; i < 12; i++ {
		if _, err := h.Service.RecordContribution(ctx, generic.EmployeeID(emp.ID), start.AddMonths(i)); err != nil {
			return nil, fmt.Errorf("failed to record month %d for %s: %w", i+1, emp.ID, err)
		}
	}
	return []string{emp.ID}, nil
}

func datePtr(tp generic.TimePoint) *generic.TimePoint {
	return &tp
}

func money(s string) *decimal.Decimal {
	d := generic.MustParseDecimal(s)
	return &d
}

func intPtr(v int) *int {
	return &v
}
